package entity

import (
	"context"
	"fmt"
	"time"

	"github.com/muurk/hatui/internal/homeassistant"
	"github.com/muurk/hatui/internal/logging"
)

const (
	// LightVerifyDelay is the wait before re-reading a light after a switch
	LightVerifyDelay = 200 * time.Millisecond
	// ToggleVerifyDelay is the wait before re-reading any other entity after an action
	ToggleVerifyDelay = 100 * time.Millisecond
	// BrightnessVerifyDelay is the wait before re-reading a light after a brightness commit
	BrightnessVerifyDelay = 100 * time.Millisecond
	// TurnOnSettle is the pause between turning a light on and setting its brightness
	TurnOnSettle = 200 * time.Millisecond
)

// Remote is the subset of the Home Assistant client used for tile actions.
type Remote interface {
	GetState(ctx context.Context, entityID string) (*homeassistant.State, error)
	CallService(ctx context.Context, domain, service, entityID string, extras map[string]any) error
	Toggle(ctx context.Context, entityID string) error
}

// Operator runs the remote half of tile actions. Its methods block on the
// network and are called from background commands; the tile itself is only
// touched on the event loop.
type Operator struct {
	remote Remote

	// Sleep waits for d or until ctx is done. Tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewOperator creates an Operator for remote.
func NewOperator(remote Remote) *Operator {
	return &Operator{remote: remote, Sleep: sleepContext}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Fetch reads the entity's current state. A nil state with a nil error means
// the server does not know the entity.
func (o *Operator) Fetch(ctx context.Context, entityID string) (*homeassistant.State, error) {
	state, err := o.remote.GetState(ctx, entityID)
	if err != nil {
		logging.LogRefreshFailure(entityID, err)
		return nil, err
	}
	return state, nil
}

// SwitchLight sends light.turn_on or light.turn_off based on the state before
// the optimistic flip, falling back to the generic toggle.
func (o *Operator) SwitchLight(ctx context.Context, entityID, prev string) error {
	service := "turn_off"
	if prev == "off" {
		service = "turn_on"
	}

	err := o.remote.CallService(ctx, "light", service, entityID, nil)
	if err == nil {
		return nil
	}
	if fallbackErr := o.remote.Toggle(ctx, entityID); fallbackErr != nil {
		return fmt.Errorf("light.%s failed (%v), toggle failed: %w", service, err, fallbackErr)
	}
	return nil
}

// ToggleGeneric sends homeassistant.toggle, falling back to the domain's own
// turn_on or turn_off when the generic service is rejected.
func (o *Operator) ToggleGeneric(ctx context.Context, entityID, prev string) error {
	err := o.remote.Toggle(ctx, entityID)
	if err == nil || homeassistant.IsAuthError(err) {
		return err
	}

	domain := homeassistant.Domain(entityID)
	service := "turn_off"
	switch {
	case domain == "light":
		service = "toggle"
	case prev == "off":
		service = "turn_on"
	}
	if fallbackErr := o.remote.CallService(ctx, domain, service, entityID, nil); fallbackErr != nil {
		return fmt.Errorf("toggle failed (%v), %s.%s failed: %w", err, domain, service, fallbackErr)
	}
	return nil
}

// Run triggers a script, automation, scene or button.
func (o *Operator) Run(ctx context.Context, entityID string) error {
	return o.remote.CallService(ctx, homeassistant.Domain(entityID), "turn_on", entityID, nil)
}

// SetBrightness sets an absolute brightness percentage. A light that was off is
// turned on first and given TurnOnSettle to come up.
func (o *Operator) SetBrightness(ctx context.Context, entityID string, pct int, wasOff bool) error {
	if wasOff {
		if err := o.remote.CallService(ctx, "light", "turn_on", entityID, nil); err != nil {
			return err
		}
		if err := o.Sleep(ctx, TurnOnSettle); err != nil {
			return err
		}
	}
	return o.remote.CallService(ctx, "light", "turn_on", entityID, map[string]any{
		"brightness": PercentToBrightness(pct),
	})
}
