package entity

import (
	"github.com/muurk/hatui/internal/config"
	"github.com/muurk/hatui/internal/homeassistant"
)

const (
	// StateUnknown is shown until the first successful refresh
	StateUnknown = "unknown"
	// StateError marks a tile whose last refresh failed
	StateError = "error"
)

// Tile is the runtime view of one binding on the active dashboard.
type Tile struct {
	EntityID     string
	Type         config.EntityType // resolved, never auto
	Icon         string            // binding override, may be empty
	DisplayName  string            // binding override, may be empty
	FriendlyName string

	RemoteState string
	Attributes  map[string]any

	Selected   bool
	BeingMoved bool
	Holding    bool

	// StagedBrightness is a percentage the user chose but the server has not confirmed
	StagedBrightness *int
}

// NewTile creates a tile for a binding in the "unknown" state.
func NewTile(b config.EntityBinding) *Tile {
	t := &Tile{
		EntityID:    b.Entity,
		Type:        Resolve(b.Type, b.Entity),
		Icon:        b.Icon,
		DisplayName: b.DisplayName,
		RemoteState: StateUnknown,
		Attributes:  map[string]any{},
	}
	t.FriendlyName = t.fallbackName()
	return t
}

func (t *Tile) fallbackName() string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	if name, ok := t.Attributes["friendly_name"].(string); ok && name != "" {
		return name
	}
	return DefaultName(t.EntityID)
}

// Domain returns the entity's domain.
func (t *Tile) Domain() string {
	return homeassistant.Domain(t.EntityID)
}

// Glyph returns the tile icon.
func (t *Tile) Glyph() string {
	if t.Icon != "" {
		return t.Icon
	}
	return DefaultIcon(t.EntityID)
}

// ApplyState copies a fetched state into the tile. A nil state (entity not
// found) leaves the tile unchanged.
func (t *Tile) ApplyState(s *homeassistant.State) {
	if s == nil {
		return
	}
	t.RemoteState = s.State
	if t.RemoteState == "" {
		t.RemoteState = StateUnknown
	}
	t.Attributes = s.Attributes
	if t.Attributes == nil {
		t.Attributes = map[string]any{}
	}
	t.FriendlyName = t.fallbackName()
}

// MarkError records a failed refresh.
func (t *Tile) MarkError() {
	t.RemoteState = StateError
}

// SetDisplayName sets or clears the label override.
func (t *Tile) SetDisplayName(name string) {
	t.DisplayName = name
	t.FriendlyName = t.fallbackName()
}

// Toggleable reports whether Space does anything for this tile.
func (t *Tile) Toggleable() bool {
	switch t.Type {
	case config.TypeLight, config.TypeToggle, config.TypeAction:
		return true
	}
	return false
}

// FlipOptimistic inverts the on/off state before the server confirms it and
// returns the previous state for Restore. Anything other than "off" becomes "off".
func (t *Tile) FlipOptimistic() string {
	prev := t.RemoteState
	if prev == "off" {
		t.RemoteState = "on"
	} else {
		t.RemoteState = "off"
	}
	return prev
}

// Restore reverts an optimistic flip.
func (t *Tile) Restore(prev string) {
	t.RemoteState = prev
}

// SupportsBrightness reports whether brightness keys apply. Lights without a
// supported_features attribute are assumed dimmable.
func (t *Tile) SupportsBrightness() bool {
	if t.Type != config.TypeLight {
		return false
	}
	if _, ok := t.Attributes["brightness"]; ok {
		return true
	}
	features, ok := numberAttr(t.Attributes, "supported_features")
	if !ok {
		return true
	}
	return int(features)&1 != 0
}

// BrightnessPct returns the confirmed brightness as a percentage, 0 when unknown.
func (t *Tile) BrightnessPct() int {
	b, ok := numberAttr(t.Attributes, "brightness")
	if !ok {
		return 0
	}
	return BrightnessToPercent(b)
}

// DisplayBrightness returns the staged percentage if any, else the confirmed one.
func (t *Tile) DisplayBrightness() (pct int, staged bool) {
	if t.StagedBrightness != nil {
		return *t.StagedBrightness, true
	}
	return t.BrightnessPct(), false
}

// Stage records a brightness the user is adjusting towards.
func (t *Tile) Stage(pct int) {
	t.StagedBrightness = &pct
}

// ClearStaged drops any staged brightness.
func (t *Tile) ClearStaged() {
	t.StagedBrightness = nil
}

// CommitBrightness writes a confirmed percentage through to the attributes.
// A staged value is cleared only if it is the one that was committed, so a
// newer value staged meanwhile survives.
func (t *Tile) CommitBrightness(pct int) {
	if t.Attributes == nil {
		t.Attributes = map[string]any{}
	}
	t.Attributes["brightness"] = float64(PercentToBrightness(pct))
	if pct > 0 {
		t.RemoteState = "on"
	}
	if t.StagedBrightness != nil && *t.StagedBrightness == pct {
		t.StagedBrightness = nil
	}
}

// Ghost returns the copy drawn under the cursor while this tile is held.
func (t *Tile) Ghost() *Tile {
	g := *t
	g.Selected = false
	g.BeingMoved = false
	g.Holding = true
	return &g
}

func numberAttr(attrs map[string]any, key string) (float64, bool) {
	switch v := attrs[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
