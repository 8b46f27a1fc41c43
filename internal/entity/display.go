package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muurk/hatui/internal/config"
)

// Border is the tile frame style, picked from flags first and state second.
type Border int

const (
	BorderDefault Border = iota
	BorderOn
	BorderOff
	BorderUnknown
	BorderHolding
	BorderMoving
	BorderSelected
)

// Border returns the frame for the tile's current flags and state.
func (t *Tile) Border() Border {
	switch {
	case t.Holding:
		return BorderHolding
	case t.BeingMoved:
		return BorderMoving
	case t.Selected:
		return BorderSelected
	}

	switch t.RemoteState {
	case "on", "home", "heat", "cool":
		return BorderOn
	case "off", "away", "unavailable":
		return BorderOff
	case StateUnknown:
		return BorderUnknown
	}
	return BorderDefault
}

// StateText is the tile body line describing the entity's state.
func (t *Tile) StateText() string {
	switch t.Type {
	case config.TypeLight:
		if !t.SupportsBrightness() || t.RemoteState != "on" {
			break
		}
		pct, staged := t.DisplayBrightness()
		if staged {
			return fmt.Sprintf("State: on (%d%%)*", pct)
		}
		return fmt.Sprintf("State: on (%d%%)", pct)

	case config.TypeSensor:
		unit, _ := t.Attributes["unit_of_measurement"].(string)
		return strings.TrimSpace("Value: " + t.RemoteState + " " + unit)

	case config.TypeClimate:
		return fmt.Sprintf("Current: %s°C | Target: %s°C",
			formatAttr(t.Attributes, "current_temperature"),
			formatAttr(t.Attributes, "temperature"))
	}
	return "State: " + t.RemoteState
}

// Hint lists what Space and the brightness keys do for this tile.
func (t *Tile) Hint() string {
	switch t.Type {
	case config.TypeLight:
		if t.SupportsBrightness() {
			return "SPACE: Toggle | CTRL+↑↓: Brightness"
		}
		return "SPACE: Toggle"
	case config.TypeToggle:
		return "SPACE: Toggle"
	case config.TypeAction:
		return "SPACE: Run"
	}
	return "Read Only"
}

func formatAttr(attrs map[string]any, key string) string {
	if v, ok := numberAttr(attrs, key); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if s, ok := attrs[key].(string); ok && s != "" {
		return s
	}
	return "N/A"
}
