package entity

import (
	"testing"

	"github.com/muurk/hatui/internal/config"
	"github.com/muurk/hatui/internal/homeassistant"
)

func lightTile(state string, attrs map[string]any) *Tile {
	t := NewTile(config.EntityBinding{Entity: "light.kitchen", Type: config.TypeAuto})
	t.ApplyState(&homeassistant.State{EntityID: "light.kitchen", State: state, Attributes: attrs})
	return t
}

func TestClassify(t *testing.T) {
	tests := map[string]config.EntityType{
		"light.kitchen":         config.TypeLight,
		"switch.fan":            config.TypeToggle,
		"input_boolean.guest":   config.TypeToggle,
		"fan.ceiling":           config.TypeToggle,
		"cover.garage":          config.TypeToggle,
		"media_player.tv":       config.TypeToggle,
		"sensor.temperature":    config.TypeSensor,
		"binary_sensor.door":    config.TypeSensor,
		"climate.hall":          config.TypeClimate,
		"script.goodnight":      config.TypeAction,
		"automation.lights_out": config.TypeAction,
		"scene.movie":           config.TypeAction,
		"button.restart":        config.TypeAction,
		"sun.sun":               config.TypeToggle,
		"weather.home":          config.TypeToggle,
	}

	for id, want := range tests {
		if got := Classify(id); got != want {
			t.Errorf("Classify(%q) = %s, want %s", id, got, want)
		}
	}
}

func TestResolveKeepsExplicitType(t *testing.T) {
	if got := Resolve(config.TypeSensor, "light.kitchen"); got != config.TypeSensor {
		t.Errorf("Resolve(sensor, light.kitchen) = %s, want sensor", got)
	}
	if got := Resolve(config.TypeAuto, "light.kitchen"); got != config.TypeLight {
		t.Errorf("Resolve(auto, light.kitchen) = %s, want light", got)
	}
}

func TestDefaultName(t *testing.T) {
	tests := map[string]string{
		"light.living_room": "Living Room",
		"sun.sun":           "Sun",
		"sensor.CO2_level":  "Co2 Level",
		"sensor.über_temp":  "Über Temp",
		"switch.émile":      "Émile",
	}
	for id, want := range tests {
		if got := DefaultName(id); got != want {
			t.Errorf("DefaultName(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestBrightnessConversions(t *testing.T) {
	if got := PercentToBrightness(70); got != 178 {
		t.Errorf("PercentToBrightness(70) = %d, want 178", got)
	}
	if got := PercentToBrightness(100); got != 255 {
		t.Errorf("PercentToBrightness(100) = %d, want 255", got)
	}
	if got := BrightnessToPercent(102); got != 40 {
		t.Errorf("BrightnessToPercent(102) = %d, want 40", got)
	}
}

func TestFriendlyNamePrecedence(t *testing.T) {
	tile := NewTile(config.EntityBinding{Entity: "light.kitchen_main"})
	if tile.FriendlyName != "Kitchen Main" {
		t.Errorf("initial FriendlyName = %q, want Kitchen Main", tile.FriendlyName)
	}

	tile.ApplyState(&homeassistant.State{State: "on", Attributes: map[string]any{"friendly_name": "Kitchen"}})
	if tile.FriendlyName != "Kitchen" {
		t.Errorf("FriendlyName = %q, want Kitchen", tile.FriendlyName)
	}

	tile.SetDisplayName("Cooking")
	tile.ApplyState(&homeassistant.State{State: "on", Attributes: map[string]any{"friendly_name": "Kitchen"}})
	if tile.FriendlyName != "Cooking" {
		t.Errorf("override FriendlyName = %q, want Cooking", tile.FriendlyName)
	}

	tile.SetDisplayName("")
	if tile.FriendlyName != "Kitchen" {
		t.Errorf("cleared override FriendlyName = %q, want Kitchen", tile.FriendlyName)
	}
}

func TestApplyStateNilKeepsState(t *testing.T) {
	tile := lightTile("on", nil)
	tile.ApplyState(nil)
	if tile.RemoteState != "on" {
		t.Errorf("RemoteState = %s, want on", tile.RemoteState)
	}
}

func TestFlipAndRestore(t *testing.T) {
	tests := []struct{ from, to string }{
		{"off", "on"},
		{"on", "off"},
		{"unknown", "off"},
	}
	for _, tt := range tests {
		tile := lightTile(tt.from, nil)
		prev := tile.FlipOptimistic()
		if tile.RemoteState != tt.to {
			t.Errorf("flip %s = %s, want %s", tt.from, tile.RemoteState, tt.to)
		}
		tile.Restore(prev)
		if tile.RemoteState != tt.from {
			t.Errorf("restore = %s, want %s", tile.RemoteState, tt.from)
		}
	}
}

func TestSupportsBrightness(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]any
		want  bool
	}{
		{"brightness present", map[string]any{"brightness": 10.0}, true},
		{"feature bit set", map[string]any{"supported_features": 41.0}, true},
		{"feature bit clear", map[string]any{"supported_features": 40.0}, false},
		{"no features", map[string]any{}, true},
	}
	for _, tt := range tests {
		if got := lightTile("off", tt.attrs).SupportsBrightness(); got != tt.want {
			t.Errorf("%s: SupportsBrightness() = %v, want %v", tt.name, got, tt.want)
		}
	}

	sw := NewTile(config.EntityBinding{Entity: "switch.fan"})
	if sw.SupportsBrightness() {
		t.Error("switch should not support brightness")
	}
}

func TestStateText(t *testing.T) {
	tests := []struct {
		name string
		tile *Tile
		want string
	}{
		{"light with brightness", lightTile("on", map[string]any{"brightness": 102.0}), "State: on (40%)"},
		{"light off", lightTile("off", map[string]any{"brightness": 102.0}), "State: off"},
		{"light no dimming", lightTile("on", map[string]any{"supported_features": 0.0}), "State: on"},
		{"sensor", withState("sensor.temp", "21.5", map[string]any{"unit_of_measurement": "°C"}), "Value: 21.5 °C"},
		{"sensor no unit", withState("binary_sensor.door", "off", nil), "Value: off"},
		{"climate", withState("climate.hall", "heat", map[string]any{"current_temperature": 19.5, "temperature": 21.0}), "Current: 19.5°C | Target: 21°C"},
		{"climate missing", withState("climate.hall", "off", nil), "Current: N/A°C | Target: N/A°C"},
		{"switch", withState("switch.fan", "on", nil), "State: on"},
	}
	for _, tt := range tests {
		if got := tt.tile.StateText(); got != tt.want {
			t.Errorf("%s: StateText() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestStagedStateText(t *testing.T) {
	tile := lightTile("on", map[string]any{"brightness": 102.0})
	tile.Stage(70)
	if got := tile.StateText(); got != "State: on (70%)*" {
		t.Errorf("staged StateText() = %q, want State: on (70%%)*", got)
	}

	tile.CommitBrightness(70)
	if got := tile.StateText(); got != "State: on (70%)" {
		t.Errorf("committed StateText() = %q, want State: on (70%%)", got)
	}
	if tile.Attributes["brightness"] != float64(178) {
		t.Errorf("brightness attribute = %v, want 178", tile.Attributes["brightness"])
	}
}

func TestStagedHiddenWhileOff(t *testing.T) {
	tile := lightTile("off", map[string]any{"brightness": 102.0})
	tile.Stage(35)
	if got := tile.StateText(); got != "State: off" {
		t.Errorf("StateText() = %q, want State: off", got)
	}
}

func TestCommitKeepsNewerStage(t *testing.T) {
	tile := lightTile("on", map[string]any{"brightness": 102.0})
	tile.Stage(80)
	tile.CommitBrightness(70)

	if tile.StagedBrightness == nil || *tile.StagedBrightness != 80 {
		t.Errorf("StagedBrightness = %v, want 80", tile.StagedBrightness)
	}
}

func TestBorder(t *testing.T) {
	tests := []struct {
		state string
		want  Border
	}{
		{"on", BorderOn}, {"home", BorderOn}, {"heat", BorderOn}, {"cool", BorderOn},
		{"off", BorderOff}, {"away", BorderOff}, {"unavailable", BorderOff},
		{"unknown", BorderUnknown},
		{"error", BorderDefault}, {"above_horizon", BorderDefault},
	}
	for _, tt := range tests {
		if got := withState("switch.x", tt.state, nil).Border(); got != tt.want {
			t.Errorf("Border(%s) = %v, want %v", tt.state, got, tt.want)
		}
	}

	tile := withState("switch.x", "on", nil)
	tile.Selected = true
	if tile.Border() != BorderSelected {
		t.Error("selected should win over state")
	}
	tile.BeingMoved = true
	if tile.Border() != BorderMoving {
		t.Error("being-moved should win over selected")
	}
	if tile.Ghost().Border() != BorderHolding {
		t.Error("ghost should render as holding")
	}
}

func TestHint(t *testing.T) {
	tests := map[string]string{
		"light.a":   "SPACE: Toggle | CTRL+↑↓: Brightness",
		"switch.a":  "SPACE: Toggle",
		"script.a":  "SPACE: Run",
		"sensor.a":  "Read Only",
		"climate.a": "Read Only",
	}
	for id, want := range tests {
		if got := NewTile(config.EntityBinding{Entity: id}).Hint(); got != want {
			t.Errorf("Hint(%s) = %q, want %q", id, got, want)
		}
	}
}

func TestGlyph(t *testing.T) {
	if g := NewTile(config.EntityBinding{Entity: "light.a"}).Glyph(); g != "💡" {
		t.Errorf("light glyph = %s", g)
	}
	if g := NewTile(config.EntityBinding{Entity: "weather.home"}).Glyph(); g != "❓" {
		t.Errorf("unknown glyph = %s", g)
	}
	if g := NewTile(config.EntityBinding{Entity: "light.a", Icon: "★"}).Glyph(); g != "★" {
		t.Errorf("override glyph = %s", g)
	}
}

func withState(id, state string, attrs map[string]any) *Tile {
	tile := NewTile(config.EntityBinding{Entity: id})
	tile.ApplyState(&homeassistant.State{EntityID: id, State: state, Attributes: attrs})
	return tile
}
