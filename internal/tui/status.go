package tui

import (
	"fmt"
	"strings"

	"github.com/muurk/hatui/internal/config"
	"github.com/muurk/hatui/internal/entity"
)

// StatusLine lists the verbs valid for the mode and the tile under the
// cursor. It depends on nothing else.
func StatusLine(mode Mode, cursor, held *entity.Tile) string {
	switch mode {
	case ModeEditHolding:
		name := "?"
		if held != nil {
			name = held.FriendlyName
		}
		return "[EDIT] Holding: " + name + " | ↑↓←→: Move | Enter: Drop | Esc: Cancel"

	case ModeEditNaming:
		return "[EDIT] Renaming | Enter: Save | Esc: Cancel"

	case ModeEditDashboards:
		return "[EDIT] Dashboards | ↑↓: Navigate | Enter: Open | Ctrl+N: New | F2: Rename | Del: Delete | Esc: Close"

	case ModeEditAdding:
		return "[EDIT] Adding entity | ↑↓: Select | Tab: Next Field | Enter: Add | Esc: Cancel"

	case ModeEditIdle:
		if cursor == nil {
			return "[EDIT] Empty cell | ↑↓←→: Navigate | a: Add Entity | d: Dashboards | e: Exit Edit"
		}
		return "[EDIT] " + cursor.FriendlyName +
			" | ↑↓←→: Navigate | Enter: Pick | n: Rename | a: Add | Del: Remove | d: Dashboards | e: Exit Edit"
	}

	if cursor == nil {
		return "[VIEW] Empty cell | ↑↓←→: Navigate | ←→+Ctrl: Dashboards | r: Refresh | e: Edit Mode | q: Quit"
	}

	commands := []string{"↑↓←→: Navigate"}
	switch cursor.Type {
	case config.TypeAction:
		commands = append(commands, "Space: Run")
	case config.TypeLight, config.TypeToggle:
		commands = append(commands, "Space: Toggle")
	}
	if cursor.SupportsBrightness() {
		commands = append(commands, brightnessVerb(cursor))
	}
	commands = append(commands, "←→+Ctrl: Dashboards", "r: Refresh", "e: Edit Mode", "q: Quit")

	return "[VIEW] " + cursor.FriendlyName + " | " + strings.Join(commands, " | ")
}

// brightnessVerb shows the staged percentage while one exists, otherwise the
// confirmed one for a light that is on.
func brightnessVerb(t *entity.Tile) string {
	pct, staged := t.DisplayBrightness()
	if staged {
		return fmt.Sprintf("Ctrl+↑↓: Brightness (%d%%)", pct)
	}
	if _, known := t.Attributes["brightness"]; known && t.RemoteState == "on" {
		return fmt.Sprintf("Ctrl+↑↓: Brightness (%d%%)", pct)
	}
	return "Ctrl+↑↓: Brightness"
}
