// Package tui implements the interactive Home Assistant dashboard.
//
// The dashboard is a single Bubble Tea model. Every state change happens in
// Update; REST calls run as commands tracked by the refresh scheduler and
// report back as messages, so tiles are only ever touched from the event loop.
//
// # Modes
//
// The model is a small state machine:
//
//	VIEW ──e──▶ EDIT_IDLE ──Enter──▶ EDIT_HOLDING ──Enter/Esc──▶ EDIT_IDLE
//	              │  ▲
//	     a / n / d│  │modal closed
//	              ▼  │
//	  EDIT_ADDING, EDIT_NAMING, EDIT_DASHBOARDS
//
// e or Esc in EDIT_IDLE returns to VIEW.
//
// # View mode
//
//   - Arrows move the cursor
//   - Space toggles a light or switch, or runs a script or automation.
//     The tile flips at once and rolls back if the call fails.
//   - Ctrl+↑/↓ stage brightness in 5% steps. The burst is sent as one call
//     per light after a second without presses.
//   - Ctrl+←/→ switch dashboards
//   - r refreshes every tile
//
// # Edit mode
//
// Enter picks up the tile under the cursor; a ghost follows the cursor until
// Enter drops it or Esc puts it back. a opens the entity browser, n the name
// editor and d the dashboard manager. Delete removes the tile. Every change
// is written to the config store before the grid is updated.
//
// # Usage Example
//
//	m := tui.New(tui.Options{Store: store, Backend: client})
//	program := tea.NewProgram(m, tea.WithAltScreen())
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
//	m.Shutdown(3 * time.Second)
package tui
