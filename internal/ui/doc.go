// Package ui renders the output of the non-interactive hatui subcommands.
//
// The dashboard itself lives in package tui. This package covers the
// "print once and exit" commands (discover, check, states, init) with three
// components:
//
//   - Header: command banner showing the operation and its parameters
//   - Result: success, failure or warning box, with troubleshooting tips on failure
//   - Table: aligned columns for entity and instance listings
//
// Example:
//
//	fmt.Println(ui.NewHeader("Connection Check", "hatui check",
//	    ui.Field{Key: "Server", Value: cfg.URL}).Render())
//
//	if err := client.TestConnection(ctx); err != nil {
//	    fmt.Println(ui.RenderFailure("Cannot reach Home Assistant", err, tips))
//	    return err
//	}
//	fmt.Println(ui.RenderSuccess("Connected", ui.Field{Key: "Server", Value: cfg.URL}))
//
// Fields render in the order given. Widths come from the terminal via
// golang.org/x/term, clamped to MinTerminalWidth and MaxContentWidth.
package ui
