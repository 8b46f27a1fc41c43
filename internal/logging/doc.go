// Package logging provides structured logging for hatui.
//
// This package wraps a global zap logger. Because the dashboard draws on the
// terminal, log output is written to a file and never to stdout.
//
// # Log Levels
//
//   - Debug: each REST round trip
//   - Info: service calls and layout changes
//   - Warn: failed requests and tile refreshes
//   - Error: startup failures
//
// # Configuration
//
// Logging is silent unless a level is given with --log-level or HATUI_LOG_LEVEL:
//
//	if err := logging.Initialize("debug", "/tmp/hatui.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Specialized Logging
//
//	logging.LogServiceCall("light", "turn_on", "light.kitchen", map[string]any{"brightness": 178})
//	logging.LogRefreshFailure("sensor.porch", err)
//	logging.LogLayoutChange("move", "Default Dashboard", zap.String("entity_id", "sun.sun"))
package logging
