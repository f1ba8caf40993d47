// Package logging provides structured logging for smartap-inspect.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used by the properties panel, the error feed and the device client.
//
// # Log Levels
//
//   - Debug: Layout writes, accepted commits, websocket traffic
//   - Info: Rejected input, global error replacements, connections
//   - Warn: Non-fatal issues (dropped feed messages, retries)
//   - Error: Startup failures, I/O errors
//
// # Silent by Default
//
// Logging is off unless a level is given on the command line or through
// SMARTAP_INSPECT_LOG_LEVEL. The inspector TUI writes to a file given with
// --log-file, since anything written to the terminal would corrupt the view:
//
//	if err := logging.Initialize("debug", "/tmp/inspect.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Panel Logging
//
//	logging.LogLayoutChange("device", "groups.server.open", true)
//	logging.LogCommit("server.port", "443")
//	logging.LogRejected("server.port", "99999", "Port must be between 1 and 65535")
//	logging.LogErrorsReplaced(map[string]string{"wifi.ssid": "required"})
//
// # Thread Safety
//
// All logging functions are safe for concurrent use once Initialize has
// returned.
package logging
