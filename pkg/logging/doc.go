// Package logging configures log/slog for intaked and the intake CLI.
//
// Both binaries log JSON to stderr so that stdout stays free for command
// output. Every record carries the module name and build version:
//
//	{"time":"...","level":"INFO","msg":"intake configured","module":"intaked","version":"v0.4.0",...}
//
// The level comes from LOG_LEVEL (debug, info, warn/warning, error; case
// insensitive, default info). The CLI --log-level flag takes precedence.
// Debug level also records the source location.
//
//	logging.SetDefaultStructuredLogger("intaked", version)
//	logging.SetDefaultStructuredLoggerWithLevel("intake", version, cmd.String("log-level"))
//
// NewLogLogger adapts the default handler for APIs that still want a
// *log.Logger, such as http.Server.ErrorLog.
package logging
