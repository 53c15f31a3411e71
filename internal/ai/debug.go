package ai

import "sync/atomic"

// debugLoggingEnabled controls whether per-tick debug logging is enabled for the AI subsystem.
// Checked on hot paths instead of asking the slog handler for its level on every call.
var debugLoggingEnabled atomic.Bool

// EnableDebugLogging enables or disables debug logging for the AI subsystem.
// Called once from main after the log level is parsed.
func EnableDebugLogging(enabled bool) {
	debugLoggingEnabled.Store(enabled)
}

// IsDebugEnabled returns true if debug logging is enabled.
// Use this to guard debug log calls on per-tick paths:
//
//	if ai.IsDebugEnabled() {
//	    slog.Debug("wander point picked", "agent", z.handle, "to", p)
//	}
func IsDebugEnabled() bool {
	return debugLoggingEnabled.Load()
}
