package log

import "sync"

var (
	globalMu sync.RWMutex
	global   *Logger
)

// SetDefaultLogger installs the process-wide logger. The CLI calls this once
// after loading configuration; packages without an injected logger share it.
func SetDefaultLogger(logger *Logger) {
	globalMu.Lock()
	global = logger
	globalMu.Unlock()
}

// DefaultLogger returns the process-wide logger, lazily initializing it with
// the standard defaults when nothing was installed yet.
func DefaultLogger() *Logger {
	globalMu.RLock()
	logger := global
	globalMu.RUnlock()

	if logger == nil {
		logger = Default()
		SetDefaultLogger(logger)
	}
	return logger
}
