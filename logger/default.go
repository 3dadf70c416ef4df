package logger

import "sync/atomic"

// holder keeps atomic.Value storing one concrete type.
type holder struct{ Logger }

var defLogger atomic.Value

func init() {
	defLogger.Store(holder{NewSlog(InfoLevel, false)})
}

// GetLogger returns the default logger. Components fall back to it when no
// logger option is given.
func GetLogger() Logger {
	return defLogger.Load().(holder).Logger //nolint:forcetypeassert // only holder is stored
}

// SetDefault replaces the default logger. Components already configured keep
// the logger they were built with. A nil l is ignored.
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defLogger.Store(holder{l})
}

// SetLevel changes the level of the default logger.
func SetLevel(level Level) {
	GetLogger().SetLevel(level)
}
