package core

import (
	"log/slog"
	"sync/atomic"
)

// logger is the package-level logger, stored as an atomic pointer so
// concurrent reads and writes are safe. A nil value means no custom
// logger has been set; Logger() falls back to a cached default derived
// from slog.Default().
var logger atomic.Pointer[slog.Logger]

// defaultLogger caches the default-derived logger (slog.Default() with
// the jkclient component attribute) so it is not rebuilt on every
// Logger() call. Calling SetLogger(nil) clears the cache, letting the
// next Logger() call pick up a later slog.SetDefault().
var defaultLogger atomic.Pointer[slog.Logger]

// Logger returns the current package-level logger. Safe to call from
// multiple goroutines.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := slog.Default().With("component", "jkclient")
	// CompareAndSwap so a concurrently cached value is not overwritten.
	if defaultLogger.CompareAndSwap(nil, l) {
		return l
	}
	if l2 := defaultLogger.Load(); l2 != nil {
		return l2
	}
	return l
}

// SetLogger replaces the package-level logger. Passing nil resets to
// the default: slog.Default() with the component attribute, re-derived
// on the next Logger() call and then cached.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	defaultLogger.Store(nil)
}
