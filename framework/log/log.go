// Package log provides structured logging for the framework.
// It wraps log/slog with a category field so subsystem output can be
// filtered, and is configured once at bootstrap via Setup.
package log

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Category groups related log messages.
type Category string

const (
	CatBoot   Category = "boot"   // service registration and provider boot
	CatRouter Category = "router" // routing
	CatView   Category = "view"   // template rendering and tag helpers
	CatAssets Category = "assets" // asset resolution and versioning
	CatCache  Category = "cache"  // cache operations
)

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
)

// Setup replaces the process logger. debug lowers the level to Debug.
// Pass io.Discard as w to silence framework logging (useful in tests).
func Setup(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	mu.Lock()
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	mu.Unlock()
}

func get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs at debug level with a category.
func Debug(cat Category, msg string, args ...any) {
	get().Debug(msg, append([]any{"category", string(cat)}, args...)...)
}

// Info logs at info level with a category.
func Info(cat Category, msg string, args ...any) {
	get().Info(msg, append([]any{"category", string(cat)}, args...)...)
}

// Warn logs at warn level with a category.
func Warn(cat Category, msg string, args ...any) {
	get().Warn(msg, append([]any{"category", string(cat)}, args...)...)
}

// Error logs at error level with a category.
func Error(cat Category, msg string, args ...any) {
	get().Error(msg, append([]any{"category", string(cat)}, args...)...)
}
