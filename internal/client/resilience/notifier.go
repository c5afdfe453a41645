// Package resilience wraps fallible calls so that a failure becomes a logged
// error plus a user-facing toast instead of an error the caller must handle.
//
// None of the helpers are applied by the HTTP client itself; callers opt in.
package resilience

import (
	"context"

	"github.com/contactx/contactx/internal/logging"
)

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(ctx context.Context, level Level, msg string)
}

// LogNotifier routes toasts to the logger; used when no terminal is attached.
type LogNotifier struct {
	Logger logging.Logger
}

func (n LogNotifier) Notify(ctx context.Context, level Level, msg string) {
	if level == LevelError {
		n.Logger.Error(ctx, "toast", "message", msg)
		return
	}
	n.Logger.Info(ctx, "toast", "level", string(level), "message", msg)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, level Level, msg string)

func (f NotifierFunc) Notify(ctx context.Context, level Level, msg string) {
	f(ctx, level, msg)
}
