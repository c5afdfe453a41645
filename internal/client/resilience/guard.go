package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/contactx/contactx/internal/client/client"
	"github.com/contactx/contactx/internal/logging"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// Guard carries the logger and notifier failures are reported to.
type Guard struct {
	Logger   logging.Logger
	Notifier Notifier
}

func NewGuard(logger logging.Logger, notifier Notifier) Guard {
	if logger == nil {
		logger = logging.Discard()
	}
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	return Guard{Logger: logger, Notifier: notifier}
}

// report logs err and shows msg, or the error's own user message when msg
// is empty.
func (g Guard) report(ctx context.Context, err error, msg string) {
	if g.Logger != nil {
		g.Logger.Error(ctx, "operation failed", "error", err)
	}
	if msg == "" {
		msg = client.UserMessage(err)
	}
	if g.Notifier != nil {
		g.Notifier.Notify(ctx, LevelError, msg)
	}
}

// SafeAsync runs fn and reports a failure instead of returning it. ok is
// false when fn failed or panicked.
func SafeAsync[T any](ctx context.Context, g Guard, fn func(ctx context.Context) (T, error), msg string) (res T, ok bool) {
	defer recoverInto(ctx, g, msg, &res, &ok)

	v, err := fn(ctx)
	if err != nil {
		g.report(ctx, err, msg)
		var zero T
		return zero, false
	}
	return v, true
}

// SafeSync is SafeAsync for calls that take no context.
func SafeSync[T any](g Guard, fn func() (T, error), msg string) (res T, ok bool) {
	ctx := context.Background()
	defer recoverInto(ctx, g, msg, &res, &ok)

	v, err := fn()
	if err != nil {
		g.report(ctx, err, msg)
		var zero T
		return zero, false
	}
	return v, true
}

func recoverInto[T any](ctx context.Context, g Guard, msg string, res *T, ok *bool) {
	if r := recover(); r != nil {
		var zero T
		*res, *ok = zero, false
		g.report(ctx, fmt.Errorf("panic: %v", r), msg)
	}
}

// linearBackoff waits delay*attempt before each retry.
func linearBackoff(delay time.Duration) retry.Backoff {
	var attempt int64
	return retry.BackoffFunc(func() (time.Duration, bool) {
		attempt++
		return delay * time.Duration(attempt), false
	})
}

var newBackoff = func(maxRetries int, delay time.Duration) retry.Backoff {
	return retry.WithMaxRetries(uint64(maxRetries-1), linearBackoff(delay))
}

// WithRetry calls fn up to maxRetries times with linearly growing pauses.
// Only the final failure is reported. A cancelled ctx stops the loop and
// returns the zero value without a toast.
func WithRetry[T any](ctx context.Context, g Guard, fn func(ctx context.Context) (T, error), maxRetries int, delay time.Duration, msg string) (T, bool) {
	var zero T
	if maxRetries < 1 {
		maxRetries = 1
	}
	if err := ctx.Err(); err != nil {
		return zero, false
	}

	var (
		result   T
		attempts int
	)
	err := retry.Do(ctx, newBackoff(maxRetries, delay), func(ctx context.Context) error {
		attempts++
		v, err := fn(ctx)
		if err != nil {
			if g.Logger != nil {
				g.Logger.Warn(ctx, "attempt failed", "attempt", attempts, "max", maxRetries, "error", err)
			}
			return retry.RetryableError(err)
		}
		result = v
		return nil
	})
	if err == nil {
		return result, true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		if ctx.Err() != nil {
			if g.Logger != nil {
				g.Logger.Debug(ctx, "retry abandoned", "attempts", attempts, "error", ctx.Err())
			}
			return zero, false
		}
	}
	g.report(ctx, err, msg)
	return zero, false
}
