package safe

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/masteryyh/scaffold/pkg/utils/signal"
)

type nameKey struct{}

const restartDelay = 500 * time.Millisecond

// GoSafeWithCtx runs fn in a goroutine and restarts it after a panic until
// ctx is done. A nil ctx uses the process base context.
func GoSafeWithCtx(name string, ctx context.Context, fn func(ctx context.Context)) {
	if ctx == nil {
		ctx = signal.GetBaseContext()
	}

	go func() {
		for {
			runCtx, cancel := context.WithCancel(context.WithValue(ctx, nameKey{}, name))
			panicked := run(runCtx, name, fn)
			cancel()

			if !panicked || ctx.Err() != nil {
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(restartDelay):
			}
		}
	}()
}

func GoSafe(name string, fn func(ctx context.Context)) {
	GoSafeWithCtx(name, nil, fn)
}

func run(ctx context.Context, name string, fn func(ctx context.Context)) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			slog.ErrorContext(ctx, "recovered from panic, restarting", "goroutine", name, "error", r, "stack", string(debug.Stack()))
		}
	}()
	fn(ctx)
	return false
}

// Name returns the goroutine name attached by GoSafeWithCtx.
func Name(ctx context.Context) string {
	name, _ := ctx.Value(nameKey{}).(string)
	return name
}
