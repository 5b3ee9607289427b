package signal

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	baseCtx context.Context = context.Background()
	mu      sync.RWMutex
)

// SetupContext returns a context cancelled on SIGINT or SIGTERM and records it
// as the base context for background goroutines.
func SetupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	mu.Lock()
	baseCtx = ctx
	mu.Unlock()
	return ctx, cancel
}

func GetBaseContext() context.Context {
	mu.RLock()
	defer mu.RUnlock()
	return baseCtx
}
