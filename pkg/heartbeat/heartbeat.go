// Package heartbeat runs a fire-and-forget periodic callback tied to a
// context's lifetime.
package heartbeat

import (
	"context"
	"time"
)

// Run calls fn immediately and then every interval until ctx is done. Errors
// from fn are ignored; the next tick simply tries again.
func Run(ctx context.Context, interval time.Duration, fn func(context.Context) error) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if ctx.Err() != nil {
		return
	}
	_ = fn(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = fn(ctx)
		}
	}
}
