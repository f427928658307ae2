package internal

import (
	"context"
	"time"
)

const defaultOperationTimeout = 5 * time.Second

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = defaultOperationTimeout
	}
	return context.WithTimeout(ctx, duration)
}
