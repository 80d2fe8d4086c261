package ports

import "context"

// RateLimiter admits or rejects a request for the given client key.
// Implementations fail open: when the backing store is unavailable the
// request is admitted rather than blocked.
type RateLimiter interface {
	Admit(ctx context.Context, key string) bool
}
