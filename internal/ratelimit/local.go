package ratelimit

import (
	"context"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Allower decides whether one more request for key fits in the window.
type Allower interface {
	Allow(ctx context.Context, key string, window time.Duration, limit int) (Decision, error)
}

// LocalLimiter keeps counters in process memory. It serves single-instance
// deployments that run without redis.
type LocalLimiter struct {
	store limiter.Store
}

// NewLocalLimiter returns a LocalLimiter with an empty store.
func NewLocalLimiter(prefix string) *LocalLimiter {
	return &LocalLimiter{store: memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          prefix,
		CleanUpInterval: time.Minute,
	})}
}

// Allow counts the request in a fixed window of the given length.
func (l *LocalLimiter) Allow(ctx context.Context, key string, window time.Duration, limit int) (Decision, error) {
	if limit <= 0 || window <= 0 {
		return Decision{Allowed: true, Limit: limit, Remaining: limit, ResetAt: time.Now().Add(window)}, nil
	}
	res, err := limiter.New(l.store, limiter.Rate{Period: window, Limit: int64(limit)}).Get(ctx, key)
	if err != nil {
		return Decision{Limit: limit, ResetAt: time.Now().Add(window)}, err
	}
	return Decision{
		Allowed:   !res.Reached,
		Limit:     int(res.Limit),
		Remaining: int(res.Remaining),
		ResetAt:   time.Unix(res.Reset, 0),
	}, nil
}
