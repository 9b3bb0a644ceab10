package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter is a sliding window limiter over redis sorted sets. Each request
// adds a member scored by its arrival time; members older than the window are
// trimmed before counting.
type Limiter struct {
	Client redis.UniversalClient
	Prefix string
	now    func() time.Time
}

// Allow records one request for key and reports whether it fits in the window.
// Limiting is off without a client or with a non-positive window or limit.
func (l *Limiter) Allow(ctx context.Context, key string, window time.Duration, limit int) (Decision, error) {
	now := time.Now()
	if l.now != nil {
		now = l.now()
	}
	if l.Client == nil || limit <= 0 || window <= 0 {
		return Decision{Allowed: true, Limit: limit, Remaining: limit, ResetAt: now.Add(window)}, nil
	}

	redisKey := l.Prefix + key
	cutoff := strconv.FormatInt(now.Add(-window).UnixNano(), 10)

	pipe := l.Client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "-inf", "("+cutoff)
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	count := pipe.ZCard(ctx, redisKey)
	oldest := pipe.ZRangeWithScores(ctx, redisKey, 0, 0)
	pipe.PExpire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Limit: limit, ResetAt: now.Add(window)}, err
	}

	resetAt := now.Add(window)
	if first := oldest.Val(); len(first) == 1 {
		resetAt = time.Unix(0, int64(first[0].Score)).Add(window)
	}
	current := int(count.Val())
	return Decision{
		Allowed:   current <= limit,
		Limit:     limit,
		Remaining: max(0, limit-current),
		ResetAt:   resetAt,
	}, nil
}
