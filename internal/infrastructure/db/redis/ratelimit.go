package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/webscaffold/webapp/internal/errs"
)

const storeTimeout = 500 * time.Millisecond

// RateLimitStore is a fixed-window request counter shared by every
// instance pointing at the same Redis.
// Key format: ratelimit:<identifier>:<window_start_unix>
type RateLimitStore struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRateLimitStore allows limit requests per identifier per window.
func NewRateLimitStore(client *redis.Client, limit int, window time.Duration) *RateLimitStore {
	return &RateLimitStore{client: client, limit: int64(limit), window: window, now: time.Now}
}

// Allow satisfies echo's middleware.RateLimiterStore.
func (s *RateLimitStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	return s.AllowContext(ctx, identifier)
}

// AllowContext increments the identifier's counter for the current window
// and reports whether it is still within the limit.
func (s *RateLimitStore) AllowContext(ctx context.Context, identifier string) (bool, error) {
	key := s.key(identifier, s.now())

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, errs.ExternalService("Rate limit store unavailable").Wrap(fmt.Errorf("rate limit incr: %w", err))
	}
	return incr.Val() <= s.limit, nil
}

func (s *RateLimitStore) key(identifier string, t time.Time) string {
	return fmt.Sprintf("ratelimit:%s:%d", identifier, t.Truncate(s.window).Unix())
}
