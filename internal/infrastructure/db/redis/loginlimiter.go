package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultLoginLimit  = 10
	defaultLoginWindow = 15 * time.Minute
)

// LoginLimiter throttles login attempts per email using a fixed INCR/EXPIRE
// window. Key format: login:<lowercased email>
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Non-positive limit or window fall back to the defaults.
func NewLoginLimiter(client *redis.Client, limit int, window time.Duration) *LoginLimiter {
	if limit <= 0 {
		limit = defaultLoginLimit
	}
	if window <= 0 {
		window = defaultLoginWindow
	}
	return &LoginLimiter{client: client, limit: limit, window: window}
}

// Allow reports whether another attempt for this key is within the window
// limit. The returned error signals an unavailable store; callers are
// expected to fail open on it.
func (l *LoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	rkey := "login:" + strings.ToLower(key)

	n, err := l.client.Incr(ctx, rkey).Result()
	if err != nil {
		return false, fmt.Errorf("login limiter incr: %w", err)
	}
	if n == 1 {
		if err := l.client.Expire(ctx, rkey, l.window).Err(); err != nil {
			return false, fmt.Errorf("login limiter expire: %w", err)
		}
	}

	return n <= int64(l.limit), nil
}
