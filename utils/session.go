package utils

import (
	"context"
	"time"

	"taskhive/config"
)

const denylistPrefix = "denylist:"

// BlacklistToken records a logged-out token until it would have expired
// anyway. Without redis this is a no-op and logout is client-side only.
func BlacklistToken(ctx context.Context, token string, ttl time.Duration) error {
	if config.Redis == nil || ttl <= 0 {
		return nil
	}
	return config.Redis.Set(ctx, denylistPrefix+token, 1, ttl).Err()
}

// IsTokenBlacklisted reports whether a token was invalidated by logout.
// Redis errors are treated as "not blacklisted" so an unavailable cache
// does not lock every user out.
func IsTokenBlacklisted(ctx context.Context, token string) bool {
	if config.Redis == nil {
		return false
	}
	n, err := config.Redis.Exists(ctx, denylistPrefix+token).Result()
	if err != nil {
		return false
	}
	return n > 0
}
