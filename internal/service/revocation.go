package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// RedisRevoker stores revoked token IDs in Redis with the token's remaining lifetime
type RedisRevoker struct {
	redis *redis.Client
}

// Ensure RedisRevoker implements TokenRevoker
var _ TokenRevoker = (*RedisRevoker)(nil)

// NewRedisRevoker creates a new RedisRevoker instance
func NewRedisRevoker(client *redis.Client) *RedisRevoker {
	return &RedisRevoker{redis: client}
}

// Revoke marks jti as revoked for ttl
func (r *RedisRevoker) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	return r.redis.Set(ctx, revokedKeyPrefix+jti, 1, ttl).Err()
}

// IsRevoked reports whether jti was revoked
func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.redis.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
