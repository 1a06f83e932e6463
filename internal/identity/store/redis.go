package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Loxfxgc/life-drop/internal/platform/redis"
)

const revokedKeyPrefix = "lifedrop:revoked:"

// RevocationRedis tracks revoked token ids in Redis so sign-out holds across
// processes. Keys expire with the token itself.
type RevocationRedis struct {
	client *redis.Client
}

func NewRevocationRedis(client *redis.Client) *RevocationRedis {
	return &RevocationRedis{client: client}
}

func (s *RevocationRedis) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired; nothing to revoke.
		return nil
	}
	if err := s.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (s *RevocationRedis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.client.Get(ctx, revokedKeyPrefix+jti).Err()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("revocation lookup: %w", err)
	}
	return true, nil
}
