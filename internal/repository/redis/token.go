package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guyuepp/social-blog/domain"
)

const KeyRevokedToken = "auth:revoked:"

// tokenDenylist remembers logged out token ids until the token would have expired anyway.
type tokenDenylist struct {
	client *redis.Client
}

var _ domain.TokenRepository = (*tokenDenylist)(nil)

func NewTokenDenylist(client *redis.Client) *tokenDenylist {
	return &tokenDenylist{client: client}
}

func (d *tokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return d.client.Set(ctx, KeyRevokedToken+tokenID, 1, ttl).Err()
}

func (d *tokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, KeyRevokedToken+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
