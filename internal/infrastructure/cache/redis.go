package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lifequest/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const refreshPrefix = "refresh_token:"

// TokenCache is the server-side allow list of refresh tokens.
type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

func (c *TokenCache) SaveRefresh(ctx context.Context, userID uuid.UUID, refreshToken string, ttl time.Duration) error {
	return c.client.Set(ctx, refreshPrefix+refreshToken, userID.String(), ttl).Err()
}

// CheckRefresh returns the owner of a live refresh token. Unknown, expired
// and revoked tokens are all ErrUnauthorized.
func (c *TokenCache) CheckRefresh(ctx context.Context, refreshToken string) (uuid.UUID, error) {
	val, err := c.client.Get(ctx, refreshPrefix+refreshToken).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, fmt.Errorf("%w: refresh token revoked", domain.ErrUnauthorized)
	}
	if err != nil {
		return uuid.Nil, domain.NewStorageError("check refresh token", err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: corrupt refresh token entry", domain.ErrUnauthorized)
	}
	return id, nil
}

func (c *TokenCache) DeleteRefresh(ctx context.Context, refreshToken string) error {
	return c.client.Del(ctx, refreshPrefix+refreshToken).Err()
}
