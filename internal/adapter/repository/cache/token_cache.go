package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenCache stores issued session tokens keyed by user id. Logout
// removes the entry, which lets the auth middleware reject tokens that
// were explicitly invalidated before their JWT expiry.
type TokenCache struct {
	client *redis.Client
}

func NewTokenCache(addr string) (*TokenCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &TokenCache{client: client}, nil
}

func (c *TokenCache) CacheToken(ctx context.Context, userID, token string, ttl time.Duration) error {
	return c.client.Set(ctx, "session:"+userID, token, ttl).Err()
}

// GetToken returns the cached token for the user, or "" on a miss.
func (c *TokenCache) GetToken(ctx context.Context, userID string) (string, error) {
	token, err := c.client.Get(ctx, "session:"+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (c *TokenCache) InvalidateToken(ctx context.Context, userID string) error {
	return c.client.Del(ctx, "session:"+userID).Err()
}

func (c *TokenCache) Close() error {
	return c.client.Close()
}
