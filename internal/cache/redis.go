package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/sejour/config"
	"github.com/Domenick1991/sejour/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client      *redis.Client
	propertyTTL time.Duration
	lockTTL     time.Duration
}

func NewRedisCache(cfg config.RedisConfig, propertyTTL, lockTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		propertyTTL: propertyTTL,
		lockTTL:     lockTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetProperty returns nil, nil on a miss.
func (c *RedisCache) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	data, err := c.client.Get(ctx, propertyKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var p domain.Property
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *RedisCache) SetProperty(ctx context.Context, p *domain.Property) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, propertyKey(p.ID), payload, c.propertyTTL).Err()
}

func (c *RedisCache) InvalidateProperty(ctx context.Context, id int64) error {
	return c.client.Del(ctx, propertyKey(id)).Err()
}

// releaseLock deletes the lock only while it still holds the caller's token,
// so an expired holder cannot free a lock taken over by someone else.
var releaseLock = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AcquirePropertyLock returns the token that owns the lock, or "" when
// another admission for the property holds it.
func (c *RedisCache) AcquirePropertyLock(ctx context.Context, propertyID int64) (string, error) {
	token := uuid.NewString()
	ok, err := c.client.SetNX(ctx, propertyLockKey(propertyID), token, c.lockTTL).Result()
	if err != nil || !ok {
		return "", err
	}
	return token, nil
}

func (c *RedisCache) ReleasePropertyLock(ctx context.Context, propertyID int64, token string) error {
	return releaseLock.Run(ctx, c.client, []string{propertyLockKey(propertyID)}, token).Err()
}

func propertyKey(id int64) string {
	return fmt.Sprintf("cache:property:%d", id)
}

func propertyLockKey(id int64) string {
	return fmt.Sprintf("lock:property:%d", id)
}
