package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisPreferences stores preferences in Redis under a key prefix, for setups where
// several processes share one profile.
type RedisPreferences struct {
	client *redis.Client
	prefix string
}

func NewRedisPreferences(client *redis.Client, prefix string) *RedisPreferences {
	return &RedisPreferences{client: client, prefix: prefix}
}

func (p *RedisPreferences) key(k string) string { return p.prefix + k }

func (p *RedisPreferences) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := p.client.Get(ctx, p.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (p *RedisPreferences) Set(ctx context.Context, key, value string) error {
	return p.client.Set(ctx, p.key(key), value, 0).Err()
}

func (p *RedisPreferences) Delete(ctx context.Context, key string) error {
	return p.client.Del(ctx, p.key(key)).Err()
}
