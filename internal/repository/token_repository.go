package repository

import (
	"context"
	"errors"
	"time"

	redisapp "portfolio/internal/storage/redis"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// TokenRepository хранит отозванные при logout токены до истечения их срока
type TokenRepository interface {
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type RedisTokenRepo struct {
	Client *redisapp.Client
}

func NewRedisTokenRepo(client *redisapp.Client) *RedisTokenRepo {
	return &RedisTokenRepo{Client: client}
}

func (r *RedisTokenRepo) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.Client.Set(ctx, revokedTokenKey(tokenID), "1", ttl).Err()
}

func (r *RedisTokenRepo) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	val, err := r.Client.Get(ctx, revokedTokenKey(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	return val == "1", err
}

// MemoryTokenRepo используется, когда redis не настроен
type MemoryTokenRepo struct {
	cache *gocache.Cache
}

func NewMemoryTokenRepo() *MemoryTokenRepo {
	return &MemoryTokenRepo{cache: gocache.New(gocache.NoExpiration, 10*time.Minute)}
}

func (r *MemoryTokenRepo) RevokeToken(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	r.cache.Set(revokedTokenKey(tokenID), true, ttl)
	return nil
}

func (r *MemoryTokenRepo) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, found := r.cache.Get(revokedTokenKey(tokenID))
	return found, nil
}

func revokedTokenKey(tokenID string) string {
	return "revoked:" + tokenID
}
