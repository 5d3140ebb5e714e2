package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// AnalysisCache stores raw skill-analysis responses keyed by a digest of
// the analysed code.
type AnalysisCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

const analysisCachePrefix = "skill_analysis:"

type RedisAnalysisCache struct {
	Client *redis.Client
	prefix string
}

// NewRedisAnalysisCache namespaces keys as <keyPrefix>skill_analysis:<digest>.
func NewRedisAnalysisCache(client *redis.Client, keyPrefix string) *RedisAnalysisCache {
	return &RedisAnalysisCache{Client: client, prefix: keyPrefix + analysisCachePrefix}
}

func (c *RedisAnalysisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.Client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisAnalysisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.Client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// analysisCacheKey is sha256(model id + NUL + code) in hex.
func analysisCacheKey(modelID, code string) string {
	h := sha256.New()
	h.Write([]byte(modelID))
	h.Write([]byte{0})
	h.Write([]byte(code))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *RedisAnalysisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}
