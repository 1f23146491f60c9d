package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"resume-match-go/internal/config"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss 缓存中不存在对应的向量
var ErrCacheMiss = redis.Nil

// RedisVectorCache 跨进程共享的向量缓存。
// 向量与模型版本存在同一个HASH下，读取时校验模型版本，
// 版本不一致视为未命中，避免混用不同模型产出的向量。
type RedisVectorCache struct {
	client     *redis.Client
	expiration time.Duration
}

// NewRedisVectorCache 创建Redis向量缓存
func NewRedisVectorCache(cfg *config.RedisConfig) (*RedisVectorCache, error) {
	if cfg == nil || cfg.Address == "" {
		return nil, fmt.Errorf("redis地址不能为空")
	}

	opt := &redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}
	client := redis.NewClient(opt)

	expireDays := cfg.VectorExpireDays
	if expireDays <= 0 {
		expireDays = 7
	}

	return &RedisVectorCache{
		client:     client,
		expiration: time.Duration(expireDays) * 24 * time.Hour,
	}, nil
}

// cacheKey 以文本摘要作为键，避免把原文放进key
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "cache:embedding:" + hex.EncodeToString(sum[:16])
}

// Get 获取缓存向量。模型版本不匹配按未命中处理
func (c *RedisVectorCache) Get(ctx context.Context, text string, modelVersion string) ([]float64, error) {
	vals, err := c.client.HMGet(ctx, cacheKey(text), "vector", "model_version").Result()
	if err != nil {
		return nil, err
	}
	if len(vals) < 2 || vals[0] == nil || vals[1] == nil {
		return nil, ErrCacheMiss
	}

	cachedVersion, ok := vals[1].(string)
	if !ok || cachedVersion != modelVersion {
		return nil, ErrCacheMiss
	}

	vectorJSON, ok := vals[0].(string)
	if !ok || vectorJSON == "" {
		return nil, ErrCacheMiss
	}
	var vector []float64
	if err := json.Unmarshal([]byte(vectorJSON), &vector); err != nil {
		return nil, fmt.Errorf("反序列化向量失败: %w", err)
	}
	return vector, nil
}

// Set 写入缓存向量，附带模型版本和过期时间
func (c *RedisVectorCache) Set(ctx context.Context, text string, vector []float64, modelVersion string) error {
	vectorJSON, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("序列化向量失败: %w", err)
	}

	key := cacheKey(text)
	pipe := c.client.Pipeline()
	pipe.HSet(ctx, key, "vector", vectorJSON)
	pipe.HSet(ctx, key, "model_version", modelVersion)
	pipe.Expire(ctx, key, c.expiration)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("写入向量缓存失败: %w", err)
	}
	return nil
}

// Close 关闭底层连接
func (c *RedisVectorCache) Close() error {
	return c.client.Close()
}
