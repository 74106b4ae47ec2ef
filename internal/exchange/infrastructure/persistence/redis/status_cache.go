package redis

import (
	"context"
	"time"

	"github.com/wyfcoding/tradingdata/internal/exchange/domain"
	"github.com/wyfcoding/tradingdata/pkg/cache"
)

// StatusCache 基于 Redis 的市场状态结果缓存
type StatusCache struct {
	cache *cache.RedisCache
}

// NewStatusCache 创建市场状态缓存实例
func NewStatusCache(c *cache.RedisCache) *StatusCache {
	return &StatusCache{cache: c}
}

func (c *StatusCache) Get(ctx context.Context, key string) (domain.MarketStatus, bool, error) {
	val, err := c.cache.Get(ctx, key)
	if err != nil {
		return "", false, err
	}
	if val == "" {
		return "", false, nil
	}
	return domain.MarketStatus(val), true, nil
}

func (c *StatusCache) Set(ctx context.Context, key string, status domain.MarketStatus, ttl time.Duration) error {
	return c.cache.Set(ctx, key, string(status), ttl)
}
