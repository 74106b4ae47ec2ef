package redis

import (
	"context"
	"time"

	"github.com/wyfcoding/tradingdata/internal/stock/domain"
	"github.com/wyfcoding/tradingdata/pkg/cache"
)

// PriceCache 基于 Redis 的日线结果缓存，键为 "Stock:<code>"
type PriceCache struct {
	cache *cache.RedisCache
}

// NewPriceCache 创建日线缓存实例
func NewPriceCache(c *cache.RedisCache) *PriceCache {
	return &PriceCache{cache: c}
}

func (c *PriceCache) GetBars(ctx context.Context, code string) ([]*domain.DailyPriceBar, bool, error) {
	var bars []*domain.DailyPriceBar
	ok, err := c.cache.GetJSON(ctx, "Stock:"+code, &bars)
	if err != nil || !ok {
		return nil, false, err
	}
	return bars, true, nil
}

func (c *PriceCache) SetBars(ctx context.Context, code string, bars []*domain.DailyPriceBar, ttl time.Duration) error {
	return c.cache.SetJSON(ctx, "Stock:"+code, bars, ttl)
}

// InstrumentCache 基于 Redis 的标的缓存，键为 "Instrument:<code>"
type InstrumentCache struct {
	cache *cache.RedisCache
}

// NewInstrumentCache 创建标的缓存实例
func NewInstrumentCache(c *cache.RedisCache) *InstrumentCache {
	return &InstrumentCache{cache: c}
}

func (c *InstrumentCache) Get(ctx context.Context, code string) (*domain.Instrument, bool, error) {
	var inst domain.Instrument
	ok, err := c.cache.GetJSON(ctx, "Instrument:"+code, &inst)
	if err != nil || !ok {
		return nil, false, err
	}
	return &inst, true, nil
}

func (c *InstrumentCache) Set(ctx context.Context, inst *domain.Instrument, ttl time.Duration) error {
	return c.cache.SetJSON(ctx, "Instrument:"+inst.Code, inst, ttl)
}
