package application

import (
	"context"
	"fmt"
	"time"

	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
	"github.com/wyfcoding/tradingdata/internal/stock/domain"
	"github.com/wyfcoding/tradingdata/pkg/logger"
	"github.com/wyfcoding/tradingdata/pkg/metrics"
)

// instrumentCacheTTL 标的缓存时长，标的属性基本不变
const instrumentCacheTTL = time.Hour

// DailySyncer 日线同步入口，查询路径在进度未定稿时借此补齐数据
type DailySyncer interface {
	SyncDailyPrices(ctx context.Context, code string) error
}

// PriceQueryService 行情查询服务
type PriceQueryService struct {
	instruments domain.InstrumentRepository
	prices      domain.DailyPriceRepository
	states      domain.SyncStateRepository
	priceCache  domain.PriceCache
	instCache   domain.InstrumentCache
	fetchers    *domain.FetcherRegistry
	syncer      DailySyncer
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewPriceQueryService 创建行情查询服务
func NewPriceQueryService(
	instruments domain.InstrumentRepository,
	prices domain.DailyPriceRepository,
	states domain.SyncStateRepository,
	priceCache domain.PriceCache,
	instCache domain.InstrumentCache,
	fetchers *domain.FetcherRegistry,
	syncer DailySyncer,
	m *metrics.Metrics,
) *PriceQueryService {
	return &PriceQueryService{
		instruments: instruments,
		prices:      prices,
		states:      states,
		priceCache:  priceCache,
		instCache:   instCache,
		fetchers:    fetchers,
		syncer:      syncer,
		metrics:     m,
		now:         time.Now,
	}
}

// GetInstrument 读穿标的信息：缓存未命中时回源数据库并回填
func (s *PriceQueryService) GetInstrument(ctx context.Context, code string) (*domain.Instrument, error) {
	if inst, ok, err := s.instCache.Get(ctx, code); err == nil && ok {
		s.countCache("instrument", true)
		return inst, nil
	}
	s.countCache("instrument", false)

	inst, err := s.instruments.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load instrument %s: %w", code, err)
	}
	if inst == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInstrumentNotFound, code)
	}
	if err := s.instCache.Set(ctx, inst, instrumentCacheTTL); err != nil {
		logger.Warn(ctx, "failed to cache instrument", "code", code, "error", err)
	}
	return inst, nil
}

// ResolveExchange 解析标的所属交易所，供市场状态查询使用
func (s *PriceQueryService) ResolveExchange(ctx context.Context, code string) (exchdomain.Exchange, error) {
	inst, err := s.GetInstrument(ctx, code)
	if err != nil {
		return "", err
	}
	return inst.Exchange, nil
}

// GetDailyPrices 按日期升序返回标的的全部日线。useCache 为真时优先读
// 结果缓存；当日进度未定稿时先回源同步再读库；只有定稿的结果才会写入
// 缓存，缓存存活到交易所本地的次日零点。
func (s *PriceQueryService) GetDailyPrices(ctx context.Context, code string, useCache bool) ([]*domain.DailyPriceBar, error) {
	if useCache {
		if bars, ok, err := s.priceCache.GetBars(ctx, code); err == nil && ok {
			s.countCache("price", true)
			return bars, nil
		}
		s.countCache("price", false)
	}

	inst, err := s.GetInstrument(ctx, code)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := inst.Exchange.DateInt(now)

	state, err := s.states.Get(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load sync state for %s: %w", code, err)
	}
	if state == nil || !state.Finalized || state.Date != today {
		if err := s.syncer.SyncDailyPrices(ctx, code); err != nil {
			return nil, err
		}
		state, err = s.states.Get(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("failed to load sync state for %s: %w", code, err)
		}
	}

	bars, err := s.prices.ListByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily prices for %s: %w", code, err)
	}

	if state != nil && state.Finalized && state.Date == today {
		ttl := untilLocalMidnight(now, inst.Exchange)
		if err := s.priceCache.SetBars(ctx, code, bars, ttl); err != nil {
			logger.Warn(ctx, "failed to cache daily prices", "code", code, "error", err)
		}
	}
	return bars, nil
}

// GetSpotPrice 查询标的实时报价，直接透传数据源
func (s *PriceQueryService) GetSpotPrice(ctx context.Context, code string) (*domain.SpotPrice, error) {
	inst, err := s.GetInstrument(ctx, code)
	if err != nil {
		return nil, err
	}
	fetcher, err := s.fetchers.Lookup(inst.Exchange)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, inst.Exchange)
	}
	return fetcher.FetchSpotPrice(ctx, inst)
}

func (s *PriceQueryService) countCache(kind string, hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHitsTotal.WithLabelValues(kind).Inc()
	} else {
		s.metrics.CacheMissesTotal.WithLabelValues(kind).Inc()
	}
}

// untilLocalMidnight 返回到交易所本地次日零点的时长
func untilLocalMidnight(now time.Time, exchange exchdomain.Exchange) time.Duration {
	local := now.In(exchange.Location())
	midnight := time.Date(local.Year(), local.Month(), local.Day()+1, 0, 0, 0, 0, exchange.Location())
	return midnight.Sub(local)
}
