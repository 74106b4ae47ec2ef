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

// Calendar 交易日历查询（由 exchange 模块提供实现）
type Calendar interface {
	IsNonTradingDay(ctx context.Context, exchange exchdomain.Exchange, t time.Time) (bool, error)
}

// PriceSyncService 日线同步服务。以同步进度表为准绳，保证对同一标的
// 重复执行是幂等的：已定稿的当日进度直接跳过，入库以 (code, date)
// 冲突忽略兜底。
type PriceSyncService struct {
	instruments domain.InstrumentRepository
	prices      domain.DailyPriceRepository
	states      domain.SyncStateRepository
	fetchers    *domain.FetcherRegistry
	calendar    Calendar
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewPriceSyncService 创建日线同步服务
func NewPriceSyncService(
	instruments domain.InstrumentRepository,
	prices domain.DailyPriceRepository,
	states domain.SyncStateRepository,
	fetchers *domain.FetcherRegistry,
	calendar Calendar,
	m *metrics.Metrics,
) *PriceSyncService {
	return &PriceSyncService{
		instruments: instruments,
		prices:      prices,
		states:      states,
		fetchers:    fetchers,
		calendar:    calendar,
		metrics:     m,
		now:         time.Now,
	}
}

// SyncDailyPrices 同步单标的的日线。流程：
//  1. 解析标的与交易所本地"今天"；
//  2. 进度已定稿且覆盖到今天则直接返回；
//  3. 拉取数据源日线，与库内已有日线对账，只补新增日期；
//     对收盘后才出全量的交易所，允许覆盖库内最后一天的当日数据；
//  4. 今天的数据已拿到、或今天本就是非交易日，进度定稿。
func (s *PriceSyncService) SyncDailyPrices(ctx context.Context, code string) error {
	start := s.now()
	err := s.syncDailyPrices(ctx, code)
	if s.metrics != nil {
		s.metrics.PriceSyncDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			s.metrics.PriceSyncTotal.WithLabelValues("error").Inc()
		} else {
			s.metrics.PriceSyncTotal.WithLabelValues("success").Inc()
		}
	}
	return err
}

func (s *PriceSyncService) syncDailyPrices(ctx context.Context, code string) error {
	inst, err := s.instruments.GetByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to load instrument %s: %w", code, err)
	}
	if inst == nil {
		return fmt.Errorf("%w: %s", domain.ErrInstrumentNotFound, code)
	}

	today := inst.Exchange.DateInt(s.now())

	state, err := s.states.Get(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to load sync state for %s: %w", code, err)
	}
	if state == nil {
		state = &domain.SyncState{Code: code, Date: today, Finalized: false}
		if err := s.states.Create(ctx, state); err != nil {
			return fmt.Errorf("failed to create sync state for %s: %w", code, err)
		}
	} else if state.Finalized && state.Date == today {
		logger.Debug(ctx, "daily prices already finalized", "code", code, "date", today)
		return nil
	}

	stored, err := s.prices.ListByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to load stored prices for %s: %w", code, err)
	}
	storedDates := make(map[uint64]struct{}, len(stored))
	for _, b := range stored {
		storedDates[b.Date] = struct{}{}
	}
	var lastStored uint64
	if len(stored) > 0 {
		lastStored = stored[len(stored)-1].Date
	}

	fetcher, err := s.fetchers.Lookup(inst.Exchange)
	if err != nil {
		return fmt.Errorf("%w: %s", err, inst.Exchange)
	}
	fetched, err := fetcher.FetchDailyPrices(ctx, inst)
	if err != nil {
		return fmt.Errorf("failed to fetch daily prices for %s: %w", code, err)
	}

	var (
		toInsert   []*domain.DailyPriceBar
		gotToday   bool
		overwrites int
	)
	for _, f := range fetched {
		if f.Date == today {
			gotToday = true
		}
		_, exists := storedDates[f.Date]
		switch {
		case !exists:
			toInsert = append(toInsert, barFromFetched(code, f))
		case f.Date == lastStored && inst.Exchange.DelayedDailyBar():
			// 港股等收盘后才稳定的市场，库内最后一天可能是盘中快照，覆盖之
			if err := s.prices.Update(ctx, barFromFetched(code, f)); err != nil {
				return fmt.Errorf("failed to update delayed bar for %s: %w", code, err)
			}
			overwrites++
		}
	}

	if len(toInsert) > 0 {
		if err := s.prices.BulkInsert(ctx, toInsert); err != nil {
			return fmt.Errorf("failed to insert daily prices for %s: %w", code, err)
		}
		if s.metrics != nil {
			s.metrics.PriceBarsInserted.Add(float64(len(toInsert)))
		}
	}

	finalized := gotToday
	if !finalized {
		nonTrading, err := s.calendar.IsNonTradingDay(ctx, inst.Exchange, s.now())
		if err != nil {
			return fmt.Errorf("failed to check trading calendar for %s: %w", code, err)
		}
		finalized = nonTrading
	}

	state.Date = today
	state.Finalized = finalized
	if err := s.states.Upsert(ctx, state); err != nil {
		return fmt.Errorf("failed to save sync state for %s: %w", code, err)
	}

	logger.Info(ctx, "daily prices synced",
		"code", code, "date", today,
		"inserted", len(toInsert), "overwritten", overwrites, "finalized", finalized)
	return nil
}

func barFromFetched(code string, f *domain.FetchedBar) *domain.DailyPriceBar {
	return &domain.DailyPriceBar{
		Code:   code,
		Date:   f.Date,
		Open:   f.Open,
		Close:  f.Close,
		High:   f.High,
		Low:    f.Low,
		Volume: f.Volume,
		Amount: f.Amount,
	}
}
