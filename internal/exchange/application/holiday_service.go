package application

import (
	"context"
	"time"

	"github.com/wyfcoding/tradingdata/internal/exchange/domain"
	"github.com/wyfcoding/tradingdata/pkg/logger"
)

// HolidayService 休市日历同步服务
type HolidayService struct {
	holidays domain.HolidayRepository
	fetcher  domain.HolidayFetcher
}

// NewHolidayService 创建休市日历同步服务
func NewHolidayService(holidays domain.HolidayRepository, fetcher domain.HolidayFetcher) *HolidayService {
	return &HolidayService{
		holidays: holidays,
		fetcher:  fetcher,
	}
}

// SyncHolidays 逐交易所拉取官方休市日历并补齐本地缺失的记录。
// 单个交易所拉取失败只记录日志，不影响其它交易所。
func (s *HolidayService) SyncHolidays(ctx context.Context) error {
	ids, err := s.holidays.ListIDs(ctx)
	if err != nil {
		return err
	}
	known := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		known[id] = struct{}{}
	}

	var missing []*domain.Holiday
	for _, exchange := range domain.Values() {
		logger.Info(ctx, "Sync holidays", "exchange", exchange)
		dates, err := s.fetcher.FetchHolidays(ctx, exchange)
		if err != nil {
			logger.Error(ctx, "failed to fetch holidays", "exchange", exchange, "error", err)
			continue
		}
		for _, date := range dates {
			holiday := domain.NewHoliday(date, exchange)
			if _, ok := known[holiday.ID]; ok {
				continue
			}
			known[holiday.ID] = struct{}{}
			missing = append(missing, holiday)
		}
	}

	if len(missing) == 0 {
		return nil
	}
	return s.holidays.BulkInsert(ctx, missing)
}

// IsHoliday 判断给定时刻在交易所本地日历下是否为休市日（含周末）
func (s *HolidayService) IsHoliday(ctx context.Context, exchange domain.Exchange, t time.Time) (bool, error) {
	local := t.In(exchange.Location())
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return true, nil
	}
	holiday, err := s.holidays.Get(ctx, domain.HolidayKey(t, exchange))
	if err != nil {
		return false, err
	}
	return holiday != nil, nil
}
