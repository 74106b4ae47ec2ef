package domain

import (
	"context"
	"time"
)

// HolidayRepository 休市日期仓储接口
type HolidayRepository interface {
	// Get 按复合主键查询，不存在时返回 (nil, nil)
	Get(ctx context.Context, id uint64) (*Holiday, error)
	ListIDs(ctx context.Context) ([]uint64, error)
	// BulkInsert 批量写入，空入参为 no-op，主键冲突忽略
	BulkInsert(ctx context.Context, holidays []*Holiday) error
}

// SessionRepository 交易时段仓储接口
type SessionRepository interface {
	// ListByExchange 按开始时间升序返回该交易所的全部时段
	ListByExchange(ctx context.Context, exchange Exchange) ([]*SessionWindow, error)
}

// StatusCache 市场状态结果缓存
type StatusCache interface {
	Get(ctx context.Context, key string) (MarketStatus, bool, error)
	Set(ctx context.Context, key string, status MarketStatus, ttl time.Duration) error
}

// HolidayFetcher 从交易所官方渠道拉取休市日历，具体抓取实现在本服务之外
type HolidayFetcher interface {
	FetchHolidays(ctx context.Context, exchange Exchange) ([]time.Time, error)
}
