package domain

import (
	"context"
	"time"
)

// InstrumentRepository 标的仓储接口
type InstrumentRepository interface {
	// GetByCode 按全局代码查询，不存在时返回 (nil, nil)
	GetByCode(ctx context.Context, code string) (*Instrument, error)
	ListByKind(ctx context.Context, kind Kind) ([]*Instrument, error)
	// BulkInsert 批量写入，空入参为 no-op，主键冲突忽略
	BulkInsert(ctx context.Context, instruments []*Instrument) error
}

// DailyPriceRepository 日线仓储接口
type DailyPriceRepository interface {
	// ListByCode 按日期升序返回该标的的全部日线
	ListByCode(ctx context.Context, code string) ([]*DailyPriceBar, error)
	// BulkInsert 批量写入，空入参为 no-op，(code, date) 冲突忽略
	BulkInsert(ctx context.Context, bars []*DailyPriceBar) error
	// Update 按 (code, date) 覆盖已存在的一根日线
	Update(ctx context.Context, bar *DailyPriceBar) error
}

// SyncStateRepository 同步进度仓储接口
type SyncStateRepository interface {
	// Get 按代码查询，不存在时返回 (nil, nil)
	Get(ctx context.Context, code string) (*SyncState, error)
	// Create 创建初始进度记录，主键冲突忽略
	Create(ctx context.Context, state *SyncState) error
	// Upsert 写入最新进度
	Upsert(ctx context.Context, state *SyncState) error
}

// PriceCache 日线结果缓存
type PriceCache interface {
	GetBars(ctx context.Context, code string) ([]*DailyPriceBar, bool, error)
	SetBars(ctx context.Context, code string, bars []*DailyPriceBar, ttl time.Duration) error
}

// InstrumentCache 标的缓存
type InstrumentCache interface {
	Get(ctx context.Context, code string) (*Instrument, bool, error)
	Set(ctx context.Context, inst *Instrument, ttl time.Duration) error
}
