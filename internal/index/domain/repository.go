package domain

import (
	"context"
)

// IndexRepository 指数仓储接口
type IndexRepository interface {
	// GetByCode 按代码查询，不存在时返回 (nil, nil)
	GetByCode(ctx context.Context, code string) (*StockIndex, error)
	ListAll(ctx context.Context) ([]*StockIndex, error)
	// BulkInsert 批量写入，空入参为 no-op，主键冲突忽略
	BulkInsert(ctx context.Context, indexes []*StockIndex) error
}

// ConstituentRepository 成分股仓储接口
type ConstituentRepository interface {
	// ListByIndex 按股票代码升序返回指数的全部成分股
	ListByIndex(ctx context.Context, indexCode string) ([]*IndexConstituent, error)
	BulkInsert(ctx context.Context, constituents []*IndexConstituent) error
	Delete(ctx context.Context, indexCode, stockCode string) error
}

// ConstituentFetcher 从数据源拉取指数最新成分股名单
type ConstituentFetcher interface {
	FetchConstituents(ctx context.Context, index *StockIndex) ([]*IndexConstituent, error)
}

// Notifier 成分股调整通知出口
type Notifier interface {
	Notify(ctx context.Context, title, content string) error
}
