package domain

import (
	"context"

	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
)

// Fund 场内基金
type Fund struct {
	Code     string
	Name     string
	Exchange exchdomain.Exchange
}

// FundRepository 基金仓储接口
type FundRepository interface {
	FindAll(ctx context.Context) ([]*Fund, error)
	// BulkInsert 批量写入，空入参为 no-op，主键冲突忽略
	BulkInsert(ctx context.Context, funds []*Fund) error
}

// ListingFetcher 从数据源拉取场内基金列表
type ListingFetcher interface {
	FetchFundListings(ctx context.Context) ([]*Fund, error)
}
