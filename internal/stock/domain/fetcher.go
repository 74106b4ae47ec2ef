package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
)

// ErrNoFetcher 交易所未注册行情数据源
var ErrNoFetcher = errors.New("no price fetcher registered for exchange")

// FetchedBar 数据源返回的一根日线，Date 为交易所本地日期 yyyyMMdd
type FetchedBar struct {
	Date   uint64
	Open   decimal.Decimal
	Close  decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Volume *decimal.Decimal
	Amount *decimal.Decimal
}

// SpotPrice 实时报价
type SpotPrice struct {
	Code  string
	Price decimal.Decimal
	Time  string
}

// PriceFetcher 行情数据源。FetchDailyPrices 按日期升序返回近端日线，
// 具体条数由数据源决定。
type PriceFetcher interface {
	FetchDailyPrices(ctx context.Context, inst *Instrument) ([]*FetchedBar, error)
	FetchSpotPrice(ctx context.Context, inst *Instrument) (*SpotPrice, error)
}

// FetcherRegistry 按交易所路由行情数据源
type FetcherRegistry struct {
	fetchers map[exchdomain.Exchange]PriceFetcher
}

// NewFetcherRegistry 创建数据源注册表
func NewFetcherRegistry() *FetcherRegistry {
	return &FetcherRegistry{fetchers: make(map[exchdomain.Exchange]PriceFetcher)}
}

// Register 注册交易所对应的数据源，重复注册以后者为准
func (r *FetcherRegistry) Register(exchange exchdomain.Exchange, fetcher PriceFetcher) {
	r.fetchers[exchange] = fetcher
}

// Lookup 查找交易所对应的数据源
func (r *FetcherRegistry) Lookup(exchange exchdomain.Exchange) (PriceFetcher, error) {
	fetcher, ok := r.fetchers[exchange]
	if !ok {
		return nil, ErrNoFetcher
	}
	return fetcher, nil
}
