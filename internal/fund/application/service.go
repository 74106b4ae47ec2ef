package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/tradingdata/internal/fund/domain"
	"github.com/wyfcoding/tradingdata/pkg/logger"
)

// PriceSyncer 日线同步入口（由 stock 模块提供实现）
type PriceSyncer interface {
	SyncDailyPrices(ctx context.Context, code string) error
}

// FundService 基金服务
type FundService struct {
	funds       domain.FundRepository
	listings    domain.ListingFetcher
	priceSyncer PriceSyncer
}

// NewFundService 创建基金服务
func NewFundService(funds domain.FundRepository, listings domain.ListingFetcher, priceSyncer PriceSyncer) *FundService {
	return &FundService{
		funds:       funds,
		listings:    listings,
		priceSyncer: priceSyncer,
	}
}

// FindAll 返回全部基金
func (s *FundService) FindAll(ctx context.Context) ([]*domain.Fund, error) {
	return s.funds.FindAll(ctx)
}

// SyncListings 拉取场内基金列表并补齐本地缺失的记录
func (s *FundService) SyncListings(ctx context.Context) error {
	listings, err := s.listings.FetchFundListings(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch fund listings: %w", err)
	}
	if len(listings) == 0 {
		return nil
	}
	return s.funds.BulkInsert(ctx, listings)
}

// SyncAllPrices 同步全部基金的日线，单标的失败只记录日志
func (s *FundService) SyncAllPrices(ctx context.Context) error {
	funds, err := s.funds.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, fund := range funds {
		if err := s.priceSyncer.SyncDailyPrices(ctx, fund.Code); err != nil {
			logger.Error(ctx, "failed to sync fund prices", "code", fund.Code, "error", err)
		}
	}
	return nil
}
