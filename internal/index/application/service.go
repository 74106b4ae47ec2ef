package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/wyfcoding/tradingdata/internal/index/domain"
	"github.com/wyfcoding/tradingdata/pkg/logger"
	"github.com/wyfcoding/tradingdata/pkg/metrics"
)

// notifyBatchSize 单条通知最多携带的调整条数，调整多时拆分为多条
const notifyBatchSize = 10

// PriceSyncer 日线同步入口（由 stock 模块提供实现）
type PriceSyncer interface {
	SyncDailyPrices(ctx context.Context, code string) error
}

// IndexService 指数与成分股服务
type IndexService struct {
	indexes      domain.IndexRepository
	constituents domain.ConstituentRepository
	fetcher      domain.ConstituentFetcher
	notifier     domain.Notifier
	priceSyncer  PriceSyncer
	metrics      *metrics.Metrics
}

// NewIndexService 创建指数服务
func NewIndexService(
	indexes domain.IndexRepository,
	constituents domain.ConstituentRepository,
	fetcher domain.ConstituentFetcher,
	notifier domain.Notifier,
	priceSyncer PriceSyncer,
	m *metrics.Metrics,
) *IndexService {
	return &IndexService{
		indexes:      indexes,
		constituents: constituents,
		fetcher:      fetcher,
		notifier:     notifier,
		priceSyncer:  priceSyncer,
		metrics:      m,
	}
}

// ListIndexes 返回全部指数
func (s *IndexService) ListIndexes(ctx context.Context) ([]*domain.StockIndex, error) {
	return s.indexes.ListAll(ctx)
}

// ListConstituents 返回指数当前的成分股名单
func (s *IndexService) ListConstituents(ctx context.Context, indexCode string) ([]*domain.IndexConstituent, error) {
	return s.constituents.ListByIndex(ctx, indexCode)
}

// SyncConstituents 拉取指数最新成分股并与库内名单对账：新增的入库，
// 退出的删除，返回本次调整明细。
func (s *IndexService) SyncConstituents(ctx context.Context, index *domain.StockIndex) (*domain.ConstituentDiff, error) {
	latest, err := s.fetcher.FetchConstituents(ctx, index)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch constituents for %s: %w", index.Code, err)
	}
	stored, err := s.constituents.ListByIndex(ctx, index.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to load constituents for %s: %w", index.Code, err)
	}

	diff := domain.DiffConstituents(stored, latest)
	if diff.Empty() {
		return diff, nil
	}

	if len(diff.Added) > 0 {
		if err := s.constituents.BulkInsert(ctx, diff.Added); err != nil {
			return nil, fmt.Errorf("failed to insert constituents for %s: %w", index.Code, err)
		}
	}
	for _, c := range diff.Removed {
		if err := s.constituents.Delete(ctx, c.IndexCode, c.StockCode); err != nil {
			return nil, fmt.Errorf("failed to delete constituent %s of %s: %w", c.StockCode, index.Code, err)
		}
	}

	logger.Info(ctx, "index constituents synced",
		"index", index.Code, "added", len(diff.Added), "removed", len(diff.Removed))
	return diff, nil
}

// SyncAllConstituents 同步全部指数的成分股，单个指数失败只记录日志。
// 有调整时按批推送通知，每批不超过 10 条。
func (s *IndexService) SyncAllConstituents(ctx context.Context) error {
	indexes, err := s.indexes.ListAll(ctx)
	if err != nil {
		return err
	}

	for _, index := range indexes {
		diff, err := s.SyncConstituents(ctx, index)
		if err != nil {
			logger.Error(ctx, "failed to sync index constituents", "index", index.Code, "error", err)
			continue
		}
		if diff.Empty() {
			continue
		}
		s.notifyChanges(ctx, index, diff)
	}
	return nil
}

// SyncConstituentPrices 同步全部指数成分股的日线，单标的失败只记录日志
func (s *IndexService) SyncConstituentPrices(ctx context.Context) error {
	indexes, err := s.indexes.ListAll(ctx)
	if err != nil {
		return err
	}

	// 多个指数可能共享成分股，去重后再同步
	seen := make(map[string]struct{})
	for _, index := range indexes {
		constituents, err := s.constituents.ListByIndex(ctx, index.Code)
		if err != nil {
			logger.Error(ctx, "failed to load index constituents", "index", index.Code, "error", err)
			continue
		}
		for _, c := range constituents {
			if _, ok := seen[c.StockCode]; ok {
				continue
			}
			seen[c.StockCode] = struct{}{}
			if err := s.priceSyncer.SyncDailyPrices(ctx, c.StockCode); err != nil {
				logger.Error(ctx, "failed to sync constituent prices",
					"index", index.Code, "code", c.StockCode, "error", err)
			}
		}
	}
	return nil
}

func (s *IndexService) notifyChanges(ctx context.Context, index *domain.StockIndex, diff *domain.ConstituentDiff) {
	var changes []*domain.ConstituentChange
	for _, c := range diff.Added {
		changes = append(changes, &domain.ConstituentChange{
			IndexCode: index.Code,
			IndexName: index.Name,
			StockCode: c.StockCode,
			StockName: c.StockName,
			Action:    domain.ActionAdded,
		})
	}
	for _, c := range diff.Removed {
		changes = append(changes, &domain.ConstituentChange{
			IndexCode: index.Code,
			IndexName: index.Name,
			StockCode: c.StockCode,
			StockName: c.StockName,
			Action:    domain.ActionRemoved,
		})
	}

	title := "指数成分股关注-" + index.Name
	for start := 0; start < len(changes); start += notifyBatchSize {
		end := start + notifyBatchSize
		if end > len(changes) {
			end = len(changes)
		}
		content := formatChanges(changes[start:end])
		if err := s.notifier.Notify(ctx, title, content); err != nil {
			logger.Error(ctx, "failed to send constituent change notification",
				"index", index.Code, "error", err)
			continue
		}
		if s.metrics != nil {
			s.metrics.NotifyBatchesTotal.Inc()
		}
	}
}

func formatChanges(changes []*domain.ConstituentChange) string {
	lines := make([]string, len(changes))
	for i, c := range changes {
		verb := "增加"
		if c.Action == domain.ActionRemoved {
			verb = "移除"
		}
		lines[i] = fmt.Sprintf("%s %s(%s)", verb, c.StockName, c.StockCode)
	}
	return strings.Join(lines, "\n")
}
