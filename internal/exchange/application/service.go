package application

import (
	"context"
	"fmt"
	"time"

	"github.com/wyfcoding/tradingdata/internal/exchange/domain"
	"github.com/wyfcoding/tradingdata/pkg/logger"
)

// statusCacheTTL 市场状态缓存时长。状态只在时段边界变化，短 TTL 足够。
const statusCacheTTL = 5 * time.Minute

// ExchangeResolver 由标的代码解析其所属交易所（由 stock 模块提供实现）
type ExchangeResolver interface {
	ResolveExchange(ctx context.Context, code string) (domain.Exchange, error)
}

// MarketStatusService 市场状态评估服务
type MarketStatusService struct {
	holidays domain.HolidayRepository
	sessions domain.SessionRepository
	cache    domain.StatusCache
	resolver ExchangeResolver
	now      func() time.Time
}

// NewMarketStatusService 创建市场状态评估服务
func NewMarketStatusService(
	holidays domain.HolidayRepository,
	sessions domain.SessionRepository,
	cache domain.StatusCache,
) *MarketStatusService {
	return &MarketStatusService{
		holidays: holidays,
		sessions: sessions,
		cache:    cache,
		now:      time.Now,
	}
}

// SetResolver 注入标的代码解析器（在 main 中装配，避免模块间环依赖）
func (s *MarketStatusService) SetResolver(r ExchangeResolver) {
	s.resolver = r
}

// IsNonTradingDay 判断 t 在交易所本地日历下是否为非交易日。
// 周六日恒为真；否则以复合主键查询休市表，查询失败原样上抛，
// 绝不降级为"交易日"或"休市日"。
func (s *MarketStatusService) IsNonTradingDay(ctx context.Context, exchange domain.Exchange, t time.Time) (bool, error) {
	local := t.In(exchange.Location())
	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return true, nil
	}
	holiday, err := s.holidays.Get(ctx, domain.HolidayKey(t, exchange))
	if err != nil {
		return false, fmt.Errorf("failed to query holiday: %w", err)
	}
	return holiday != nil, nil
}

// Evaluate 求交易所当前的市场状态，不经过缓存
func (s *MarketStatusService) Evaluate(ctx context.Context, exchange domain.Exchange) (domain.MarketStatus, error) {
	now := s.now()

	nonTrading, err := s.IsNonTradingDay(ctx, exchange, now)
	if err != nil {
		return "", err
	}
	if nonTrading {
		return domain.MarketClosed, nil
	}

	windows, err := s.sessions.ListByExchange(ctx, exchange)
	if err != nil {
		return "", fmt.Errorf("failed to load session windows: %w", err)
	}

	tod := domain.SecondOfDay(now.In(exchange.Location()))
	return domain.StatusAt(windows, tod), nil
}

// EvaluateCached 求交易所当前的市场状态，优先读结果缓存
func (s *MarketStatusService) EvaluateCached(ctx context.Context, exchange domain.Exchange) (domain.MarketStatus, error) {
	key := "MarketStatus:" + string(exchange)
	if status, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return status, nil
	}

	status, err := s.Evaluate(ctx, exchange)
	if err != nil {
		return "", err
	}
	if err := s.cache.Set(ctx, key, status, statusCacheTTL); err != nil {
		// 缓存只是加速器，写入失败不影响结果
		logger.Warn(ctx, "failed to cache market status", "exchange", exchange, "error", err)
	}
	return status, nil
}

// EvaluateByCode 求标的所属交易所当前的市场状态，优先读结果缓存
func (s *MarketStatusService) EvaluateByCode(ctx context.Context, code string) (domain.MarketStatus, error) {
	key := "MarketStatus:" + code
	if status, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return status, nil
	}

	exchange, err := s.resolver.ResolveExchange(ctx, code)
	if err != nil {
		return "", err
	}
	status, err := s.Evaluate(ctx, exchange)
	if err != nil {
		return "", err
	}
	if err := s.cache.Set(ctx, key, status, statusCacheTTL); err != nil {
		logger.Warn(ctx, "failed to cache market status", "code", code, "error", err)
	}
	return status, nil
}

// CurrentTime 返回交易所本地当前时间，格式 2006-01-02 15:04:05
func (s *MarketStatusService) CurrentTime(exchange domain.Exchange) string {
	return s.now().In(exchange.Location()).Format("2006-01-02 15:04:05")
}
