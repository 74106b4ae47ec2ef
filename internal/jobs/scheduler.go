package jobs

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/wyfcoding/tradingdata/pkg/config"
	"github.com/wyfcoding/tradingdata/pkg/logger"
)

// Scheduler 定时任务调度器
type Scheduler struct {
	scheduler *gocron.Scheduler
	runner    *Runner
	cfg       config.JobsConfig

	funds    FundSyncer
	indexes  IndexSyncer
	holidays HolidaySyncer
	tokens   TokenRefresher
}

// NewScheduler 创建调度器
func NewScheduler(
	runner *Runner,
	cfg config.JobsConfig,
	funds FundSyncer,
	indexes IndexSyncer,
	holidays HolidaySyncer,
	tokens TokenRefresher,
) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		runner:    runner,
		cfg:       cfg,
		funds:     funds,
		indexes:   indexes,
		holidays:  holidays,
		tokens:    tokens,
	}
}

// Start 注册全部任务并异步启动调度
func (s *Scheduler) Start() error {
	ctx := context.Background()

	if _, err := s.scheduler.Every(s.cfg.FundPriceInterval).Minutes().Do(func() {
		_ = s.runner.SyncFundPrices(ctx, s.funds)
	}); err != nil {
		return err
	}

	if _, err := s.scheduler.Every(s.cfg.IndexPriceInterval).Minutes().Do(func() {
		_ = s.runner.SyncIndexPrices(ctx, s.indexes)
	}); err != nil {
		return err
	}

	if _, err := s.scheduler.Every(1).Day().At(s.cfg.ConstituentSyncAt).Do(func() {
		_ = s.runner.SyncIndexConstituents(ctx, s.indexes)
	}); err != nil {
		return err
	}

	if _, err := s.scheduler.Every(1).Day().At(s.cfg.HolidaySyncAt).Do(func() {
		_ = s.runner.SyncHolidays(ctx, s.holidays)
	}); err != nil {
		return err
	}

	if _, err := s.scheduler.Every(s.cfg.TokenRefreshInterval).Minutes().Do(func() {
		_ = s.runner.RefreshHKEXToken(ctx, s.tokens)
	}); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	logger.Info(ctx, "job scheduler started",
		"fund_price_interval_min", s.cfg.FundPriceInterval,
		"index_price_interval_min", s.cfg.IndexPriceInterval,
		"constituent_sync_at", s.cfg.ConstituentSyncAt,
		"holiday_sync_at", s.cfg.HolidaySyncAt,
		"token_refresh_interval_min", s.cfg.TokenRefreshInterval)
	return nil
}

// Stop 停止调度，等待在途任务结束
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}
