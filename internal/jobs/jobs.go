// Package jobs 承载全部定时任务。价格类任务在多副本间以 Redis 租约
// 互斥，租约到期自动失效，同一时间窗内只有一个实例真正执行。
package jobs

import (
	"context"
	"math/rand"
	"time"

	"github.com/wyfcoding/tradingdata/internal/joblock"
	"github.com/wyfcoding/tradingdata/pkg/logger"
	"github.com/wyfcoding/tradingdata/pkg/metrics"
)

// 价格同步任务的租约键
const (
	fundPriceLockKey  = "Sync:Fund:Price"
	indexPriceLockKey = "Sync:Index:Price"
)

// FundSyncer 基金价格同步入口
type FundSyncer interface {
	SyncAllPrices(ctx context.Context) error
}

// IndexSyncer 指数同步入口
type IndexSyncer interface {
	SyncConstituentPrices(ctx context.Context) error
	SyncAllConstituents(ctx context.Context) error
}

// HolidaySyncer 休市日历同步入口
type HolidaySyncer interface {
	SyncHolidays(ctx context.Context) error
}

// TokenRefresher 令牌刷新入口
type TokenRefresher interface {
	Refresh(ctx context.Context) (string, error)
}

// Runner 任务执行器，处理租约、抖动与指标上报
type Runner struct {
	locker  joblock.Locker
	metrics *metrics.Metrics
	lockTTL time.Duration
	// jitter 返回任务启动前的随机等待，打散多副本的争抢时刻
	jitter func() time.Duration
	sleep  func(time.Duration)
}

// NewRunner 创建任务执行器
func NewRunner(locker joblock.Locker, m *metrics.Metrics, lockTTL time.Duration) *Runner {
	return &Runner{
		locker:  locker,
		metrics: m,
		lockTTL: lockTTL,
		jitter: func() time.Duration {
			return time.Duration(1+rand.Intn(10)) * time.Second
		},
		sleep: time.Sleep,
	}
}

// runExclusive 带租约执行任务。租约不主动释放，靠 TTL 过期，
// 保证同一时间窗内其它副本拿不到锁。
func (r *Runner) runExclusive(ctx context.Context, job, lockKey string, fn func(context.Context) error) error {
	r.sleep(r.jitter())

	acquired, err := r.locker.TryAcquire(ctx, lockKey, r.lockTTL)
	if err != nil {
		logger.Error(ctx, "failed to acquire job lease", "job", job, "error", err)
		r.countRun(job, "error")
		return err
	}
	if !acquired {
		logger.Info(ctx, "job lease held elsewhere, skipping", "job", job)
		if r.metrics != nil {
			r.metrics.JobLockSkipsTotal.WithLabelValues(job).Inc()
		}
		return nil
	}

	return r.run(ctx, job, fn)
}

func (r *Runner) run(ctx context.Context, job string, fn func(context.Context) error) error {
	defer logger.LogDuration(ctx, "job finished", "job", job)()

	if err := fn(ctx); err != nil {
		logger.Error(ctx, "job failed", "job", job, "error", err)
		r.countRun(job, "error")
		return err
	}
	r.countRun(job, "success")
	return nil
}

func (r *Runner) countRun(job, result string) {
	if r.metrics != nil {
		r.metrics.JobRunsTotal.WithLabelValues(job, result).Inc()
	}
}

// SyncFundPrices 同步全部基金日线，租约互斥
func (r *Runner) SyncFundPrices(ctx context.Context, syncer FundSyncer) error {
	return r.runExclusive(ctx, "sync_fund_prices", fundPriceLockKey, syncer.SyncAllPrices)
}

// SyncIndexPrices 同步全部指数成分股日线，租约互斥
func (r *Runner) SyncIndexPrices(ctx context.Context, syncer IndexSyncer) error {
	return r.runExclusive(ctx, "sync_index_prices", indexPriceLockKey, syncer.SyncConstituentPrices)
}

// SyncIndexConstituents 同步成分股名单并通知调整
func (r *Runner) SyncIndexConstituents(ctx context.Context, syncer IndexSyncer) error {
	return r.run(ctx, "sync_index_constituents", syncer.SyncAllConstituents)
}

// SyncHolidays 同步休市日历
func (r *Runner) SyncHolidays(ctx context.Context, syncer HolidaySyncer) error {
	return r.run(ctx, "sync_holidays", syncer.SyncHolidays)
}

// RefreshHKEXToken 刷新港股数据源令牌
func (r *Runner) RefreshHKEXToken(ctx context.Context, refresher TokenRefresher) error {
	return r.run(ctx, "refresh_hkex_token", func(ctx context.Context) error {
		_, err := refresher.Refresh(ctx)
		return err
	})
}
