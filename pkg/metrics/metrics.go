// Package metrics 提供 Prometheus helper，包含本服务常用的 counter/gauge/histogram
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wyfcoding/tradingdata/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal prometheus.Counter
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 每日价格同步执行计数（按结果区分）
	PriceSyncTotal *prometheus.CounterVec
	// 单次同步写入的新 K 线条数
	PriceBarsInserted prometheus.Counter
	// 同步耗时
	PriceSyncDuration prometheus.Histogram

	// 结果缓存命中/未命中
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// 任务租约获取失败（另一实例持有），正常跳过
	JobLockSkipsTotal *prometheus.CounterVec
	// 任务执行计数
	JobRunsTotal *prometheus.CounterVec

	// 成分股变更通知批次计数
	NotifyBatchesTotal prometheus.Counter

	registry *prometheus.Registry
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tradingdata",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tradingdata",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		PriceSyncTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tradingdata",
			Subsystem: serviceName,
			Name:      "price_sync_total",
			Help:      "Daily price sync runs by result",
		}, []string{"result"}),
		PriceBarsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tradingdata",
			Subsystem: serviceName,
			Name:      "price_bars_inserted_total",
			Help:      "New daily price bars inserted",
		}),
		PriceSyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tradingdata",
			Subsystem: serviceName,
			Name:      "price_sync_duration_seconds",
			Help:      "Daily price sync duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		CacheHitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tradingdata",
			Subsystem: serviceName,
			Name:      "cache_hits_total",
			Help:      "Result cache hits by kind",
		}, []string{"kind"}),
		CacheMissesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tradingdata",
			Subsystem: serviceName,
			Name:      "cache_misses_total",
			Help:      "Result cache misses by kind",
		}, []string{"kind"}),
		JobLockSkipsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tradingdata",
			Subsystem: serviceName,
			Name:      "job_lock_skips_total",
			Help:      "Job runs skipped because the lease was held elsewhere",
		}, []string{"job"}),
		JobRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tradingdata",
			Subsystem: serviceName,
			Name:      "job_runs_total",
			Help:      "Job executions by job and result",
		}, []string{"job", "result"}),
		NotifyBatchesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tradingdata",
			Subsystem: serviceName,
			Name:      "notify_batches_total",
			Help:      "Constituent change notification batches sent",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.PriceSyncTotal,
		m.PriceBarsInserted,
		m.PriceSyncDuration,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.JobLockSkipsTotal,
		m.JobRunsTotal,
		m.NotifyBatchesTotal,
	)

	return m
}

// ExposeHTTP 在独立端口暴露 /metrics
func (m *Metrics) ExposeHTTP(port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Metrics server starting", "addr", addr, "path", path)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error(context.Background(), "Metrics server exited", "error", err)
	}
}
