// TradingDataService 主程序
// 功能：多交易所行情数据的同步、缓存与查询，含休市日历、指数成分股
// 与基金列表的定时维护
// 架构：基于 DDD + MySQL + Redis + Kafka
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/wyfcoding/tradingdata/internal/datasource"
	exchapp "github.com/wyfcoding/tradingdata/internal/exchange/application"
	exchdomain "github.com/wyfcoding/tradingdata/internal/exchange/domain"
	exchmysql "github.com/wyfcoding/tradingdata/internal/exchange/infrastructure/persistence/mysql"
	exchredis "github.com/wyfcoding/tradingdata/internal/exchange/infrastructure/persistence/redis"
	exchhttp "github.com/wyfcoding/tradingdata/internal/exchange/interfaces/http"
	fundapp "github.com/wyfcoding/tradingdata/internal/fund/application"
	fundmysql "github.com/wyfcoding/tradingdata/internal/fund/infrastructure/persistence/mysql"
	fundhttp "github.com/wyfcoding/tradingdata/internal/fund/interfaces/http"
	indexapp "github.com/wyfcoding/tradingdata/internal/index/application"
	indexdomain "github.com/wyfcoding/tradingdata/internal/index/domain"
	"github.com/wyfcoding/tradingdata/internal/index/infrastructure/notify"
	indexmysql "github.com/wyfcoding/tradingdata/internal/index/infrastructure/persistence/mysql"
	indexhttp "github.com/wyfcoding/tradingdata/internal/index/interfaces/http"
	"github.com/wyfcoding/tradingdata/internal/joblock"
	"github.com/wyfcoding/tradingdata/internal/jobs"
	stockapp "github.com/wyfcoding/tradingdata/internal/stock/application"
	stockdomain "github.com/wyfcoding/tradingdata/internal/stock/domain"
	stockmysql "github.com/wyfcoding/tradingdata/internal/stock/infrastructure/persistence/mysql"
	stockredis "github.com/wyfcoding/tradingdata/internal/stock/infrastructure/persistence/redis"
	stockhttp "github.com/wyfcoding/tradingdata/internal/stock/interfaces/http"
	"github.com/wyfcoding/tradingdata/internal/token"
	"github.com/wyfcoding/tradingdata/pkg/cache"
	"github.com/wyfcoding/tradingdata/pkg/config"
	"github.com/wyfcoding/tradingdata/pkg/db"
	"github.com/wyfcoding/tradingdata/pkg/logger"
	"github.com/wyfcoding/tradingdata/pkg/metrics"
	"github.com/wyfcoding/tradingdata/pkg/mq"
)

func main() {
	// 1. 加载配置
	configPath := "configs/tradingdata/config.toml"
	if p := os.Getenv("APP_CONFIG"); p != "" {
		configPath = p
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	loggerCfg := logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		FilePath:   cfg.Logger.FilePath,
		MaxSize:    cfg.Logger.MaxSize,
		MaxBackups: cfg.Logger.MaxBackups,
		MaxAge:     cfg.Logger.MaxAge,
		Compress:   cfg.Logger.Compress,
		WithCaller: cfg.Logger.WithCaller,
	}
	if err := logger.Init(loggerCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	logger.Info(ctx, "Starting TradingDataService",
		"service", cfg.ServiceName,
		"version", cfg.Version,
		"environment", cfg.Environment,
	)

	// 3. 初始化数据库
	database, err := db.Init(db.Config{
		Driver:             cfg.Database.Driver,
		DSN:                cfg.Database.DSN,
		MaxOpenConns:       cfg.Database.MaxOpenConns,
		MaxIdleConns:       cfg.Database.MaxIdleConns,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		LogEnabled:         cfg.Database.LogEnabled,
		SlowQueryThreshold: cfg.Database.SlowQueryThreshold,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize database", "error", err)
	}
	defer database.Close()

	// 4. 初始化 Redis
	redisCache, err := cache.New(cache.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxPoolSize:  cfg.Redis.MaxPoolSize,
		ConnTimeout:  cfg.Redis.ConnTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to initialize Redis", "error", err)
	}
	defer redisCache.Close()

	// 5. 初始化指标
	metricsInstance := metrics.New(cfg.ServiceName)
	if cfg.Metrics.Enabled {
		go metricsInstance.ExposeHTTP(cfg.Metrics.Port, cfg.Metrics.Path)
	}

	// 6. 数据源网关与港股令牌（两者互相依赖，后注入令牌来源）
	dsClient := datasource.NewClient(cfg.DataSource, nil)
	tokenStore := token.NewStore(redisCache, dsClient)
	dsClient.SetTokenProvider(tokenStore)

	// 7. 初始化仓储与缓存
	holidayRepo := exchmysql.NewHolidayRepository(database.DB)
	sessionRepo := exchmysql.NewSessionRepository(database.DB)
	statusCache := exchredis.NewStatusCache(redisCache)
	instrumentRepo := stockmysql.NewInstrumentRepository(database.DB)
	priceRepo := stockmysql.NewDailyPriceRepository(database.DB)
	syncStateRepo := stockmysql.NewSyncStateRepository(database.DB)
	priceCache := stockredis.NewPriceCache(redisCache)
	instrumentCache := stockredis.NewInstrumentCache(redisCache)
	indexRepo := indexmysql.NewIndexRepository(database.DB)
	constituentRepo := indexmysql.NewConstituentRepository(database.DB)
	fundRepo := fundmysql.NewFundRepository(database.DB)

	// 8. 数据源按交易所注册
	fetchers := stockdomain.NewFetcherRegistry()
	for _, exchange := range exchdomain.Values() {
		fetchers.Register(exchange, dsClient)
	}

	// 9. 初始化应用服务
	statusService := exchapp.NewMarketStatusService(holidayRepo, sessionRepo, statusCache)
	holidayService := exchapp.NewHolidayService(holidayRepo, dsClient)
	syncService := stockapp.NewPriceSyncService(
		instrumentRepo, priceRepo, syncStateRepo, fetchers, statusService, metricsInstance)
	queryService := stockapp.NewPriceQueryService(
		instrumentRepo, priceRepo, syncStateRepo, priceCache, instrumentCache, fetchers, syncService, metricsInstance)
	statusService.SetResolver(queryService)

	notifier := buildNotifier(ctx, cfg)
	indexService := indexapp.NewIndexService(
		indexRepo, constituentRepo, dsClient, notifier, syncService, metricsInstance)
	fundService := fundapp.NewFundService(fundRepo, dsClient, syncService)

	// 10. 定时任务
	locker := joblock.NewRedisLocker(redisCache)
	runner := jobs.NewRunner(locker, metricsInstance, time.Duration(cfg.Jobs.LockTTL)*time.Second)
	scheduler := jobs.NewScheduler(runner, cfg.Jobs, fundService, indexService, holidayService, tokenStore)
	if cfg.Jobs.Enabled {
		if err := scheduler.Start(); err != nil {
			logger.Fatal(ctx, "Failed to start job scheduler", "error", err)
		}
		defer scheduler.Stop()
	}

	// 11. HTTP 服务器
	httpServer := createHTTPServer(cfg, metricsInstance,
		exchhttp.NewExchangeHandler(statusService, holidayService),
		stockhttp.NewStockHandler(queryService, syncService),
		indexhttp.NewIndexHandler(indexService),
		fundhttp.NewFundHandler(fundService),
	)

	// 12. 启动与优雅关停
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info(ctx, "Starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-sigChan:
			logger.Info(ctx, "Shutting down TradingDataService", "signal", sig.String())
		case <-gctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(ctx, "Service exited with error", "error", err)
	}
	logger.Info(ctx, "TradingDataService stopped")
}

// buildNotifier 按配置选择通知通道
func buildNotifier(ctx context.Context, cfg *config.Config) indexdomain.Notifier {
	if cfg.Notify.Channel == "webhook" {
		return notify.NewWebhookNotifier(cfg.Notify.WebhookURL, cfg.Notify.Receiver)
	}
	producer, err := mq.NewProducer(mq.KafkaConfig{
		Brokers:      cfg.Kafka.Brokers,
		MaxRetries:   cfg.Kafka.MaxRetries,
		RetryBackoff: cfg.Kafka.RetryBackoff,
	})
	if err != nil {
		logger.Fatal(ctx, "Failed to create Kafka producer", "error", err)
	}
	return notify.NewKafkaNotifier(producer, cfg.Notify.Topic)
}

// createHTTPServer 创建 HTTP 服务器并注册全部路由
func createHTTPServer(cfg *config.Config, m *metrics.Metrics, handlers ...interface {
	RegisterRoutes(r *gin.RouterGroup)
}) *http.Server {
	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.HTTPRequestsTotal.Inc()
		m.HTTPRequestDuration.Observe(time.Since(start).Seconds())
	})

	api := router.Group("/api")
	for _, h := range handlers {
		h.RegisterRoutes(api)
	}

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   cfg.ServiceName,
			"timestamp": time.Now().Unix(),
		})
	})

	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeout) * time.Second,
	}
}
