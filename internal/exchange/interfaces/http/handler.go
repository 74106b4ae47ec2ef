package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/tradingdata/internal/exchange/application"
	"github.com/wyfcoding/tradingdata/internal/exchange/domain"
	"github.com/wyfcoding/tradingdata/pkg/logger"
)

type ExchangeHandler struct {
	status   *application.MarketStatusService
	holidays *application.HolidayService
}

func NewExchangeHandler(status *application.MarketStatusService, holidays *application.HolidayService) *ExchangeHandler {
	return &ExchangeHandler{status: status, holidays: holidays}
}

func (h *ExchangeHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1/exchange")
	{
		v1.GET("/status", h.GetMarketStatus)
		v1.GET("/time", h.GetCurrentTime)
		v1.GET("/holiday", h.GetHoliday)
		v1.POST("/holiday/sync", h.SyncHolidays)
	}
}

// GetMarketStatus 按交易所或标的代码查询市场状态
func (h *ExchangeHandler) GetMarketStatus(c *gin.Context) {
	if code := c.Query("code"); code != "" {
		status, err := h.status.EvaluateByCode(c.Request.Context(), code)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": code, "status": status})
		return
	}

	exchange, err := domain.Parse(c.Query("exchange"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := h.status.EvaluateCached(c.Request.Context(), exchange)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exchange": exchange, "status": status})
}

// GetCurrentTime 查询交易所本地当前时间
func (h *ExchangeHandler) GetCurrentTime(c *gin.Context) {
	exchange, err := domain.Parse(c.Query("exchange"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exchange": exchange, "time": h.status.CurrentTime(exchange)})
}

// GetHoliday 查询给定日期是否休市，date 格式 20060102，缺省为今天
func (h *ExchangeHandler) GetHoliday(c *gin.Context) {
	exchange, err := domain.Parse(c.Query("exchange"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	t := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.ParseInLocation("20060102", dateStr, exchange.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyyMMdd"})
			return
		}
		t = parsed
	}

	isHoliday, err := h.holidays.IsHoliday(c.Request.Context(), exchange, t)
	if err != nil {
		if errors.Is(err, domain.ErrExchangeCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exchange": exchange, "is_holiday": isHoliday})
}

// SyncHolidays 触发休市日历同步，后台执行
func (h *ExchangeHandler) SyncHolidays(c *gin.Context) {
	go func() {
		// 请求返回后任务继续运行，不能复用请求 context
		ctx := context.Background()
		if err := h.holidays.SyncHolidays(ctx); err != nil {
			logger.Error(ctx, "holiday sync failed", "error", err)
		}
	}()
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}
