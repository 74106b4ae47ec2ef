package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/tradingdata/internal/stock/application"
	"github.com/wyfcoding/tradingdata/internal/stock/domain"
)

type StockHandler struct {
	query *application.PriceQueryService
	sync  *application.PriceSyncService
}

func NewStockHandler(query *application.PriceQueryService, sync *application.PriceSyncService) *StockHandler {
	return &StockHandler{query: query, sync: sync}
}

func (h *StockHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1/stock")
	{
		v1.GET("/instrument", h.GetInstrument)
		v1.GET("/price/daily", h.GetDailyPrices)
		v1.GET("/price/spot", h.GetSpotPrice)
		v1.POST("/price/sync", h.SyncDailyPrices)
	}
}

// GetInstrument 查询标的信息
func (h *StockHandler) GetInstrument(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}
	inst, err := h.query.GetInstrument(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inst)
}

// GetDailyPrices 查询日线，cache=false 时绕过结果缓存
func (h *StockHandler) GetDailyPrices(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}
	useCache := c.DefaultQuery("cache", "true") != "false"

	bars, err := h.query.GetDailyPrices(c.Request.Context(), code, useCache)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code, "prices": bars})
}

// GetSpotPrice 查询实时报价
func (h *StockHandler) GetSpotPrice(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}
	spot, err := h.query.GetSpotPrice(c.Request.Context(), code)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, spot)
}

// SyncDailyPrices 同步触发单标的日线同步
func (h *StockHandler) SyncDailyPrices(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}
	if err := h.sync.SyncDailyPrices(c.Request.Context(), code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code, "status": "synced"})
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInstrumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNoFetcher):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
