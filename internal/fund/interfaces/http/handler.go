package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/tradingdata/internal/fund/application"
	"github.com/wyfcoding/tradingdata/pkg/logger"
)

type FundHandler struct {
	service *application.FundService
}

func NewFundHandler(service *application.FundService) *FundHandler {
	return &FundHandler{service: service}
}

func (h *FundHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1/fund")
	{
		v1.GET("", h.ListFunds)
		v1.POST("/sync", h.SyncListings)
	}
}

// ListFunds 查询全部基金
func (h *FundHandler) ListFunds(c *gin.Context) {
	funds, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"funds": funds})
}

// SyncListings 触发基金列表同步，后台执行
func (h *FundHandler) SyncListings(c *gin.Context) {
	go func() {
		// 请求返回后任务继续运行，不能复用请求 context
		ctx := context.Background()
		if err := h.service.SyncListings(ctx); err != nil {
			logger.Error(ctx, "fund listing sync failed", "error", err)
		}
	}()
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}
