package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/tradingdata/internal/index/application"
	"github.com/wyfcoding/tradingdata/pkg/logger"
)

type IndexHandler struct {
	service *application.IndexService
}

func NewIndexHandler(service *application.IndexService) *IndexHandler {
	return &IndexHandler{service: service}
}

func (h *IndexHandler) RegisterRoutes(r *gin.RouterGroup) {
	v1 := r.Group("/v1/index")
	{
		v1.GET("", h.ListIndexes)
		v1.GET("/constituent", h.ListConstituents)
		v1.POST("/constituent/sync", h.SyncConstituents)
	}
}

// ListIndexes 查询全部指数
func (h *IndexHandler) ListIndexes(c *gin.Context) {
	indexes, err := h.service.ListIndexes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"indexes": indexes})
}

// ListConstituents 查询指数当前成分股名单
func (h *IndexHandler) ListConstituents(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}
	constituents, err := h.service.ListConstituents(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": code, "constituents": constituents})
}

// SyncConstituents 触发全部指数的成分股同步，后台执行
func (h *IndexHandler) SyncConstituents(c *gin.Context) {
	go func() {
		// 请求返回后任务继续运行，不能复用请求 context
		ctx := context.Background()
		if err := h.service.SyncAllConstituents(ctx); err != nil {
			logger.Error(ctx, "constituent sync failed", "error", err)
		}
	}()
	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}
