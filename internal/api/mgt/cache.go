package mgt

import (
	"github.com/gin-gonic/gin"
	"github.com/kevinluo6191/XDNMB/internal/pkg/response"
	"github.com/kevinluo6191/XDNMB/internal/service"
)

// CacheHandler Cache Management API Handler
type CacheHandler struct {
	sdk *service.XdSDK
}

// NewCacheHandler 创建CacheHandler
func NewCacheHandler(sdk *service.XdSDK) *CacheHandler {
	return &CacheHandler{sdk: sdk}
}

// Flush POST /api/mgt/cache/flush
func (h *CacheHandler) Flush(c *gin.Context) {
	if err := h.sdk.FlushCache(c.Request.Context()); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, nil, "cache flushed")
}
