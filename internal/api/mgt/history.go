package mgt

import (
	"github.com/gin-gonic/gin"
	"github.com/kevinluo6191/XDNMB/internal/pkg/response"
	"github.com/kevinluo6191/XDNMB/internal/pkg/util"
	"github.com/kevinluo6191/XDNMB/internal/service"
)

// HistoryHandler 浏览记录管理
type HistoryHandler struct {
	sdk *service.XdSDK
}

// NewHistoryHandler 创建 HistoryHandler
func NewHistoryHandler(sdk *service.XdSDK) *HistoryHandler {
	return &HistoryHandler{sdk: sdk}
}

// Clear DELETE /api/mgt/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.sdk.ClearHistory(c.Request.Context()); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, nil, "history cleared")
}

// ClearThread DELETE /api/mgt/history/:tid/:page
func (h *HistoryHandler) ClearThread(c *gin.Context) {
	tid, err := util.StrToInt64(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid tid")
		return
	}
	page, err := util.StrToInt64(c.Param("page"))
	if err != nil {
		response.BadRequest(c, "invalid page")
		return
	}

	if err := h.sdk.ClearHistoryThread(c.Request.Context(), tid, page); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, nil, "history entry cleared")
}
