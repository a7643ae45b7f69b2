package mgt

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kevinluo6191/XDNMB/internal/model"
	"github.com/kevinluo6191/XDNMB/internal/pkg/response"
	"github.com/kevinluo6191/XDNMB/internal/service"
)

// CookieHandler 饼干管理
type CookieHandler struct {
	sdk *service.XdSDK
}

// NewCookieHandler 创建 CookieHandler
func NewCookieHandler(sdk *service.XdSDK) *CookieHandler {
	return &CookieHandler{sdk: sdk}
}

// AddCookieRequest 添加饼干请求
type AddCookieRequest struct {
	Cookie string `json:"cookie" binding:"required"`
	Name   string `json:"name"`
}

// List GET /api/mgt/cookies
func (h *CookieHandler) List(c *gin.Context) {
	cookies, err := h.sdk.GetCookies(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, cookies)
}

// Add POST /api/mgt/cookies
func (h *CookieHandler) Add(c *gin.Context) {
	var req AddCookieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	req.Cookie = strings.TrimSpace(req.Cookie)
	if req.Cookie == "" {
		response.BadRequest(c, "cookie is required")
		return
	}

	if err := h.sdk.AddCookie(c.Request.Context(), model.Cookie{Cookie: req.Cookie, Name: req.Name}); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, nil, "cookie added")
}

// Selected GET /api/mgt/cookies/selected
func (h *CookieHandler) Selected(c *gin.Context) {
	cookie, err := h.sdk.GetSelectedCookie(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	if cookie == nil {
		response.NotFound(c, "no cookie selected")
		return
	}
	response.Success(c, cookie)
}

// Delete DELETE /api/mgt/cookies/:cookie
func (h *CookieHandler) Delete(c *gin.Context) {
	if err := h.sdk.DeleteCookie(c.Request.Context(), c.Param("cookie")); err != nil {
		response.Fail(c, err)
		return
	}
	response.SuccessWithMsg(c, nil, "cookie deleted")
}
