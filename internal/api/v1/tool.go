package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kevinluo6191/XDNMB/internal/pkg/response"
	"github.com/kevinluo6191/XDNMB/internal/service"
)

// ToolHandler 图片地址与时间格式化
type ToolHandler struct {
	sdk *service.XdSDK
}

// NewToolHandler 创建 ToolHandler
func NewToolHandler(sdk *service.XdSDK) *ToolHandler {
	return &ToolHandler{sdk: sdk}
}

// Image GET /api/v1/image?img=&ext=&thumb=
func (h *ToolHandler) Image(c *gin.Context) {
	img := c.Query("img")
	if img == "" {
		response.BadRequest(c, "img is required")
		return
	}
	thumb, _ := strconv.ParseBool(c.Query("thumb"))
	response.Success(c, gin.H{"url": h.sdk.ImgToURL(img, c.Query("ext"), thumb)})
}

// Time GET /api/v1/time?t=&in_thread=
func (h *ToolHandler) Time(c *gin.Context) {
	t := c.Query("t")
	if t == "" {
		response.BadRequest(c, "t is required")
		return
	}
	inThread, _ := strconv.ParseBool(c.Query("in_thread"))

	text, err := h.sdk.FormatTime(t, inThread)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"text": text})
}
