package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kevinluo6191/XDNMB/internal/model"
	"github.com/kevinluo6191/XDNMB/internal/pkg/response"
	"github.com/kevinluo6191/XDNMB/internal/pkg/util"
	"github.com/kevinluo6191/XDNMB/internal/service"
)

const summaryRunes = 100

// ThreadHandler Thread API Handler
type ThreadHandler struct {
	sdk *service.XdSDK
}

// NewThreadHandler 创建ThreadHandler
func NewThreadHandler(sdk *service.XdSDK) *ThreadHandler {
	return &ThreadHandler{sdk: sdk}
}

// ThreadItem 串列表项：原始字段加上渲染辅助字段
type ThreadItem struct {
	model.Thread
	Summary      string `json:"summary"`
	RelativeTime string `json:"relativeTime,omitempty"`
	ThumbURL     string `json:"thumbUrl,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

func toItem(sdk *service.XdSDK, t model.Thread, inThread bool) ThreadItem {
	item := ThreadItem{Thread: t, Summary: util.Summary(t.Content, summaryRunes)}
	if rel, err := sdk.FormatTime(t.Time, inThread); err == nil {
		item.RelativeTime = rel
	}
	if t.Img != "" {
		item.ThumbURL = sdk.ImgToURL(t.Img, t.Ext, true)
		item.ImageURL = sdk.ImgToURL(t.Img, t.Ext, false)
	}
	return item
}

func toItems(sdk *service.XdSDK, threads []model.Thread, inThread bool) []ThreadItem {
	items := make([]ThreadItem, 0, len(threads))
	for _, t := range threads {
		items = append(items, toItem(sdk, t, inThread))
	}
	return items
}

// Timeline GET /api/v1/timeline?page=&force=
func (h *ThreadHandler) Timeline(c *gin.Context) {
	page := util.Int64OrDefault(c.Query("page"), 1)
	if page < 1 {
		response.BadRequest(c, "invalid page")
		return
	}
	force, _ := strconv.ParseBool(c.Query("force"))

	threads, err := h.sdk.GetTimeLine(c.Request.Context(), force, page)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, gin.H{
		"list": toItems(h.sdk, threads, false),
		"page": page,
	})
}

// ThreadDetail 串详情
type ThreadDetail struct {
	ThreadItem
	Replies []ThreadItem `json:"Replies"`
}

func toDetail(sdk *service.XdSDK, t *model.Thread) ThreadDetail {
	replies := t.Replies
	head := *t
	head.Replies = nil
	return ThreadDetail{
		ThreadItem: toItem(sdk, head, true),
		Replies:    toItems(sdk, replies, true),
	}
}

// Get GET /api/v1/thread/:tid?page=
func (h *ThreadHandler) Get(c *gin.Context) {
	tid, err := util.StrToInt64(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid tid")
		return
	}
	page := util.Int64OrDefault(c.Query("page"), 1)
	if page < 1 {
		response.BadRequest(c, "invalid page")
		return
	}

	thread, err := h.sdk.GetReply(c.Request.Context(), tid, page)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, toDetail(h.sdk, thread))
}

// History GET /api/v1/history
func (h *ThreadHandler) History(c *gin.Context) {
	threads, err := h.sdk.GetHistory(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, toItems(h.sdk, threads, false))
}

// HistoryThread GET /api/v1/history/:tid?page=
func (h *ThreadHandler) HistoryThread(c *gin.Context) {
	tid, err := util.StrToInt64(c.Param("tid"))
	if err != nil {
		response.BadRequest(c, "invalid tid")
		return
	}
	page := util.Int64OrDefault(c.Query("page"), 1)

	thread, err := h.sdk.GetHistoryThread(c.Request.Context(), tid, page)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, toDetail(h.sdk, thread))
}
