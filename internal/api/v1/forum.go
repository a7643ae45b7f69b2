package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kevinluo6191/XDNMB/internal/pkg/response"
	"github.com/kevinluo6191/XDNMB/internal/pkg/util"
	"github.com/kevinluo6191/XDNMB/internal/service"
)

// ForumHandler Forum API Handler
type ForumHandler struct {
	sdk *service.XdSDK
}

// NewForumHandler 创建 ForumHandler
func NewForumHandler(sdk *service.XdSDK) *ForumHandler {
	return &ForumHandler{sdk: sdk}
}

// ForumItem 版块列表项
type ForumItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Msg         string `json:"msg,omitempty"`
}

// GroupItem 版块分组
type GroupItem struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Forums []ForumItem `json:"forums"`
}

// List GET /api/v1/forums?force=
func (h *ForumHandler) List(c *gin.Context) {
	force, _ := strconv.ParseBool(c.Query("force"))

	groups, err := h.sdk.GetForumList(c.Request.Context(), force)
	if err != nil {
		response.Fail(c, err)
		return
	}

	list := make([]GroupItem, 0, len(groups))
	for _, g := range groups {
		item := GroupItem{ID: g.ID, Name: g.Name, Forums: make([]ForumItem, 0, len(g.Forums))}
		for i := range g.Forums {
			f := &g.Forums[i]
			fi := ForumItem{ID: f.ID, Name: f.Name, DisplayName: f.DisplayName()}
			if f.Msg != nil {
				fi.Msg = util.PlainText(*f.Msg)
			}
			item.Forums = append(item.Forums, fi)
		}
		list = append(list, item)
	}
	response.Success(c, list)
}

// Name GET /api/v1/forum/:fid/name
func (h *ForumHandler) Name(c *gin.Context) {
	fid, err := util.StrToInt64(c.Param("fid"))
	if err != nil {
		response.BadRequest(c, "invalid fid")
		return
	}

	name, err := h.sdk.GetForumName(c.Request.Context(), fid)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"fid": fid, "name": name})
}

// Threads GET /api/v1/forum/:fid/threads?page=&force=
func (h *ForumHandler) Threads(c *gin.Context) {
	fid, err := util.StrToInt64(c.Param("fid"))
	if err != nil {
		response.BadRequest(c, "invalid fid")
		return
	}
	page := util.Int64OrDefault(c.Query("page"), 1)
	if page < 1 {
		response.BadRequest(c, "invalid page")
		return
	}
	force, _ := strconv.ParseBool(c.Query("force"))

	threads, err := h.sdk.GetForumThreads(c.Request.Context(), fid, force, page)
	if err != nil {
		response.Fail(c, err)
		return
	}

	response.Success(c, gin.H{
		"list": toItems(h.sdk, threads, false),
		"page": page,
	})
}
