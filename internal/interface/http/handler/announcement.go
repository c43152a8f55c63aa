package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/wenjun/bookshop/internal/infrastructure/persistence/redis"
	"github.com/wenjun/bookshop/internal/interface/http/dto"
	"github.com/wenjun/bookshop/pkg/response"
)

// AnnouncementHandler 店内公告HTTP处理器
// 大厅屏幕轮询此接口展示最近的下单/取书动态
type AnnouncementHandler struct {
	broadcastLog *redis.BroadcastLog
}

// NewAnnouncementHandler 创建公告处理器
func NewAnnouncementHandler(broadcastLog *redis.BroadcastLog) *AnnouncementHandler {
	return &AnnouncementHandler{broadcastLog: broadcastLog}
}

// Recent 最近公告
// @Summary      店内公告
// @Description  公开接口:按时间倒序返回最近的下单/取书公告(最多100条)
// @Tags         公告
// @Produce      json
// @Param        limit query int false "返回条数(默认10,最大100)"
// @Success      200 {object} response.Response{data=[]dto.AnnouncementItem}
// @Router       /api/v1/announcements [get]
func (h *AnnouncementHandler) Recent(c *gin.Context) {
	var req dto.AnnouncementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	entries, err := h.broadcastLog.Recent(c.Request.Context(), req.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.AnnouncementItem, len(entries))
	for i, entry := range entries {
		list[i] = dto.AnnouncementItem{
			Message:    entry.Message,
			OccurredAt: entry.OccurredAt.Format("2006-01-02 15:04:05"),
		}
	}

	response.Success(c, list)
}
