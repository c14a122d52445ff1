package admin

import (
	"errors"
	"strconv"

	"github.com/charmsmith/internal/http/handlers/shared"
	"github.com/charmsmith/internal/http/response"
	"github.com/charmsmith/internal/service"

	"github.com/gin-gonic/gin"
)

// ListEvents 管理端活动列表
func (h *Handler) ListEvents(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	events, total, err := h.EventService.ListAdmin(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "event list failed", err)
		return
	}
	response.SuccessWithPage(c, events, shared.BuildPagination(page, pageSize, total))
}

// CreateEvent 创建活动
func (h *Handler) CreateEvent(c *gin.Context) {
	var input service.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	event, err := h.EventService.Create(input)
	if err != nil {
		respondEventError(c, err)
		return
	}
	response.Success(c, event)
}

// UpdateEvent 更新活动
func (h *Handler) UpdateEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid event id", nil)
		return
	}
	var input service.EventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	event, err := h.EventService.Update(uint(id), input)
	if err != nil {
		respondEventError(c, err)
		return
	}
	response.Success(c, event)
}

// DeleteEvent 删除活动
func (h *Handler) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid event id", nil)
		return
	}
	if err := h.EventService.Delete(uint(id)); err != nil {
		respondEventError(c, err)
		return
	}
	response.SuccessWithMsg(c, "event deleted", nil)
}

func respondEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "event not found", nil)
	case errors.Is(err, service.ErrEventTitleRequired):
		respondError(c, response.CodeBadRequest, "title is required", nil)
	case errors.Is(err, service.ErrEventTimeInvalid):
		respondError(c, response.CodeBadRequest, "ends_at must not be before starts_at", nil)
	default:
		respondError(c, response.CodeInternal, "event save failed", err)
	}
}
