package public

import (
	"github.com/charmsmith/internal/http/handlers/shared"
	"github.com/charmsmith/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListEvents 前台活动列表
func (h *Handler) ListEvents(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	events, total, err := h.EventService.ListPublic(page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "event list failed", err)
		return
	}
	response.SuccessWithPage(c, events, shared.BuildPagination(page, pageSize, total))
}
