package admin

import (
	"strconv"

	"github.com/charmsmith/internal/http/handlers/shared"
	"github.com/charmsmith/internal/http/response"
	"github.com/charmsmith/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListReviews 管理端评价列表
func (h *Handler) ListReviews(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	minRating, _ := strconv.Atoi(c.DefaultQuery("min_rating", "0"))
	reviews, total, err := h.ReviewService.List(repository.ReviewListFilter{
		Page:      page,
		PageSize:  pageSize,
		MinRating: minRating,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "review list failed", err)
		return
	}
	response.SuccessWithPage(c, reviews, shared.BuildPagination(page, pageSize, total))
}

// DeleteReview 删除评价
func (h *Handler) DeleteReview(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "invalid review id", nil)
		return
	}
	if err := h.ReviewService.Delete(uint(id)); err != nil {
		respondError(c, response.CodeInternal, "review delete failed", err)
		return
	}
	response.SuccessWithMsg(c, "review deleted", nil)
}
