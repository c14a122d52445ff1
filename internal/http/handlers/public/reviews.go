package public

import (
	"errors"

	"github.com/charmsmith/internal/http/handlers/shared"
	"github.com/charmsmith/internal/http/response"
	"github.com/charmsmith/internal/repository"
	"github.com/charmsmith/internal/service"

	"github.com/gin-gonic/gin"
)

// ListReviews 评价列表
func (h *Handler) ListReviews(c *gin.Context) {
	page, pageSize := shared.ParsePagination(c)
	reviews, total, err := h.ReviewService.List(repository.ReviewListFilter{
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "review list failed", err)
		return
	}
	response.SuccessWithPage(c, reviews, shared.BuildPagination(page, pageSize, total))
}

// CreateReviewRequest 创建评价请求
type CreateReviewRequest struct {
	Name    string `json:"name"`
	Rating  int    `json:"rating" binding:"required"`
	Message string `json:"message"`
}

// CreateReview 创建评价
func (h *Handler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	review, err := h.ReviewService.Create(c.Request.Context(), service.ReviewInput{
		Name:     req.Name,
		Rating:   req.Rating,
		Message:  req.Message,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		if errors.Is(err, service.ErrRatingInvalid) {
			respondError(c, response.CodeBadRequest, "rating must be between 1 and 5", nil)
			return
		}
		respondError(c, response.CodeInternal, "review create failed", err)
		return
	}
	response.Success(c, review)
}
