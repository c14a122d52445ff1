package public

import (
	"github.com/charmsmith/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.CartService.Get(cartToken(c))
	if err != nil {
		respondError(c, response.CodeInternal, "cart fetch failed", err)
		return
	}
	response.Success(c, cart)
}

// AddCharmItemRequest 散装饰品加购请求
type AddCharmItemRequest struct {
	CharmID  uint `json:"charm_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required"`
}

// AddCharmItem 加购散装饰品
func (h *Handler) AddCharmItem(c *gin.Context) {
	var req AddCharmItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	charm, err := h.CatalogService.Get(req.CharmID)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeBadRequest, "charm not available")
		return
	}
	cart, err := h.CartService.AddCharmItem(cartToken(c), *charm, req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, cart)
}

// UpdateCharmItemRequest 散装饰品数量更新请求
type UpdateCharmItemRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateCharmItem 更新散装饰品数量（数量低于 1 即移除）
func (h *Handler) UpdateCharmItem(c *gin.Context) {
	var req UpdateCharmItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	cart, err := h.CartService.UpdateCharmItemQuantity(cartToken(c), c.Param("id"), req.Quantity)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, cart)
}

// RemoveCharmItem 移除散装饰品
func (h *Handler) RemoveCharmItem(c *gin.Context) {
	cart, err := h.CartService.RemoveCharmItem(cartToken(c), c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, cart)
}

// RemoveBracelet 移除车内手链
func (h *Handler) RemoveBracelet(c *gin.Context) {
	cart, err := h.CartService.RemoveBracelet(cartToken(c), c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	response.Success(c, cart)
}

// ClearCart 清空购物车（用户显式操作）
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.CartService.Clear(cartToken(c)); err != nil {
		respondError(c, response.CodeInternal, "cart update failed", err)
		return
	}
	response.SuccessWithMsg(c, "cart cleared", nil)
}
