package public

import (
	"github.com/charmsmith/internal/http/response"
	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/service"

	"github.com/gin-gonic/gin"
)

// BuilderView 定制会话响应
type BuilderView struct {
	Size       int                     `json:"size"`
	Slots      []*models.Charm         `json:"slots"`
	Armed      *models.Charm           `json:"armed"`
	Breakdown  []service.BreakdownLine `json:"breakdown"`
	TotalPrice models.Money            `json:"total_price"`
}

func builderView(b *service.Builder) BuilderView {
	return BuilderView{
		Size:       b.Size,
		Slots:      b.Slots,
		Armed:      b.Armed,
		Breakdown:  b.PriceBreakdown(),
		TotalPrice: b.TotalPrice(),
	}
}

// GetBuilder 获取当前定制会话
func (h *Handler) GetBuilder(c *gin.Context) {
	b, err := h.BuilderService.Get(cartToken(c))
	if err != nil {
		respondWithMappedError(c, err, builderErrorRules, response.CodeInternal, "builder fetch failed")
		return
	}
	response.Success(c, builderView(b))
}

// SetBuilderSizeRequest 调整尺寸请求
type SetBuilderSizeRequest struct {
	Size int `json:"size" binding:"required"`
}

// SetBuilderSize 调整手链尺寸（会重置设计）
func (h *Handler) SetBuilderSize(c *gin.Context) {
	var req SetBuilderSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	b, err := h.BuilderService.SetSize(cartToken(c), req.Size)
	if err != nil {
		respondWithMappedError(c, err, builderErrorRules, response.CodeInternal, "builder update failed")
		return
	}
	response.Success(c, builderView(b))
}

// BuilderCharmRequest 携带饰品 ID 的定制请求
type BuilderCharmRequest struct {
	CharmID uint `json:"charm_id" binding:"required"`
}

// SetStartingCharm 更换默认填充饰品
func (h *Handler) SetStartingCharm(c *gin.Context) {
	var req BuilderCharmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	b, err := h.BuilderService.SetStartingCharm(cartToken(c), req.CharmID)
	if err != nil {
		respondWithMappedError(c, err, builderErrorRules, response.CodeInternal, "builder update failed")
		return
	}
	response.Success(c, builderView(b))
}

// ArmCharm 备选饰品
func (h *Handler) ArmCharm(c *gin.Context) {
	var req BuilderCharmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	b, err := h.BuilderService.Arm(cartToken(c), req.CharmID)
	if err != nil {
		respondWithMappedError(c, err, builderErrorRules, response.CodeInternal, "builder update failed")
		return
	}
	response.Success(c, builderView(b))
}

// PlaceRequest 放置请求
type PlaceRequest struct {
	Index int `json:"index"`
}

// PlaceCharm 将备选饰品放入槽位（点击放置）
func (h *Handler) PlaceCharm(c *gin.Context) {
	var req PlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	b, err := h.BuilderService.PlaceAt(cartToken(c), req.Index)
	if err != nil {
		respondWithMappedError(c, err, builderErrorRules, response.CodeInternal, "builder update failed")
		return
	}
	response.Success(c, builderView(b))
}

// DragPlaceRequest 拖放请求
type DragPlaceRequest struct {
	CharmID uint `json:"charm_id" binding:"required"`
	Index   int  `json:"index"`
}

// DragPlaceCharm 拖放放置（与点击放置共用同一放置契约，
// 只是不同的事件来源）
func (h *Handler) DragPlaceCharm(c *gin.Context) {
	var req DragPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}
	b, err := h.BuilderService.DragPlace(cartToken(c), req.CharmID, req.Index)
	if err != nil {
		respondWithMappedError(c, err, builderErrorRules, response.CodeInternal, "builder update failed")
		return
	}
	response.Success(c, builderView(b))
}

// FinalizeBuilder 将当前设计入车并重置定制会话
func (h *Handler) FinalizeBuilder(c *gin.Context) {
	token := cartToken(c)
	design, err := h.BuilderService.Snapshot(token)
	if err != nil {
		respondWithMappedError(c, err, builderErrorRules, response.CodeInternal, "builder fetch failed")
		return
	}
	cart, err := h.CartService.AddBracelet(token, design)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	h.BuilderService.Reset(token)
	response.Success(c, cart)
}

// LoadBracelet 将车内手链载回定制会话（重新编辑）
func (h *Handler) LoadBracelet(c *gin.Context) {
	token := cartToken(c)
	design, err := h.CartService.GetBracelet(token, c.Param("id"))
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart fetch failed")
		return
	}
	if err := h.BuilderService.Load(token, design); err != nil {
		respondWithMappedError(c, err, builderErrorRules, response.CodeInternal, "builder update failed")
		return
	}
	b, err := h.BuilderService.Get(token)
	if err != nil {
		respondWithMappedError(c, err, builderErrorRules, response.CodeInternal, "builder fetch failed")
		return
	}
	response.Success(c, builderView(b))
}

// SaveBracelet 用当前定制会话整体替换车内手链（保留原 ID）
func (h *Handler) SaveBracelet(c *gin.Context) {
	token := cartToken(c)
	design, err := h.BuilderService.Snapshot(token)
	if err != nil {
		respondWithMappedError(c, err, builderErrorRules, response.CodeInternal, "builder fetch failed")
		return
	}
	cart, err := h.CartService.EditBracelet(token, c.Param("id"), design)
	if err != nil {
		respondWithMappedError(c, err, cartErrorRules, response.CodeInternal, "cart update failed")
		return
	}
	h.BuilderService.Reset(token)
	response.Success(c, cart)
}
