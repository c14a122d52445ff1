package public

import (
	"errors"

	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/http/handlers/shared"
	"github.com/charmsmith/internal/http/response"
	"github.com/charmsmith/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutRequest 结算请求
type CheckoutRequest struct {
	Customer    service.CustomerInfo `json:"customer"`
	CaptchaID   string               `json:"captcha_id"`
	CaptchaCode string               `json:"captcha_code"`
}

// SubmitCheckout 提交结算。
// 订单落库即成立（awaiting_confirmation），Messenger 交接只是提示性引导。
func (h *Handler) SubmitCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", nil)
		return
	}

	if h.CaptchaService.Required(constants.CaptchaSceneCheckout) {
		if req.CaptchaID == "" || req.CaptchaCode == "" {
			respondError(c, response.CodeBadRequest, "captcha required", nil)
			return
		}
		if !h.CaptchaService.Verify(req.CaptchaID, req.CaptchaCode) {
			respondError(c, response.CodeBadRequest, "captcha invalid", nil)
			return
		}
	}

	result, err := h.CheckoutService.Submit(service.CheckoutInput{
		Token:    cartToken(c),
		Customer: req.Customer,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		var validationErr *service.ValidationError
		if errors.As(err, &validationErr) {
			// 字段错误退回编辑态，由前端就地展示
			shared.RespondErrorWithData(c, response.CodeBadRequest, "validation failed", gin.H{
				"fields": validationErr.Fields,
			})
			return
		}
		var stockErr *service.StockUnavailableError
		if errors.As(err, &stockErr) {
			shared.RespondErrorWithData(c, response.CodeConflict, stockErr.Error(), gin.H{
				"charm_id":   stockErr.CharmID,
				"charm_name": stockErr.CharmName,
				"available":  stockErr.Available,
				"needed":     stockErr.Needed,
			})
			return
		}
		respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "checkout failed")
		return
	}
	response.Success(c, result)
}

// GetCheckoutCaptcha 获取结算验证码
func (h *Handler) GetCheckoutCaptcha(c *gin.Context) {
	if !h.CaptchaService.Required(constants.CaptchaSceneCheckout) {
		response.Success(c, gin.H{"required": false})
		return
	}
	id, image, err := h.CaptchaService.Generate()
	if err != nil {
		respondError(c, response.CodeInternal, "captcha generate failed", err)
		return
	}
	response.Success(c, gin.H{
		"required":   true,
		"captcha_id": id,
		"image":      image,
	})
}
