package public

import (
	"errors"

	"github.com/charmsmith/internal/http/response"
	"github.com/charmsmith/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCharmNotAvailable, code: response.CodeBadRequest, msg: "charm not available"},
	{target: service.ErrBraceletNotFound, code: response.CodeNotFound, msg: "bracelet not found in cart"},
	{target: service.ErrCartItemNotFound, code: response.CodeNotFound, msg: "cart item not found"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, msg: "quantity invalid"},
}

var builderErrorRules = []mappedHandlerError{
	{target: service.ErrCharmNotAvailable, code: response.CodeBadRequest, msg: "charm not available"},
	{target: service.ErrInvalidBraceletSize, code: response.CodeBadRequest, msg: "bracelet size out of range"},
	{target: service.ErrBraceletNotFound, code: response.CodeNotFound, msg: "bracelet not found in cart"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, msg: "cart is empty"},
	{target: service.ErrCharmNotAvailable, code: response.CodeBadRequest, msg: "charm not available"},
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, msg: "captcha required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, msg: "captcha invalid"},
	{target: service.ErrOrderCreateFailed, code: response.CodeInternal, msg: "order submit failed, please try again"},
	{target: service.ErrInventoryReconciliation, code: response.CodeInternal, msg: "order recorded but inventory update failed, please contact support instead of retrying"},
}
