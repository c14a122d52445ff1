package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// 业务错误哨兵，handler 层据此映射响应码与文案。
var (
	ErrNotFound                = errors.New("record not found")
	ErrCharmNotAvailable       = errors.New("charm not available")
	ErrCharmPriceInvalid       = errors.New("charm price invalid")
	ErrCharmStockInvalid       = errors.New("charm stock invalid")
	ErrInvalidBraceletSize     = errors.New("bracelet size out of range")
	ErrBraceletNotFound        = errors.New("bracelet not found in cart")
	ErrCartItemNotFound        = errors.New("cart item not found")
	ErrInvalidQuantity         = errors.New("quantity invalid")
	ErrCartEmpty               = errors.New("cart is empty")
	ErrOrderCreateFailed       = errors.New("order create failed")
	ErrInventoryReconciliation = errors.New("order recorded but stock reconcile failed")
	ErrStatusTransitionInvalid = errors.New("order status transition not allowed")
	ErrRatingInvalid           = errors.New("rating out of range")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrCaptchaRequired         = errors.New("captcha required")
	ErrCaptchaInvalid          = errors.New("captcha invalid")
	ErrUploadDisabled          = errors.New("upload disabled")
	ErrUploadTypeInvalid       = errors.New("upload content type not allowed")
	ErrUploadTooLarge          = errors.New("upload exceeds size limit")
	ErrEventTitleRequired      = errors.New("event title required")
	ErrEventTimeInvalid        = errors.New("event time range invalid")
	ErrCSVHeaderInvalid        = errors.New("csv header invalid")
)

// ValidationError 字段级校验错误（可修正，未触达存储层）
type ValidationError struct {
	Fields map[string]string
}

// Error 实现 error 接口
func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidationError 创建字段校验错误
func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// StockUnavailableError 库存不足错误（携带饰品与两侧数量）
type StockUnavailableError struct {
	CharmID   uint
	CharmName string
	Available int
	Needed    int
}

// Error 实现 error 接口
func (e *StockUnavailableError) Error() string {
	return fmt.Sprintf("insufficient stock for %q (id=%d): available=%d needed=%d",
		e.CharmName, e.CharmID, e.Available, e.Needed)
}
