package constants

// 订单状态常量
const (
	OrderStatusAwaitingConfirmation = "awaiting_confirmation"
	OrderStatusConfirmed            = "confirmed"
	OrderStatusCompleted            = "completed"
	OrderStatusCanceled             = "canceled"
)

// 支付方式常量（人工收款，实际转账在 Messenger 对话中完成）
const (
	PaymentMethodGcash        = "gcash"
	PaymentMethodMaya         = "maya"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodCOD          = "cod"
)

// 配送方式常量
const (
	DeliveryMethodPickup  = "pickup"
	DeliveryMethodCourier = "courier"
)

// PaymentMethodLabels 支付方式展示文案（交接摘要使用）
var PaymentMethodLabels = map[string]string{
	PaymentMethodGcash:        "GCash",
	PaymentMethodMaya:         "Maya",
	PaymentMethodBankTransfer: "Bank Transfer",
	PaymentMethodCOD:          "Cash on Delivery",
}

// DeliveryMethodLabels 配送方式展示文案
var DeliveryMethodLabels = map[string]string{
	DeliveryMethodPickup:  "Pick-up",
	DeliveryMethodCourier: "Courier",
}

// 库存常量
const (
	// StockUnlimited 库存哨兵值（-1 表示不限量，不参与校验与扣减）
	StockUnlimited = -1
)

// 手链尺寸常量（槽位数）
const (
	BraceletSizeMin     = 17
	BraceletSizeMax     = 24
	BraceletSizeDefault = 17
)

// 校验规则常量
const (
	PhoneDigitsMin = 10
	PhoneDigitsMax = 11
	ZipDigits      = 4
)

// 验证码场景常量
const (
	CaptchaSceneCheckout = "checkout"
)

// 站点默认值
const (
	SiteCurrencyDefault = "PHP"
)
