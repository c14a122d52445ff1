package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表（一次结算产生一条订单）
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                    // 主键
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"order_no"`                    // 订单编号
	Status         string         `gorm:"index;not null" json:"status"`                            // 订单状态
	Currency       string         `gorm:"not null" json:"currency"`                                // 币种
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 实付金额
	CustomerName   string         `gorm:"type:varchar(120);not null" json:"customer_name"`         // 客户姓名
	Phone          string         `gorm:"type:varchar(32);not null;index" json:"phone"`            // 联系电话
	Email          string         `gorm:"type:varchar(200)" json:"email,omitempty"`                // 邮箱（可空）
	HouseNumber    string         `gorm:"type:varchar(60)" json:"house_number"`                    // 门牌号
	Street         string         `gorm:"type:varchar(200)" json:"street,omitempty"`               // 街道（可空）
	Barangay       string         `gorm:"type:varchar(120)" json:"barangay"`                       // 描笼涯
	City           string         `gorm:"type:varchar(120)" json:"city"`                           // 城市
	Province       string         `gorm:"type:varchar(120)" json:"province"`                       // 省份
	Region         string         `gorm:"type:varchar(120)" json:"region"`                         // 大区
	Zip            string         `gorm:"type:varchar(8)" json:"zip"`                              // 邮编（4 位）
	PaymentMethod  string         `gorm:"type:varchar(30);not null" json:"payment_method"`         // 支付方式
	DeliveryMethod string         `gorm:"type:varchar(30);not null" json:"delivery_method"`        // 配送方式
	Notes          string         `gorm:"type:varchar(500)" json:"notes,omitempty"`                // 备注（可空）
	ClientIP       string         `gorm:"type:varchar(64)" json:"client_ip,omitempty"`             // 下单客户端IP
	ConfirmedAt    *time.Time     `gorm:"index" json:"confirmed_at"`                               // 确认时间
	CanceledAt     *time.Time     `gorm:"index" json:"canceled_at"`                                // 取消时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                 // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间

	// 关联
	Items     []OrderItem      `gorm:"foreignKey:OrderID" json:"items,omitempty"`     // 订单项（按饰品聚合）
	Bracelets []BraceletRecord `gorm:"foreignKey:OrderID" json:"bracelets,omitempty"` // 手链记录
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
