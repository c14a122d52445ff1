package models

import (
	"time"

	"gorm.io/gorm"
)

// OrderItem 订单项表（同一手链内相同饰品合并为一行）
type OrderItem struct {
	ID         uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderID    uint           `gorm:"index;not null" json:"order_id"`                            // 订单ID
	BraceletID *uint          `gorm:"index" json:"bracelet_id,omitempty"`                        // 所属手链记录ID（散装饰品为空）
	CharmID    uint           `gorm:"index;not null" json:"charm_id"`                            // 饰品ID
	Name       string         `gorm:"type:varchar(200);not null" json:"name"`                    // 名称快照
	UnitPrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`   // 单价快照
	Quantity   int            `gorm:"not null" json:"quantity"`                                  // 数量
	TotalPrice Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`  // 小计
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt  time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
