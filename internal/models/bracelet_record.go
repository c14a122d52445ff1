package models

import (
	"time"

	"gorm.io/gorm"
)

// BraceletRecord 手链记录表（订单内每条定制手链一行，保留完整槽位排列）
type BraceletRecord struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderID     uint           `gorm:"index;not null" json:"order_id"`                            // 订单ID
	Size        int            `gorm:"not null" json:"size"`                                      // 槽位数
	TotalPrice  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`  // 手链总价
	Arrangement UintArray      `gorm:"type:json;not null" json:"arrangement"`                     // 有序饰品 ID 排列
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间
}

// TableName 指定表名
func (BraceletRecord) TableName() string {
	return "bracelet_records"
}
