package models

import (
	"time"
)

// CartRecord 购物车持久化表（按令牌整体读写序列化的手链列表）
type CartRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`                       // 主键
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`          // 购物车令牌
	Bracelets []byte    `json:"-"`                                          // 序列化的手链快照列表
	CreatedAt time.Time `json:"created_at"`                                 // 创建时间
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`                    // 更新时间
}

// TableName 指定表名
func (CartRecord) TableName() string {
	return "cart_records"
}
