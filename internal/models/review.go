package models

import (
	"time"

	"gorm.io/gorm"
)

// Review 买家评价表
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`                   // 主键
	Name      string         `gorm:"type:varchar(120);not null" json:"name"` // 署名
	Rating    int            `gorm:"not null" json:"rating"`                 // 评分（1-5）
	Message   string         `gorm:"type:varchar(1000)" json:"message"`      // 内容
	Region    string         `gorm:"type:varchar(120)" json:"region"`        // 来源地区（IP 反查，查询失败留空）
	ClientIP  string         `gorm:"type:varchar(64)" json:"-"`              // 客户端IP
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                         // 软删除时间
}

// TableName 指定表名
func (Review) TableName() string {
	return "reviews"
}
