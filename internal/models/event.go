package models

import (
	"time"

	"gorm.io/gorm"
)

// Event 活动表（快闪摊位/市集档期）
type Event struct {
	ID          uint           `gorm:"primarykey" json:"id"`                    // 主键
	Title       string         `gorm:"type:varchar(200);not null" json:"title"` // 标题
	Description string         `gorm:"type:varchar(1000)" json:"description"`   // 描述
	Venue       string         `gorm:"type:varchar(300)" json:"venue"`          // 地点
	Image       string         `gorm:"type:varchar(500)" json:"image"`          // 海报图片
	StartsAt    *time.Time     `gorm:"index" json:"starts_at"`                  // 开始时间
	EndsAt      *time.Time     `gorm:"index" json:"ends_at"`                    // 结束时间
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`     // 是否展示
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`       // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                 // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                              // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                          // 软删除时间
}

// TableName 指定表名
func (Event) TableName() string {
	return "events"
}
