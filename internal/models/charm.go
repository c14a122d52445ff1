package models

import (
	"time"

	"github.com/charmsmith/internal/constants"

	"gorm.io/gorm"
)

// Charm 饰品表（目录实体）
type Charm struct {
	ID          uint           `gorm:"primarykey" json:"id"`                              // 主键
	Name        string         `gorm:"not null;index" json:"name"`                        // 名称
	Category    string         `gorm:"type:varchar(100);not null;index" json:"category"`  // 分类
	Subcategory string         `gorm:"type:varchar(100);index" json:"subcategory"`        // 子分类（可空）
	Type        string         `gorm:"type:varchar(100)" json:"type,omitempty"`           // 材质/类型（可空）
	Price       Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Stock       int            `gorm:"not null;default:-1" json:"stock"`                  // 库存（-1 表示不限量）
	Image       string         `gorm:"type:varchar(500)" json:"image"`                    // 图片地址
	IsActive    bool           `gorm:"default:true;index" json:"is_active"`               // 是否上架
	SortOrder   int            `gorm:"default:0;index" json:"sort_order"`                 // 排序权重
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                           // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                        // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                    // 软删除时间
}

// TableName 指定表名
func (Charm) TableName() string {
	return "charms"
}

// HasLimitedStock 是否启用库存控制
func (c Charm) HasLimitedStock() bool {
	return c.Stock != constants.StockUnlimited
}

// Snapshot 返回饰品快照副本（购物车/订单持有副本，后续目录变更不回溯）
func (c Charm) Snapshot() Charm {
	copied := c
	return copied
}
