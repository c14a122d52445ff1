package repository

import (
	"errors"
	"time"

	"github.com/charmsmith/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车持久化接口（整值读写）
type CartRepository interface {
	GetByToken(token string) (*models.CartRecord, error)
	Save(token string, bracelets []byte) error
	DeleteByToken(token string) error
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// GetByToken 读取购物车记录
func (r *GormCartRepository) GetByToken(token string) (*models.CartRecord, error) {
	var record models.CartRecord
	if err := r.db.Where("token = ?", token).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// Save 整值写入序列化的手链列表
func (r *GormCartRepository) Save(token string, bracelets []byte) error {
	now := time.Now()
	var existing models.CartRecord
	err := r.db.Where("token = ?", token).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(&models.CartRecord{
			Token:     token,
			Bracelets: bracelets,
			CreatedAt: now,
			UpdatedAt: now,
		}).Error
	}
	if err != nil {
		return err
	}
	return r.db.Model(&existing).Updates(map[string]interface{}{
		"bracelets":  bracelets,
		"updated_at": now,
	}).Error
}

// DeleteByToken 删除购物车记录
func (r *GormCartRepository) DeleteByToken(token string) error {
	return r.db.Where("token = ?", token).Delete(&models.CartRecord{}).Error
}
