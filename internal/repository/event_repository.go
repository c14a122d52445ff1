package repository

import (
	"errors"
	"time"

	"github.com/charmsmith/internal/models"

	"gorm.io/gorm"
)

// EventRepository 活动数据访问接口
type EventRepository interface {
	List(filter EventListFilter) ([]models.Event, int64, error)
	GetByID(id uint) (*models.Event, error)
	Create(event *models.Event) error
	Update(event *models.Event) error
	Delete(id uint) error
}

// GormEventRepository GORM 实现
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository 创建活动仓库
func NewEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// List 活动列表
func (r *GormEventRepository) List(filter EventListFilter) ([]models.Event, int64, error) {
	var events []models.Event
	query := r.db.Model(&models.Event{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Upcoming {
		query = query.Where("ends_at IS NULL OR ends_at >= ?", time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order DESC, starts_at ASC").Find(&events).Error; err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// GetByID 根据 ID 获取活动
func (r *GormEventRepository) GetByID(id uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

// Create 创建活动
func (r *GormEventRepository) Create(event *models.Event) error {
	return r.db.Create(event).Error
}

// Update 更新活动
func (r *GormEventRepository) Update(event *models.Event) error {
	return r.db.Save(event).Error
}

// Delete 删除活动
func (r *GormEventRepository) Delete(id uint) error {
	return r.db.Delete(&models.Event{}, id).Error
}
