package repository

import (
	"errors"
	"strings"

	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/models"

	"gorm.io/gorm"
)

// CharmRepository 饰品数据访问接口
type CharmRepository interface {
	List(filter CharmListFilter) ([]models.Charm, int64, error)
	ListAll(onlyActive bool) ([]models.Charm, error)
	GetByID(id uint) (*models.Charm, error)
	ListByIDs(ids []uint) ([]models.Charm, error)
	Create(charm *models.Charm) error
	Update(charm *models.Charm) error
	Delete(id uint) error
	DecrementStock(charmID uint, quantity int) (int64, error)
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) CharmRepository
}

// GormCharmRepository GORM 实现
type GormCharmRepository struct {
	db *gorm.DB
}

// NewCharmRepository 创建饰品仓库
func NewCharmRepository(db *gorm.DB) *GormCharmRepository {
	return &GormCharmRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCharmRepository) WithTx(tx *gorm.DB) CharmRepository {
	if tx == nil {
		return r
	}
	return &GormCharmRepository{db: tx}
}

// Transaction 执行事务
func (r *GormCharmRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// List 饰品列表
func (r *GormCharmRepository) List(filter CharmListFilter) ([]models.Charm, int64, error) {
	var charms []models.Charm

	query := r.db.Model(&models.Charm{})
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("category = ?", category)
	}
	if subcategory := strings.TrimSpace(filter.Subcategory); subcategory != "" {
		query = query.Where("subcategory = ?", subcategory)
	}
	if filter.InStock {
		query = query.Where("stock != 0")
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR category LIKE ? OR subcategory LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	if err := query.Order("sort_order DESC, created_at DESC").Find(&charms).Error; err != nil {
		return nil, 0, err
	}
	return charms, total, nil
}

// ListAll 获取全部饰品（目录分组与下拉选择使用）
func (r *GormCharmRepository) ListAll(onlyActive bool) ([]models.Charm, error) {
	var charms []models.Charm
	query := r.db.Model(&models.Charm{})
	if onlyActive {
		query = query.Where("is_active = ?", true)
	}
	if err := query.Order("sort_order DESC, id ASC").Find(&charms).Error; err != nil {
		return nil, err
	}
	return charms, nil
}

// GetByID 根据 ID 获取饰品
func (r *GormCharmRepository) GetByID(id uint) (*models.Charm, error) {
	var charm models.Charm
	if err := r.db.First(&charm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &charm, nil
}

// ListByIDs 批量获取饰品
func (r *GormCharmRepository) ListByIDs(ids []uint) ([]models.Charm, error) {
	if len(ids) == 0 {
		return []models.Charm{}, nil
	}
	var charms []models.Charm
	if err := r.db.Where("id IN ?", ids).Find(&charms).Error; err != nil {
		return nil, err
	}
	return charms, nil
}

// Create 创建饰品
func (r *GormCharmRepository) Create(charm *models.Charm) error {
	return r.db.Create(charm).Error
}

// Update 更新饰品
func (r *GormCharmRepository) Update(charm *models.Charm) error {
	return r.db.Save(charm).Error
}

// Delete 删除饰品
func (r *GormCharmRepository) Delete(id uint) error {
	return r.db.Delete(&models.Charm{}, id).Error
}

// DecrementStock 条件扣减库存（stock = stock - n WHERE stock >= n）。
// 不限量饰品（stock = -1）不参与扣减；返回受影响行数，0 行表示库存不足。
func (r *GormCharmRepository) DecrementStock(charmID uint, quantity int) (int64, error) {
	if charmID == 0 || quantity <= 0 {
		return 0, errors.New("invalid stock decrement params")
	}
	result := r.db.Model(&models.Charm{}).
		Where("id = ? AND stock != ? AND stock >= ?", charmID, constants.StockUnlimited, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
