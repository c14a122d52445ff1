package service

import (
	"strings"

	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/repository"
)

// CategoryNode 目录分类树节点。叶子节点携带饰品列表，
// 含子分类的节点只携带子节点（互斥的两种形态）。
type CategoryNode struct {
	Name          string         `json:"name"`
	Charms        []models.Charm `json:"charms,omitempty"`
	Subcategories []CategoryNode `json:"subcategories,omitempty"`
}

// CatalogService 目录服务
type CatalogService struct {
	charmRepo repository.CharmRepository
}

// NewCatalogService 创建目录服务
func NewCatalogService(charmRepo repository.CharmRepository) *CatalogService {
	return &CatalogService{charmRepo: charmRepo}
}

// List 浏览饰品列表
func (s *CatalogService) List(filter repository.CharmListFilter) ([]models.Charm, int64, error) {
	filter.OnlyActive = true
	return s.charmRepo.List(filter)
}

// Get 获取单个在售饰品
func (s *CatalogService) Get(id uint) (*models.Charm, error) {
	charm, err := s.charmRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if charm == nil || !charm.IsActive {
		return nil, ErrNotFound
	}
	return charm, nil
}

// CategoryTree 全量目录分类树
func (s *CatalogService) CategoryTree() ([]CategoryNode, error) {
	charms, err := s.charmRepo.ListAll(true)
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(charms), nil
}

// BuildCategoryTree 由扁平饰品列表一次性构建分类树（纯函数，不原地修改）。
// 分类与子分类均按首次出现顺序排列。
func BuildCategoryTree(charms []models.Charm) []CategoryNode {
	tree := make([]CategoryNode, 0)
	categoryIndex := make(map[string]int)
	subIndex := make(map[string]map[string]int)

	for _, charm := range charms {
		category := strings.TrimSpace(charm.Category)
		if category == "" {
			category = "Uncategorized"
		}
		idx, ok := categoryIndex[category]
		if !ok {
			idx = len(tree)
			categoryIndex[category] = idx
			subIndex[category] = make(map[string]int)
			tree = append(tree, CategoryNode{Name: category})
		}

		subcategory := strings.TrimSpace(charm.Subcategory)
		if subcategory == "" {
			tree[idx].Charms = append(tree[idx].Charms, charm)
			continue
		}
		subIdx, ok := subIndex[category][subcategory]
		if !ok {
			subIdx = len(tree[idx].Subcategories)
			subIndex[category][subcategory] = subIdx
			tree[idx].Subcategories = append(tree[idx].Subcategories, CategoryNode{Name: subcategory})
		}
		tree[idx].Subcategories[subIdx].Charms = append(tree[idx].Subcategories[subIdx].Charms, charm)
	}
	return tree
}
