package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/repository"

	"github.com/shopspring/decimal"
)

// CharmAdminService 饰品库存管理服务
type CharmAdminService struct {
	charmRepo repository.CharmRepository
}

// NewCharmAdminService 创建饰品管理服务
func NewCharmAdminService(charmRepo repository.CharmRepository) *CharmAdminService {
	return &CharmAdminService{charmRepo: charmRepo}
}

// CharmInput 创建/更新饰品输入
type CharmInput struct {
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Subcategory string       `json:"subcategory"`
	Type        string       `json:"type"`
	Price       models.Money `json:"price"`
	Stock       int          `json:"stock"`
	Image       string       `json:"image"`
	IsActive    *bool        `json:"is_active"`
	SortOrder   int          `json:"sort_order"`
}

// List 管理端饰品列表（含下架）
func (s *CharmAdminService) List(filter repository.CharmListFilter) ([]models.Charm, int64, error) {
	return s.charmRepo.List(filter)
}

// Create 创建饰品
func (s *CharmAdminService) Create(input CharmInput) (*models.Charm, error) {
	if err := validateCharmInput(input); err != nil {
		return nil, err
	}
	now := time.Now()
	charm := models.Charm{
		Name:        strings.TrimSpace(input.Name),
		Category:    strings.TrimSpace(input.Category),
		Subcategory: strings.TrimSpace(input.Subcategory),
		Type:        strings.TrimSpace(input.Type),
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       strings.TrimSpace(input.Image),
		IsActive:    true,
		SortOrder:   input.SortOrder,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if input.IsActive != nil {
		charm.IsActive = *input.IsActive
	}
	if err := s.charmRepo.Create(&charm); err != nil {
		return nil, err
	}
	return &charm, nil
}

// Update 更新饰品
func (s *CharmAdminService) Update(id uint, input CharmInput) (*models.Charm, error) {
	charm, err := s.charmRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if charm == nil {
		return nil, ErrNotFound
	}
	if err := validateCharmInput(input); err != nil {
		return nil, err
	}

	charm.Name = strings.TrimSpace(input.Name)
	charm.Category = strings.TrimSpace(input.Category)
	charm.Subcategory = strings.TrimSpace(input.Subcategory)
	charm.Type = strings.TrimSpace(input.Type)
	charm.Price = input.Price
	charm.Stock = input.Stock
	charm.Image = strings.TrimSpace(input.Image)
	charm.SortOrder = input.SortOrder
	if input.IsActive != nil {
		charm.IsActive = *input.IsActive
	}
	charm.UpdatedAt = time.Now()

	if err := s.charmRepo.Update(charm); err != nil {
		return nil, err
	}
	return charm, nil
}

// Delete 删除饰品
func (s *CharmAdminService) Delete(id uint) error {
	charm, err := s.charmRepo.GetByID(id)
	if err != nil {
		return err
	}
	if charm == nil {
		return ErrNotFound
	}
	return s.charmRepo.Delete(id)
}

var charmCSVHeader = []string{"id", "name", "category", "subcategory", "type", "price", "stock", "image", "is_active", "sort_order"}

// ExportCSV 导出全部饰品为 CSV
func (s *CharmAdminService) ExportCSV(w io.Writer) error {
	charms, err := s.charmRepo.ListAll(false)
	if err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(charmCSVHeader); err != nil {
		return err
	}
	for _, charm := range charms {
		record := []string{
			strconv.FormatUint(uint64(charm.ID), 10),
			charm.Name,
			charm.Category,
			charm.Subcategory,
			charm.Type,
			charm.Price.String(),
			strconv.Itoa(charm.Stock),
			charm.Image,
			strconv.FormatBool(charm.IsActive),
			strconv.Itoa(charm.SortOrder),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// ImportCSV 导入饰品 CSV。带 id 的行更新既有饰品，缺 id 的行新建。
// 返回导入行数。
func (s *CharmAdminService) ImportCSV(r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return 0, ErrCSVHeaderInvalid
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"name", "category", "price"} {
		if _, ok := columns[required]; !ok {
			return 0, ErrCSVHeaderInvalid
		}
	}

	field := func(record []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	imported := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, err
		}

		price, err := decimal.NewFromString(field(record, "price"))
		if err != nil {
			return imported, fmt.Errorf("%w: row %d price", ErrCharmPriceInvalid, imported+1)
		}
		stock := constants.StockUnlimited
		if raw := field(record, "stock"); raw != "" {
			stock, err = strconv.Atoi(raw)
			if err != nil {
				return imported, fmt.Errorf("%w: row %d stock", ErrCharmStockInvalid, imported+1)
			}
		}
		isActive := true
		if raw := field(record, "is_active"); raw != "" {
			isActive = strings.EqualFold(raw, "true") || raw == "1"
		}
		sortOrder := 0
		if raw := field(record, "sort_order"); raw != "" {
			sortOrder, _ = strconv.Atoi(raw)
		}

		input := CharmInput{
			Name:        field(record, "name"),
			Category:    field(record, "category"),
			Subcategory: field(record, "subcategory"),
			Type:        field(record, "type"),
			Price:       models.NewMoneyFromDecimal(price),
			Stock:       stock,
			Image:       field(record, "image"),
			IsActive:    &isActive,
			SortOrder:   sortOrder,
		}

		if rawID := field(record, "id"); rawID != "" {
			id, err := strconv.ParseUint(rawID, 10, 64)
			if err != nil {
				return imported, fmt.Errorf("invalid id at row %d: %w", imported+1, err)
			}
			if _, err := s.Update(uint(id), input); err != nil {
				return imported, err
			}
		} else {
			if _, err := s.Create(input); err != nil {
				return imported, err
			}
		}
		imported++
	}
	return imported, nil
}

func validateCharmInput(input CharmInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Category) == "" {
		return ErrCharmNotAvailable
	}
	if input.Price.Decimal.IsNegative() {
		return ErrCharmPriceInvalid
	}
	if input.Stock < constants.StockUnlimited {
		return ErrCharmStockInvalid
	}
	return nil
}
