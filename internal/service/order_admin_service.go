package service

import (
	"strings"
	"time"

	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/repository"
)

// allowedTransitions 订单状态流转表
var allowedTransitions = map[string]map[string]bool{
	constants.OrderStatusAwaitingConfirmation: {
		constants.OrderStatusConfirmed: true,
		constants.OrderStatusCanceled:  true,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusCompleted: true,
		constants.OrderStatusCanceled:  true,
	},
}

// OrderAdminService 订单管理服务
type OrderAdminService struct {
	orderRepo repository.OrderRepository
}

// NewOrderAdminService 创建订单管理服务
func NewOrderAdminService(orderRepo repository.OrderRepository) *OrderAdminService {
	return &OrderAdminService{orderRepo: orderRepo}
}

// List 订单列表
func (s *OrderAdminService) List(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	return s.orderRepo.List(filter)
}

// Get 订单详情
func (s *OrderAdminService) Get(id uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

// UpdateStatus 按流转表更新订单状态
func (s *OrderAdminService) UpdateStatus(id uint, target string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}

	target = strings.ToLower(strings.TrimSpace(target))
	if !isTransitionAllowed(order.Status, target) {
		return nil, ErrStatusTransitionInvalid
	}

	now := time.Now()
	updates := map[string]interface{}{
		"updated_at": now,
	}
	switch target {
	case constants.OrderStatusConfirmed:
		updates["confirmed_at"] = now
	case constants.OrderStatusCanceled:
		updates["canceled_at"] = now
	}
	if err := s.orderRepo.UpdateStatus(order.ID, target, updates); err != nil {
		return nil, err
	}
	return s.orderRepo.GetByID(order.ID)
}

func isTransitionAllowed(current, target string) bool {
	if current == target {
		return true
	}
	nexts, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	return nexts[target]
}
