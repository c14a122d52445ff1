package service

import (
	"errors"
	"testing"
	"time"

	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/repository"

	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, status string) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:        "CS-test-" + status,
		Status:         status,
		Currency:       "PHP",
		CustomerName:   "Maria",
		Phone:          "09171234567",
		PaymentMethod:  constants.PaymentMethodGcash,
		DeliveryMethod: constants.DeliveryMethodPickup,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	if err := db.Create(order).Error; err != nil {
		t.Fatalf("seed order failed: %v", err)
	}
	return order
}

func TestUpdateStatusFollowsTransitionTable(t *testing.T) {
	db := openTestDB(t, "order_admin_transitions",
		&models.Order{}, &models.OrderItem{}, &models.BraceletRecord{})
	adminService := NewOrderAdminService(repository.NewOrderRepository(db))

	order := seedOrder(t, db, constants.OrderStatusAwaitingConfirmation)
	updated, err := adminService.UpdateStatus(order.ID, constants.OrderStatusConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if updated.Status != constants.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", updated.Status)
	}
	if updated.ConfirmedAt == nil {
		t.Fatalf("expected confirmed_at to be set")
	}

	updated, err = adminService.UpdateStatus(order.ID, constants.OrderStatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus error: %v", err)
	}
	if updated.Status != constants.OrderStatusCompleted {
		t.Fatalf("expected completed, got %s", updated.Status)
	}
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	db := openTestDB(t, "order_admin_illegal",
		&models.Order{}, &models.OrderItem{}, &models.BraceletRecord{})
	adminService := NewOrderAdminService(repository.NewOrderRepository(db))

	order := seedOrder(t, db, constants.OrderStatusAwaitingConfirmation)
	if _, err := adminService.UpdateStatus(order.ID, constants.OrderStatusCompleted); !errors.Is(err, ErrStatusTransitionInvalid) {
		t.Fatalf("expected ErrStatusTransitionInvalid, got %v", err)
	}

	canceled := seedOrder(t, db, constants.OrderStatusCanceled)
	if _, err := adminService.UpdateStatus(canceled.ID, constants.OrderStatusConfirmed); !errors.Is(err, ErrStatusTransitionInvalid) {
		t.Fatalf("expected canceled to be terminal, got %v", err)
	}
}

func TestIsTransitionAllowedSameStatus(t *testing.T) {
	if !isTransitionAllowed(constants.OrderStatusConfirmed, constants.OrderStatusConfirmed) {
		t.Fatalf("same-status update must be allowed")
	}
}
