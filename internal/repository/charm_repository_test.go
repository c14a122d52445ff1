package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func openCharmTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Charm{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func seedTestCharm(t *testing.T, db *gorm.DB, stock int) *models.Charm {
	t.Helper()
	charm := &models.Charm{
		Name:     "Bead",
		Category: "Beads",
		Price:    models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		Stock:    stock,
		IsActive: true,
	}
	if err := db.Create(charm).Error; err != nil {
		t.Fatalf("seed charm failed: %v", err)
	}
	return charm
}

func TestDecrementStockConditional(t *testing.T) {
	db := openCharmTestDB(t, "charm_decrement")
	repo := NewCharmRepository(db)
	charm := seedTestCharm(t, db, 5)

	affected, err := repo.DecrementStock(charm.ID, 3)
	if err != nil {
		t.Fatalf("DecrementStock error: %v", err)
	}
	if affected != 1 {
		t.Fatalf("expected 1 row affected, got %d", affected)
	}

	var reloaded models.Charm
	if err := db.First(&reloaded, charm.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Stock != 2 {
		t.Fatalf("expected stock 2, got %d", reloaded.Stock)
	}

	// 剩余 2 再扣 3：条件不满足，0 行受影响且库存不变
	affected, err = repo.DecrementStock(charm.ID, 3)
	if err != nil {
		t.Fatalf("DecrementStock error: %v", err)
	}
	if affected != 0 {
		t.Fatalf("expected 0 rows for insufficient stock, got %d", affected)
	}
	if err := db.First(&reloaded, charm.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Stock != 2 {
		t.Fatalf("stock must be untouched, got %d", reloaded.Stock)
	}
}

func TestDecrementStockSkipsUnlimited(t *testing.T) {
	db := openCharmTestDB(t, "charm_decrement_unlimited")
	repo := NewCharmRepository(db)
	charm := seedTestCharm(t, db, constants.StockUnlimited)

	affected, err := repo.DecrementStock(charm.ID, 3)
	if err != nil {
		t.Fatalf("DecrementStock error: %v", err)
	}
	if affected != 0 {
		t.Fatalf("unlimited stock must not match the conditional update, got %d", affected)
	}

	var reloaded models.Charm
	if err := db.First(&reloaded, charm.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Stock != constants.StockUnlimited {
		t.Fatalf("unlimited sentinel must stay, got %d", reloaded.Stock)
	}
}

func TestDecrementStockRejectsBadParams(t *testing.T) {
	db := openCharmTestDB(t, "charm_decrement_params")
	repo := NewCharmRepository(db)
	if _, err := repo.DecrementStock(0, 1); err == nil {
		t.Fatalf("expected error for zero charm id")
	}
	if _, err := repo.DecrementStock(1, 0); err == nil {
		t.Fatalf("expected error for non-positive quantity")
	}
}
