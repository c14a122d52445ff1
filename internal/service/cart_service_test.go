package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T, name string, entities ...interface{}) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(entities...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func designWithSlots(slots ...*models.Charm) BraceletDesign {
	return BraceletDesign{
		Size:       len(slots),
		Slots:      slots,
		TotalPrice: models.NewMoneyFromDecimal(SlotsTotal(slots)),
	}
}

func TestCartSubtotalInvariant(t *testing.T) {
	db := openTestDB(t, "cart_subtotal", &models.CartRecord{})
	cartService := NewCartService(repository.NewCartRepository(db))
	token := "tok-subtotal"

	// 两条手链 300 + 450，散装饰品 20 x 3
	b1 := make([]*models.Charm, 10)
	for i := range b1 {
		b1[i] = charmWithPrice(1, "Bead", "30")
	}
	b2 := make([]*models.Charm, 6)
	for i := range b2 {
		b2[i] = charmWithPrice(2, "Moon", "75")
	}
	if _, err := cartService.AddBracelet(token, designWithSlots(b1...)); err != nil {
		t.Fatalf("AddBracelet error: %v", err)
	}
	if _, err := cartService.AddBracelet(token, designWithSlots(b2...)); err != nil {
		t.Fatalf("AddBracelet error: %v", err)
	}
	if _, err := cartService.AddCharmItem(token, *charmWithPrice(3, "Eye", "20"), 3); err != nil {
		t.Fatalf("AddCharmItem error: %v", err)
	}

	subtotal, err := cartService.Subtotal(token)
	if err != nil {
		t.Fatalf("Subtotal error: %v", err)
	}
	if subtotal.String() != "810.00" {
		t.Fatalf("expected subtotal 810.00, got %s", subtotal.String())
	}

	cart, err := cartService.Get(token)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if _, err := cartService.RemoveBracelet(token, cart.Bracelets[0].ID); err != nil {
		t.Fatalf("RemoveBracelet error: %v", err)
	}
	subtotal, _ = cartService.Subtotal(token)
	if subtotal.String() != "510.00" {
		t.Fatalf("expected subtotal 510.00 after removal, got %s", subtotal.String())
	}
}

func TestAddCharmItemClampsQuantityToStock(t *testing.T) {
	db := openTestDB(t, "cart_clamp", &models.CartRecord{})
	cartService := NewCartService(repository.NewCartRepository(db))
	token := "tok-clamp"

	limited := charmWithPrice(7, "Charm Y", "50")
	limited.Stock = 5

	cart, err := cartService.AddCharmItem(token, *limited, 2)
	if err != nil {
		t.Fatalf("AddCharmItem error: %v", err)
	}
	itemID := cart.CharmItems[0].CartItemID

	cart, err = cartService.UpdateCharmItemQuantity(token, itemID, 7)
	if err != nil {
		t.Fatalf("UpdateCharmItemQuantity error: %v", err)
	}
	if cart.CharmItems[0].Quantity != 5 {
		t.Fatalf("expected quantity clamped to 5, got %d", cart.CharmItems[0].Quantity)
	}

	cart, err = cartService.AddCharmItem(token, *limited, 99)
	if err != nil {
		t.Fatalf("AddCharmItem error: %v", err)
	}
	if cart.CharmItems[1].Quantity != 5 {
		t.Fatalf("expected add quantity clamped to 5, got %d", cart.CharmItems[1].Quantity)
	}
}

func TestUpdateCharmItemQuantityBelowOneRemoves(t *testing.T) {
	db := openTestDB(t, "cart_remove_on_zero", &models.CartRecord{})
	cartService := NewCartService(repository.NewCartRepository(db))
	token := "tok-zero"

	cart, err := cartService.AddCharmItem(token, *charmWithPrice(7, "Charm Y", "50"), 2)
	if err != nil {
		t.Fatalf("AddCharmItem error: %v", err)
	}
	itemID := cart.CharmItems[0].CartItemID

	cart, err = cartService.UpdateCharmItemQuantity(token, itemID, 0)
	if err != nil {
		t.Fatalf("UpdateCharmItemQuantity error: %v", err)
	}
	if len(cart.CharmItems) != 0 {
		t.Fatalf("expected item removed when quantity drops below 1, got %d items", len(cart.CharmItems))
	}
}

func TestAddCharmItemNeverMergesRepeatedAdds(t *testing.T) {
	db := openTestDB(t, "cart_no_merge", &models.CartRecord{})
	cartService := NewCartService(repository.NewCartRepository(db))
	token := "tok-no-merge"

	charm := charmWithPrice(7, "Charm Y", "50")
	if _, err := cartService.AddCharmItem(token, *charm, 1); err != nil {
		t.Fatalf("AddCharmItem error: %v", err)
	}
	cart, err := cartService.AddCharmItem(token, *charm, 2)
	if err != nil {
		t.Fatalf("AddCharmItem error: %v", err)
	}
	if len(cart.CharmItems) != 2 {
		t.Fatalf("repeated adds must stay separate entries, got %d", len(cart.CharmItems))
	}
	if cart.CharmItems[0].CartItemID == cart.CharmItems[1].CartItemID {
		t.Fatalf("entries must have distinct cart item ids")
	}
}

func TestAddCharmItemRejectsSoldOut(t *testing.T) {
	db := openTestDB(t, "cart_sold_out", &models.CartRecord{})
	cartService := NewCartService(repository.NewCartRepository(db))

	soldOut := charmWithPrice(7, "Charm Y", "50")
	soldOut.Stock = 0
	if _, err := cartService.AddCharmItem("tok-sold-out", *soldOut, 1); err != ErrCharmNotAvailable {
		t.Fatalf("expected ErrCharmNotAvailable, got %v", err)
	}
}

func TestAddBraceletSnapshotsDesign(t *testing.T) {
	db := openTestDB(t, "cart_snapshot", &models.CartRecord{})
	cartService := NewCartService(repository.NewCartRepository(db))
	token := "tok-snapshot"

	slots := []*models.Charm{charmWithPrice(1, "Bead", "30")}
	design := designWithSlots(slots...)
	cart, err := cartService.AddBracelet(token, design)
	if err != nil {
		t.Fatalf("AddBracelet error: %v", err)
	}

	// 入车后修改原设计的槽位，车内条目不受影响
	slots[0] = charmWithPrice(2, "Moon", "75")
	cart, err = cartService.Get(token)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if cart.Bracelets[0].Slots[0].ID != 1 {
		t.Fatalf("cart entry must be isolated from later design mutation")
	}
}

func TestEditBraceletPreservesID(t *testing.T) {
	db := openTestDB(t, "cart_edit", &models.CartRecord{})
	cartService := NewCartService(repository.NewCartRepository(db))
	token := "tok-edit"

	cart, err := cartService.AddBracelet(token, designWithSlots(charmWithPrice(1, "Bead", "30")))
	if err != nil {
		t.Fatalf("AddBracelet error: %v", err)
	}
	originalID := cart.Bracelets[0].ID

	replacement := designWithSlots(charmWithPrice(2, "Moon", "75"), charmWithPrice(2, "Moon", "75"))
	cart, err = cartService.EditBracelet(token, originalID, replacement)
	if err != nil {
		t.Fatalf("EditBracelet error: %v", err)
	}
	if cart.Bracelets[0].ID != originalID {
		t.Fatalf("edit must preserve the original id")
	}
	if cart.Bracelets[0].TotalPrice.String() != "150.00" {
		t.Fatalf("edit must recompute total, got %s", cart.Bracelets[0].TotalPrice.String())
	}
}

func TestCartRoundTripThroughStorage(t *testing.T) {
	db := openTestDB(t, "cart_roundtrip", &models.CartRecord{})
	cartRepo := repository.NewCartRepository(db)
	token := "tok-roundtrip"

	first := NewCartService(cartRepo)
	if _, err := first.AddBracelet(token, designWithSlots(
		charmWithPrice(1, "Bead", "30"),
		charmWithPrice(2, "Moon", "75"),
	)); err != nil {
		t.Fatalf("AddBracelet error: %v", err)
	}
	if _, err := first.AddBracelet(token, designWithSlots(charmWithPrice(3, "Eye", "65"))); err != nil {
		t.Fatalf("AddBracelet error: %v", err)
	}
	expected, err := first.Get(token)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	// 新实例模拟会话重建，从持久层回灌
	second := NewCartService(cartRepo)
	got, err := second.Get(token)
	if err != nil {
		t.Fatalf("rehydrated Get error: %v", err)
	}
	if len(got.Bracelets) != len(expected.Bracelets) {
		t.Fatalf("expected %d bracelets after reload, got %d", len(expected.Bracelets), len(got.Bracelets))
	}
	for i := range expected.Bracelets {
		if got.Bracelets[i].ID != expected.Bracelets[i].ID {
			t.Fatalf("bracelet order/id mismatch at %d", i)
		}
		if got.Bracelets[i].TotalPrice.String() != expected.Bracelets[i].TotalPrice.String() {
			t.Fatalf("bracelet total mismatch at %d", i)
		}
		if len(got.Bracelets[i].Slots) != len(expected.Bracelets[i].Slots) {
			t.Fatalf("bracelet slots mismatch at %d", i)
		}
	}
	// 散装饰品仅存会话，不参与持久化
	if len(got.CharmItems) != 0 {
		t.Fatalf("charm items must not survive rehydration, got %d", len(got.CharmItems))
	}
}

func TestCartRehydrateSwallowsCorruptPayload(t *testing.T) {
	db := openTestDB(t, "cart_corrupt", &models.CartRecord{})
	cartRepo := repository.NewCartRepository(db)
	token := "tok-corrupt"

	if err := cartRepo.Save(token, []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt payload failed: %v", err)
	}
	cartService := NewCartService(cartRepo)
	cart, err := cartService.Get(token)
	if err != nil {
		t.Fatalf("corrupt payload must not be fatal: %v", err)
	}
	if len(cart.Bracelets) != 0 || len(cart.CharmItems) != 0 {
		t.Fatalf("expected empty cart after corrupt payload")
	}
}

func TestClearEmptiesBothCollections(t *testing.T) {
	db := openTestDB(t, "cart_clear", &models.CartRecord{})
	cartService := NewCartService(repository.NewCartRepository(db))
	token := "tok-clear"

	if _, err := cartService.AddBracelet(token, designWithSlots(charmWithPrice(1, "Bead", "30"))); err != nil {
		t.Fatalf("AddBracelet error: %v", err)
	}
	if _, err := cartService.AddCharmItem(token, *charmWithPrice(3, "Eye", "65"), 2); err != nil {
		t.Fatalf("AddCharmItem error: %v", err)
	}
	if err := cartService.Clear(token); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	cart, err := cartService.Get(token)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if len(cart.Bracelets) != 0 || len(cart.CharmItems) != 0 {
		t.Fatalf("expected empty cart after clear")
	}
	if !cart.Subtotal.IsZero() {
		t.Fatalf("expected zero subtotal after clear, got %s", cart.Subtotal.String())
	}
}
