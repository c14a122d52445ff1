package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/repository"

	"gorm.io/gorm"
)

func newCheckoutFixture(t *testing.T, name string) (*CheckoutService, *CartService, repository.CharmRepository, *gorm.DB) {
	t.Helper()
	db := openTestDB(t, name,
		&models.Charm{},
		&models.Order{},
		&models.OrderItem{},
		&models.BraceletRecord{},
		&models.CartRecord{},
	)
	models.DB = db

	charmRepo := repository.NewCharmRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	cartService := NewCartService(repository.NewCartRepository(db))
	checkout := NewCheckoutService(charmRepo, orderRepo, cartService, nil, "PHP", "Charmsmith", "charmsmith.ph")
	return checkout, cartService, charmRepo, db
}

func seedCharm(t *testing.T, db *gorm.DB, charm *models.Charm) *models.Charm {
	t.Helper()
	charm.IsActive = true
	if err := db.Create(charm).Error; err != nil {
		t.Fatalf("seed charm failed: %v", err)
	}
	return charm
}

func validCustomer() CustomerInfo {
	return CustomerInfo{
		Name:           "Maria Santos",
		Phone:          "0917-123-4567",
		Email:          "maria@example.com",
		HouseNumber:    "12B",
		Street:         "Sampaguita St",
		Barangay:       "San Isidro",
		City:           "Quezon City",
		Province:       "Metro Manila",
		Region:         "NCR",
		Zip:            "1100",
		PaymentMethod:  constants.PaymentMethodGcash,
		DeliveryMethod: constants.DeliveryMethodCourier,
	}
}

func countOrders(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Order{}).Count(&count).Error; err != nil {
		t.Fatalf("count orders failed: %v", err)
	}
	return count
}

func TestSubmitRejectsMissingRequiredFields(t *testing.T) {
	checkout, _, _, db := newCheckoutFixture(t, "checkout_required")

	customer := validCustomer()
	customer.Name = ""
	customer.Barangay = ""
	_, err := checkout.Submit(CheckoutInput{Token: "tok", Customer: customer})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Fields["name"] == "" || validationErr.Fields["barangay"] == "" {
		t.Fatalf("expected per-field errors, got %+v", validationErr.Fields)
	}
	if countOrders(t, db) != 0 {
		t.Fatalf("validation failure must not touch storage")
	}
}

func TestSubmitValidatesPhoneAndZipFormats(t *testing.T) {
	checkout, _, _, _ := newCheckoutFixture(t, "checkout_formats")

	customer := validCustomer()
	customer.Phone = "12345"
	customer.Zip = "11000"
	_, err := checkout.Submit(CheckoutInput{Token: "tok", Customer: customer})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Fields["phone"] == "" {
		t.Fatalf("expected phone error, got %+v", validationErr.Fields)
	}
	if validationErr.Fields["zip"] == "" {
		t.Fatalf("expected zip error, got %+v", validationErr.Fields)
	}
}

func TestSubmitAcceptsFormattedPhone(t *testing.T) {
	if fields := validateCustomer(validCustomer()); len(fields) != 0 {
		t.Fatalf("expected valid customer to pass, got %+v", fields)
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	checkout, _, _, _ := newCheckoutFixture(t, "checkout_empty")
	if _, err := checkout.Submit(CheckoutInput{Token: "tok-empty", Customer: validCustomer()}); !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

// 场景：饰品 Z 需求 3、现库存 2，提交必须整体中止且零订单写入，
// 错误指明饰品与两侧数量。
func TestSubmitAbortsOnInsufficientStock(t *testing.T) {
	checkout, cartService, _, db := newCheckoutFixture(t, "checkout_insufficient")
	charmZ := seedCharm(t, db, &models.Charm{Name: "Charm Z", Category: "Beads",
		Price: charmWithPrice(0, "", "50").Price, Stock: 2})

	token := "tok-insufficient"
	if _, err := cartService.AddBracelet(token, designWithSlots(
		&models.Charm{ID: charmZ.ID, Name: charmZ.Name, Price: charmZ.Price, Stock: charmZ.Stock},
	)); err != nil {
		t.Fatalf("AddBracelet error: %v", err)
	}
	if _, err := cartService.AddCharmItem(token, *charmZ, 2); err != nil {
		t.Fatalf("AddCharmItem error: %v", err)
	}

	_, err := checkout.Submit(CheckoutInput{Token: token, Customer: validCustomer()})
	var stockErr *StockUnavailableError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected StockUnavailableError, got %v", err)
	}
	if stockErr.CharmID != charmZ.ID || stockErr.Available != 2 || stockErr.Needed != 3 {
		t.Fatalf("unexpected stock error payload: %+v", stockErr)
	}
	if countOrders(t, db) != 0 {
		t.Fatalf("stock failure must leave zero order rows")
	}

	var charm models.Charm
	if err := db.First(&charm, charmZ.ID).Error; err != nil {
		t.Fatalf("reload charm failed: %v", err)
	}
	if charm.Stock != 2 {
		t.Fatalf("stock must be untouched on abort, got %d", charm.Stock)
	}
}

func TestSubmitCreatesOrdersAndDecrementsStock(t *testing.T) {
	checkout, cartService, _, db := newCheckoutFixture(t, "checkout_success")
	bead := seedCharm(t, db, &models.Charm{Name: "Bead", Category: "Beads",
		Price: charmWithPrice(0, "", "30").Price, Stock: 50})
	moon := seedCharm(t, db, &models.Charm{Name: "Moon", Category: "Pendants",
		Price: charmWithPrice(0, "", "75").Price, Stock: 10})
	unlimited := seedCharm(t, db, &models.Charm{Name: "Eye", Category: "Pendants",
		Price: charmWithPrice(0, "", "65").Price, Stock: constants.StockUnlimited})

	token := "tok-success"
	// 手链：2x bead + 1x moon，散装：moon x1 + unlimited x2
	if _, err := cartService.AddBracelet(token, designWithSlots(
		&models.Charm{ID: bead.ID, Name: bead.Name, Price: bead.Price, Stock: bead.Stock},
		&models.Charm{ID: moon.ID, Name: moon.Name, Price: moon.Price, Stock: moon.Stock},
		&models.Charm{ID: bead.ID, Name: bead.Name, Price: bead.Price, Stock: bead.Stock},
	)); err != nil {
		t.Fatalf("AddBracelet error: %v", err)
	}
	if _, err := cartService.AddCharmItem(token, *moon, 1); err != nil {
		t.Fatalf("AddCharmItem error: %v", err)
	}
	if _, err := cartService.AddCharmItem(token, *unlimited, 2); err != nil {
		t.Fatalf("AddCharmItem error: %v", err)
	}

	result, err := checkout.Submit(CheckoutInput{Token: token, Customer: validCustomer(), ClientIP: "203.0.113.7"})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	// 每条手链一张订单 + 散装一张
	if len(result.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(result.Orders))
	}
	if result.Orders[0].Status != constants.OrderStatusAwaitingConfirmation {
		t.Fatalf("expected awaiting_confirmation, got %s", result.Orders[0].Status)
	}
	if result.Orders[0].TotalAmount.String() != "135.00" {
		t.Fatalf("expected bracelet order total 135.00, got %s", result.Orders[0].TotalAmount.String())
	}
	if result.Orders[1].TotalAmount.String() != "205.00" {
		t.Fatalf("expected items order total 205.00, got %s", result.Orders[1].TotalAmount.String())
	}
	if result.TotalAmount.String() != "340.00" {
		t.Fatalf("expected aggregate total 340.00, got %s", result.TotalAmount.String())
	}

	// 手链记录保留完整排列
	var record models.BraceletRecord
	if err := db.Where("order_id = ?", result.Orders[0].ID).First(&record).Error; err != nil {
		t.Fatalf("load bracelet record failed: %v", err)
	}
	if record.Size != 3 || len(record.Arrangement) != 3 {
		t.Fatalf("unexpected bracelet record: %+v", record)
	}
	if record.Arrangement[0] != bead.ID || record.Arrangement[1] != moon.ID || record.Arrangement[2] != bead.ID {
		t.Fatalf("arrangement must preserve slot order: %+v", record.Arrangement)
	}

	// 手链内相同饰品合并为一行
	var items []models.OrderItem
	if err := db.Where("order_id = ?", result.Orders[0].ID).Order("id asc").Find(&items).Error; err != nil {
		t.Fatalf("load order items failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 collapsed item rows, got %d", len(items))
	}
	if items[0].CharmID != bead.ID || items[0].Quantity != 2 || items[0].TotalPrice.String() != "60.00" {
		t.Fatalf("unexpected collapsed row: %+v", items[0])
	}

	// 库存：bead 50-2、moon 10-2，不限量不动
	var reloaded models.Charm
	if err := db.First(&reloaded, bead.ID).Error; err != nil {
		t.Fatalf("reload bead failed: %v", err)
	}
	if reloaded.Stock != 48 {
		t.Fatalf("expected bead stock 48, got %d", reloaded.Stock)
	}
	reloaded = models.Charm{}
	if err := db.First(&reloaded, moon.ID).Error; err != nil {
		t.Fatalf("reload moon failed: %v", err)
	}
	if reloaded.Stock != 8 {
		t.Fatalf("expected moon stock 8, got %d", reloaded.Stock)
	}
	reloaded = models.Charm{}
	if err := db.First(&reloaded, unlimited.ID).Error; err != nil {
		t.Fatalf("reload unlimited failed: %v", err)
	}
	if reloaded.Stock != constants.StockUnlimited {
		t.Fatalf("unlimited stock must stay untouched, got %d", reloaded.Stock)
	}

	// 交接摘要携带订单号、明细与合计
	for _, order := range result.Orders {
		if !containsAll(result.Summary, order.OrderNo) {
			t.Fatalf("summary must mention order no %s:\n%s", order.OrderNo, result.Summary)
		}
	}
	if !containsAll(result.Summary, "Maria Santos", "GCash", "Courier", "340.00") {
		t.Fatalf("summary missing expected fields:\n%s", result.Summary)
	}
	if result.MessengerLink == "" {
		t.Fatalf("expected messenger hand-off link")
	}
	if len(result.HandoffQRPNG) == 0 {
		t.Fatalf("expected hand-off QR code")
	}
}

// lostRaceCharmRepo 模拟校验通过后被并发订单抢占库存的竞态
type lostRaceCharmRepo struct {
	repository.CharmRepository
}

func (r *lostRaceCharmRepo) DecrementStock(charmID uint, quantity int) (int64, error) {
	return 0, nil
}

func TestSubmitSurfacesReconciliationFailure(t *testing.T) {
	_, cartService, charmRepo, db := newCheckoutFixture(t, "checkout_reconcile")
	bead := seedCharm(t, db, &models.Charm{Name: "Bead", Category: "Beads",
		Price: charmWithPrice(0, "", "30").Price, Stock: 5})

	checkout := NewCheckoutService(&lostRaceCharmRepo{CharmRepository: charmRepo},
		repository.NewOrderRepository(db), cartService, nil, "PHP", "Charmsmith", "charmsmith.ph")

	token := "tok-reconcile"
	if _, err := cartService.AddCharmItem(token, *bead, 1); err != nil {
		t.Fatalf("AddCharmItem error: %v", err)
	}

	_, err := checkout.Submit(CheckoutInput{Token: token, Customer: validCustomer()})
	if !errors.Is(err, ErrInventoryReconciliation) {
		t.Fatalf("expected ErrInventoryReconciliation, got %v", err)
	}
	// 订单已成立，库存未回写——区别于可重试的写入失败
	if countOrders(t, db) != 1 {
		t.Fatalf("order rows must survive a finalize failure, got %d", countOrders(t, db))
	}
}

func TestAggregateCharmDemandStableOrder(t *testing.T) {
	moon := charmWithPrice(2, "Moon", "75")
	bead := charmWithPrice(1, "Bead", "30")
	cart := &Cart{
		Bracelets: []BraceletDesign{
			designWithSlots(moon, bead, moon),
		},
		CharmItems: []CartCharmItem{
			{CartItemID: "a", Charm: *bead, Quantity: 2},
			{CartItemID: "b", Charm: *charmWithPrice(3, "Eye", "65"), Quantity: 1},
		},
	}
	demands := aggregateCharmDemand(cart)
	if len(demands) != 3 {
		t.Fatalf("expected 3 distinct charms, got %d", len(demands))
	}
	if demands[0].Charm.ID != 2 || demands[0].Needed != 2 {
		t.Fatalf("unexpected first demand: %+v", demands[0])
	}
	if demands[1].Charm.ID != 1 || demands[1].Needed != 3 {
		t.Fatalf("bracelet and item demand must sum: %+v", demands[1])
	}
	if demands[2].Charm.ID != 3 || demands[2].Needed != 1 {
		t.Fatalf("unexpected third demand: %+v", demands[2])
	}
}

func TestBuildOrderNoSequence(t *testing.T) {
	if got := buildOrderNo("CS123", 1, 1); got != "CS123" {
		t.Fatalf("single order keeps the base no, got %s", got)
	}
	if got := buildOrderNo("CS123", 2, 3); got != "CS123-02" {
		t.Fatalf("expected CS123-02, got %s", got)
	}
}

func containsAll(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}

// 入车后的目录调价不得回溯已放置条目：订单行、需求明细与交接摘要
// 都按入车快照价格计价，且明细合计与订单总额一致。
func TestSubmitKeepsCartSnapshotPricesAfterCatalogChange(t *testing.T) {
	checkout, cartService, _, db := newCheckoutFixture(t, "checkout_snapshot_price")
	star := seedCharm(t, db, &models.Charm{Name: "Star", Category: "Pendants",
		Price: charmWithPrice(0, "", "30.00").Price, Stock: 10})

	token := "tok-snapshot-price"
	if _, err := cartService.AddCharmItem(token, *star, 2); err != nil {
		t.Fatalf("AddCharmItem error: %v", err)
	}

	// 入车之后目录涨价
	if err := db.Model(&models.Charm{}).Where("id = ?", star.ID).
		Update("price", charmWithPrice(0, "", "50.00").Price).Error; err != nil {
		t.Fatalf("raise catalog price failed: %v", err)
	}

	result, err := checkout.Submit(CheckoutInput{Token: token, Customer: validCustomer()})
	if err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	if result.Orders[0].TotalAmount.String() != "60.00" {
		t.Fatalf("expected order total 60.00 at snapshot price, got %s", result.Orders[0].TotalAmount.String())
	}
	if len(result.Demand) != 1 {
		t.Fatalf("expected 1 demand line, got %d", len(result.Demand))
	}
	if result.Demand[0].Charm.Price.String() != "30.00" {
		t.Fatalf("demand must carry the snapshot price, got %s", result.Demand[0].Charm.Price.String())
	}
	if result.Demand[0].LineTotal.String() != "60.00" {
		t.Fatalf("demand line total must match the charged amount, got %s", result.Demand[0].LineTotal.String())
	}
	if !containsAll(result.Summary, "Star x2 @ 30.00 = 60.00 PHP", "Total: 60.00 PHP") {
		t.Fatalf("summary must price lines at the snapshot price:\n%s", result.Summary)
	}
	if strings.Contains(result.Summary, "50.00") || strings.Contains(result.Summary, "100.00") {
		t.Fatalf("summary must not leak the live catalog price:\n%s", result.Summary)
	}

	// 库存扣减仍按现库存行进行
	var reloaded models.Charm
	if err := db.First(&reloaded, star.ID).Error; err != nil {
		t.Fatalf("reload charm failed: %v", err)
	}
	if reloaded.Stock != 8 {
		t.Fatalf("expected stock 8 after decrement, got %d", reloaded.Stock)
	}
}
