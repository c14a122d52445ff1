package service

import (
	"strings"
	"testing"

	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/models"

	"github.com/shopspring/decimal"
)

func TestBuildHandoffSummaryFieldOrder(t *testing.T) {
	customer := CustomerInfo{
		Name:           "Maria Santos",
		Phone:          "09171234567",
		HouseNumber:    "12B",
		Barangay:       "San Isidro",
		City:           "Quezon City",
		Province:       "Metro Manila",
		Region:         "NCR",
		Zip:            "1100",
		PaymentMethod:  constants.PaymentMethodMaya,
		DeliveryMethod: constants.DeliveryMethodPickup,
		Notes:          "please wrap as gift",
	}
	lines := []BreakdownLine{
		{Charm: models.Charm{ID: 1, Name: "Bead", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(30))}, Count: 2, LineTotal: models.NewMoneyFromDecimal(decimal.NewFromInt(60))},
	}
	summary := BuildHandoffSummary(HandoffInput{
		StoreName: "Charmsmith",
		Orders:    []models.Order{{OrderNo: "CS20260901-01"}, {OrderNo: "CS20260901-02"}},
		Customer:  customer,
		Lines:     lines,
		Total:     models.NewMoneyFromDecimal(decimal.NewFromInt(60)),
		Currency:  "PHP",
	})

	for _, expected := range []string{
		"CS20260901-01",
		"CS20260901-02",
		"Maria Santos",
		"09171234567",
		"12B, San Isidro, Quezon City, Metro Manila, NCR, 1100",
		"Bead x2 @ 30.00 = 60.00 PHP",
		"Total: 60.00 PHP",
		"Payment: Maya",
		"Delivery: Pick-up",
		"please wrap as gift",
	} {
		if !strings.Contains(summary, expected) {
			t.Fatalf("summary missing %q:\n%s", expected, summary)
		}
	}

	// 客户信息先于明细，明细先于合计
	if strings.Index(summary, "Maria Santos") > strings.Index(summary, "Bead x2") {
		t.Fatalf("customer block must precede items")
	}
	if strings.Index(summary, "Bead x2") > strings.Index(summary, "Total:") {
		t.Fatalf("items must precede total")
	}
}

func TestBuildMessengerLink(t *testing.T) {
	link := BuildMessengerLink("charmsmith.ph", []models.Order{{OrderNo: "CS1"}, {OrderNo: "CS2"}})
	if link != "https://m.me/charmsmith.ph?ref=CS1%2CCS2" {
		t.Fatalf("unexpected messenger link: %s", link)
	}
	if BuildMessengerLink("", nil) != "" {
		t.Fatalf("empty page must yield empty link")
	}
}

func TestBuildHandoffQR(t *testing.T) {
	if png := BuildHandoffQR("https://m.me/charmsmith.ph"); len(png) == 0 {
		t.Fatalf("expected QR png bytes")
	}
	if png := BuildHandoffQR(""); png != nil {
		t.Fatalf("empty link must yield nil QR")
	}
}
