package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/models"
	"github.com/charmsmith/internal/repository"

	"github.com/shopspring/decimal"
)

func TestCharmAdminCreateValidation(t *testing.T) {
	db := openTestDB(t, "charm_admin_validate", &models.Charm{})
	adminService := NewCharmAdminService(repository.NewCharmRepository(db))

	_, err := adminService.Create(CharmInput{Name: "Bead", Category: "Beads",
		Price: models.NewMoneyFromDecimal(decimal.NewFromInt(-1))})
	if !errors.Is(err, ErrCharmPriceInvalid) {
		t.Fatalf("expected ErrCharmPriceInvalid, got %v", err)
	}

	_, err = adminService.Create(CharmInput{Name: "Bead", Category: "Beads", Stock: -2})
	if !errors.Is(err, ErrCharmStockInvalid) {
		t.Fatalf("expected ErrCharmStockInvalid, got %v", err)
	}
}

func TestCharmCSVExportImportRoundTrip(t *testing.T) {
	db := openTestDB(t, "charm_admin_csv", &models.Charm{})
	adminService := NewCharmAdminService(repository.NewCharmRepository(db))

	if _, err := adminService.Create(CharmInput{
		Name:     "Plain Bead",
		Category: "Beads",
		Price:    models.NewMoneyFromDecimal(decimal.NewFromInt(30)),
		Stock:    constants.StockUnlimited,
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if _, err := adminService.Create(CharmInput{
		Name:        "Pearl Bead",
		Category:    "Beads",
		Subcategory: "Pearls",
		Price:       models.NewMoneyFromDecimal(decimal.RequireFromString("55.50")),
		Stock:       12,
	}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	var buf bytes.Buffer
	if err := adminService.ExportCSV(&buf); err != nil {
		t.Fatalf("ExportCSV error: %v", err)
	}
	exported := buf.String()
	if !strings.Contains(exported, "Pearl Bead") || !strings.Contains(exported, "55.50") {
		t.Fatalf("export missing data:\n%s", exported)
	}

	// 再导入同一份：带 id 的行走更新，数量不变
	imported, err := adminService.ImportCSV(strings.NewReader(exported))
	if err != nil {
		t.Fatalf("ImportCSV error: %v", err)
	}
	if imported != 2 {
		t.Fatalf("expected 2 rows imported, got %d", imported)
	}
	charms, _, err := adminService.List(repository.CharmListFilter{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(charms) != 2 {
		t.Fatalf("re-import must update, not duplicate; got %d charms", len(charms))
	}
}

func TestCharmCSVImportNewRows(t *testing.T) {
	db := openTestDB(t, "charm_admin_csv_new", &models.Charm{})
	adminService := NewCharmAdminService(repository.NewCharmRepository(db))

	csvData := "name,category,subcategory,price,stock\n" +
		"Sun Pendant,Pendants,Celestial,75.00,40\n" +
		"Moon Pendant,Pendants,Celestial,75.00,\n"
	imported, err := adminService.ImportCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCSV error: %v", err)
	}
	if imported != 2 {
		t.Fatalf("expected 2 rows, got %d", imported)
	}

	charms, _, err := adminService.List(repository.CharmListFilter{})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	for _, charm := range charms {
		if charm.Name == "Moon Pendant" && charm.Stock != constants.StockUnlimited {
			t.Fatalf("blank stock must default to unlimited, got %d", charm.Stock)
		}
	}
}

func TestCharmCSVImportRejectsBadHeader(t *testing.T) {
	db := openTestDB(t, "charm_admin_csv_bad", &models.Charm{})
	adminService := NewCharmAdminService(repository.NewCharmRepository(db))

	if _, err := adminService.ImportCSV(strings.NewReader("foo,bar\n1,2\n")); !errors.Is(err, ErrCSVHeaderInvalid) {
		t.Fatalf("expected ErrCSVHeaderInvalid, got %v", err)
	}
}
