package main

import (
	"time"

	"github.com/charmsmith/internal/config"
	"github.com/charmsmith/internal/constants"
	"github.com/charmsmith/internal/logger"
	"github.com/charmsmith/internal/models"

	"github.com/shopspring/decimal"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	price := func(value string) models.Money {
		d, err := decimal.NewFromString(value)
		if err != nil {
			stdLog.Fatalf("bad seed price %q: %v", value, err)
		}
		return models.NewMoneyFromDecimal(d)
	}

	now := time.Now()
	charms := []models.Charm{
		// 第一件作为手链默认填充饰品（store.starting_charm_id = 1）
		{Name: "Plain Silver Bead", Category: "Beads", Price: price("30.00"), Stock: constants.StockUnlimited, Image: "/images/charms/plain-silver-bead.webp", SortOrder: 100},
		{Name: "Rose Gold Bead", Category: "Beads", Price: price("45.00"), Stock: 120, Image: "/images/charms/rose-gold-bead.webp", SortOrder: 90},
		{Name: "Pearl Bead", Category: "Beads", Subcategory: "Pearls", Price: price("55.00"), Stock: 80, Image: "/images/charms/pearl-bead.webp", SortOrder: 85},
		{Name: "Sun Pendant", Category: "Pendants", Subcategory: "Celestial", Type: "alloy", Price: price("75.00"), Stock: 40, Image: "/images/charms/sun-pendant.webp", SortOrder: 80},
		{Name: "Moon Pendant", Category: "Pendants", Subcategory: "Celestial", Type: "alloy", Price: price("75.00"), Stock: 40, Image: "/images/charms/moon-pendant.webp", SortOrder: 79},
		{Name: "Initial Letter A", Category: "Letters", Price: price("35.00"), Stock: 60, Image: "/images/charms/letter-a.webp", SortOrder: 70},
		{Name: "Initial Letter M", Category: "Letters", Price: price("35.00"), Stock: 60, Image: "/images/charms/letter-m.webp", SortOrder: 69},
		{Name: "Evil Eye", Category: "Pendants", Subcategory: "Protection", Price: price("65.00"), Stock: 50, Image: "/images/charms/evil-eye.webp", SortOrder: 60},
		{Name: "Birthstone January", Category: "Birthstones", Price: price("85.00"), Stock: 25, Image: "/images/charms/birthstone-jan.webp", SortOrder: 50},
		{Name: "Birthstone June", Category: "Birthstones", Price: price("85.00"), Stock: 25, Image: "/images/charms/birthstone-jun.webp", SortOrder: 49},
	}

	for _, charm := range charms {
		var existing models.Charm
		if err := models.DB.Where("name = ?", charm.Name).First(&existing).Error; err == nil {
			stdLog.Printf("Charm already exists: %s", charm.Name)
			continue
		}
		charm.IsActive = true
		charm.CreatedAt = now
		charm.UpdatedAt = now
		if err := models.DB.Create(&charm).Error; err != nil {
			stdLog.Printf("Failed to create charm %s: %v", charm.Name, err)
		} else {
			stdLog.Printf("Created charm: %s", charm.Name)
		}
	}

	starts := now.AddDate(0, 1, 0)
	ends := starts.AddDate(0, 0, 2)
	events := []models.Event{
		{
			Title:       "Weekend Pop-up at Greenhills",
			Description: "Build your bracelet on the spot, charms restocked daily.",
			Venue:       "Greenhills Shopping Center, San Juan",
			StartsAt:    &starts,
			EndsAt:      &ends,
			IsActive:    true,
			SortOrder:   10,
		},
	}
	for _, event := range events {
		var existing models.Event
		if err := models.DB.Where("title = ?", event.Title).First(&existing).Error; err == nil {
			stdLog.Printf("Event already exists: %s", event.Title)
			continue
		}
		event.CreatedAt = now
		event.UpdatedAt = now
		if err := models.DB.Create(&event).Error; err != nil {
			stdLog.Printf("Failed to create event %s: %v", event.Title, err)
		} else {
			stdLog.Printf("Created event: %s", event.Title)
		}
	}

	stdLog.Printf("Seed finished")
}
