package main

import (
	"github.com/storefront-api/internal/config"
	"github.com/storefront-api/internal/logger"
	"github.com/storefront-api/internal/models"

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

	// 示例商品
	products := []models.Product{
		{
			Name:        "Water Bottle",
			Slug:        "water-bottle",
			Category:    "lifestyle",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(9.99)),
			Image:       "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=800",
		},
		{
			Name:        "Coffee Mug",
			Slug:        "coffee-mug",
			Category:    "lifestyle",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(12.50)),
			Image:       "https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=800",
		},
		{
			Name:        "Graphic T-Shirt",
			Slug:        "graphic-t-shirt",
			Category:    "apparel",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(19.99)),
			Image:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=800",
		},
		{
			Name:        "Running Shoes",
			Slug:        "running-shoes",
			Category:    "apparel",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(59.90)),
			Image:       "https://images.unsplash.com/photo-1542291026-7eec264c27ff?w=800",
		},
		{
			Name:        "Baseball Hat",
			Slug:        "baseball-hat",
			Category:    "apparel",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(14.95)),
			Image:       "https://images.unsplash.com/photo-1588850561407-ed78c282e89b?w=800",
		},
		{
			Name:        "Desk Lamp",
			Slug:        "desk-lamp",
			Category:    "home",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(34.00)),
			Image:       "https://images.unsplash.com/photo-1507473885765-e6ed057f782c?w=800",
		},
		{
			Name:        "Notebook Set",
			Slug:        "notebook-set",
			Category:    "stationery",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(7.25)),
			Image:       "https://images.unsplash.com/photo-1531346878377-a5be20888e57?w=800",
		},
		{
			Name:        "Wireless Earphones",
			Slug:        "wireless-earphones",
			Category:    "electronics",
			PriceAmount: models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99)),
			Image:       "https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
		},
	}

	for _, product := range products {
		var existing models.Product
		if err := models.DB.Where("slug = ?", product.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&product).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", product.Slug)
			}
		} else {
			stdLog.Printf("Product already exists: %s", product.Slug)
		}
	}

	stdLog.Println("Seed finished")
}
