package main

import (
	"fmt"
	"log"

	"github.com/kitchenlog/internal/config"
	"github.com/kitchenlog/internal/db"
	"github.com/kitchenlog/internal/service"
)

// 开发环境种子数据生成器
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("failed to initialize database:", err)
	}

	var count int64
	db.DB.Model(&db.IngredientVersion{}).Count(&count)
	if count > 0 {
		fmt.Println("catalog already seeded, nothing to do")
		return
	}

	audit := service.NewAuditService(db.DB)
	catalog := service.NewCatalogService(db.DB, audit)
	prices := service.NewPriceService(db.DB, catalog, audit)

	seed := []struct {
		name     string
		unitOK   bool
		price    string
		unit     string
		quantity float64
	}{
		{name: "Flour", price: "2.50", unit: "lb", quantity: 50},
		{name: "Sugar", price: "1.89", unit: "kg", quantity: 25},
		{name: "Condensed Milk", price: "3.20", unit: "l", quantity: 1},
		{name: "Butter", price: "4.75", unit: "lb", quantity: 1},
		{name: "Forminha", unitOK: true, price: "12.00", unit: "unit", quantity: 1000},
	}

	for _, item := range seed {
		created, err := catalog.Create(item.name, item.unitOK)
		if err != nil {
			log.Fatalf("failed to create %s: %v", item.name, err)
		}
		if _, err := prices.Record(created.IngredientID, item.price, item.unit, item.quantity); err != nil {
			log.Fatalf("failed to price %s: %v", item.name, err)
		}
	}

	fmt.Printf("seeded %d ingredients with starting prices\n", len(seed))
}
