package handler

import (
	"time"

	"gorm.io/gorm"

	"github.com/kitchenlog/internal/config"
	"github.com/kitchenlog/internal/service"
	"github.com/kitchenlog/internal/storage"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db      *gorm.DB
	gate    *service.GateService
	catalog *service.CatalogService
	prices  *service.PriceService
	recipes *service.RecipeService
	audit   *service.AuditService
	backups *service.BackupService
	sleep   func(time.Duration)
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, store storage.BlobStore, cfg config.AppConfig) *API {
	audit := service.NewAuditService(gdb)
	catalog := service.NewCatalogService(gdb, audit)
	prices := service.NewPriceService(gdb, catalog, audit)

	return &API{
		db:      gdb,
		gate:    service.NewGateService(gdb, cfg.RolePasswords()),
		catalog: catalog,
		prices:  prices,
		recipes: service.NewRecipeService(store, catalog, cfg.AWS.KeyPrefix),
		audit:   audit,
		backups: service.NewBackupService(prices, catalog, store, audit, cfg.AWS.KeyPrefix, cfg.DatabasePath),
		sleep:   time.Sleep,
	}
}

// SetSleep 替换登录失败时的延迟实现，主要面向测试场景。
func (a *API) SetSleep(sleep func(time.Duration)) {
	if sleep == nil {
		a.sleep = time.Sleep
		return
	}
	a.sleep = sleep
}

// Gate exposes the login gate for seams like clock injection in tests.
func (a *API) Gate() *service.GateService {
	return a.gate
}
