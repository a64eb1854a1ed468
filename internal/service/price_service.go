package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kitchenlog/internal/db"
)

// AvailableUnits is the fixed unit enumeration for price entry.
// "unit" is only accepted for ingredients flagged unit_ok.
var AvailableUnits = []string{"g", "kg", "lb", "oz", "ml", "l", "cup", "tbsp", "tsp", "gal", "unit"}

// StaleAfter is the freshness window for current prices.
const StaleAfter = 90 * 24 * time.Hour

var (
	ErrInvalidPrice    = errors.New("cost must be greater than 0")
	ErrTooManyDecimals = errors.New("cost cannot have more than 2 decimal places")
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrInvalidUnit     = errors.New("unit is not in the allowed set")
	ErrUnitNotAllowed  = errors.New("ingredient is not sold by unit")
)

// PriceService is the append-only price ledger. The current price per
// ingredient is the newest record for its ingredient id. The only write that
// is not an append is the same-second overwrite: entries share second
// granularity ids, so a correction made within one second replaces the
// original entry rather than duplicating it.
type PriceService struct {
	db      *gorm.DB
	catalog *CatalogService
	audit   *AuditService
	now     func() time.Time
}

// NewPriceService creates a PriceService instance.
func NewPriceService(gdb *gorm.DB, catalog *CatalogService, audit *AuditService) *PriceService {
	return &PriceService{db: gdb, catalog: catalog, audit: audit, now: time.Now}
}

// SetClock replaces the time source, mainly for tests.
func (s *PriceService) SetClock(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Record validates and appends one price observation.
// Validation happens before any write; an invalid entry mutates nothing.
// The ingredient name is copied onto the record so later renames do not
// rewrite price history.
func (s *PriceService) Record(ingredientID, price, unit string, quantity float64) (*db.PriceRecord, error) {
	ingredient, err := s.catalog.Get(ingredientID)
	if err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return nil, ErrInvalidPrice
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidPrice
	}
	if amount.Exponent() < -2 && !amount.Equal(amount.Round(2)) {
		return nil, ErrTooManyDecimals
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if err := s.validateUnit(unit, ingredient.UnitOK); err != nil {
		return nil, err
	}

	timestamp := s.now().Unix()
	record := db.PriceRecord{
		ID:             fmt.Sprintf("%d_%s", timestamp, strings.ReplaceAll(ingredient.Name, " ", "_")),
		IngredientID:   ingredient.IngredientID,
		IngredientName: ingredient.Name,
		Price:          amount.StringFixed(2),
		Unit:           unit,
		Quantity:       quantity,
		Timestamp:      timestamp,
	}
	// Same ingredient in the same second produces the same id; the later
	// entry replaces the earlier one instead of failing the insert.
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&record).Error; err != nil {
		return nil, err
	}

	// Best-effort auditing; the ledger write already happened.
	_ = s.audit.Log("price", fmt.Sprintf("Added %s: %s per %g %s", record.IngredientName, record.Price, quantity, unit))

	return &record, nil
}

// Current returns the newest price per ingredient, newest first.
func (s *PriceService) Current() ([]db.PriceRecord, error) {
	var records []db.PriceRecord
	if err := s.db.Order("timestamp desc").Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return db.CurrentView(records), nil
}

// History returns every price record ever written, newest first.
func (s *PriceService) History() ([]db.PriceRecord, error) {
	var records []db.PriceRecord
	if err := s.db.Order("timestamp desc").Order("id desc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Missing returns current ingredients that have no current price at all.
func (s *PriceService) Missing() ([]db.IngredientVersion, error) {
	catalog, err := s.catalog.List()
	if err != nil {
		return nil, err
	}
	current, err := s.Current()
	if err != nil {
		return nil, err
	}

	priced := make(map[string]struct{}, len(current))
	for _, record := range current {
		priced[record.IngredientID] = struct{}{}
	}

	missing := make([]db.IngredientVersion, 0)
	for _, ing := range catalog {
		if _, ok := priced[ing.IngredientID]; !ok {
			missing = append(missing, ing)
		}
	}
	return missing, nil
}

// Stale returns current prices older than the freshness window.
func (s *PriceService) Stale() ([]db.PriceRecord, error) {
	current, err := s.Current()
	if err != nil {
		return nil, err
	}

	cutoff := s.now().Unix() - int64(StaleAfter/time.Second)
	stale := make([]db.PriceRecord, 0)
	for _, record := range current {
		if record.Timestamp <= cutoff {
			stale = append(stale, record)
		}
	}
	return stale, nil
}

func (s *PriceService) validateUnit(unit string, unitOK bool) error {
	for _, candidate := range AvailableUnits {
		if unit != candidate {
			continue
		}
		if unit == "unit" && !unitOK {
			return ErrUnitNotAllowed
		}
		return nil
	}
	return ErrInvalidUnit
}
