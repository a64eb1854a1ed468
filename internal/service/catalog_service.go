package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kitchenlog/internal/db"
)

var (
	ErrDuplicateName      = errors.New("ingredient name already exists")
	ErrEmptyName          = errors.New("ingredient name is required")
	ErrIngredientNotFound = errors.New("ingredient not found")
)

// CatalogService wraps ingredient catalog operations.
//
// The catalog is append-only: create and rename both insert a new version row
// sharing the ingredient id, and the current catalog is resolved with
// db.CurrentView. Deletion is intentionally unimplemented; it cascades into
// recipe and price references and is deferred until those are resolved.
type CatalogService struct {
	db    *gorm.DB
	audit *AuditService
	now   func() time.Time
}

// IngredientImport is one row of an uploaded catalog file.
type IngredientImport struct {
	Name   string `json:"name"`
	UnitOK bool   `json:"unit_ok"`
}

// NewCatalogService creates a CatalogService instance.
func NewCatalogService(gdb *gorm.DB, audit *AuditService) *CatalogService {
	return &CatalogService{db: gdb, audit: audit, now: time.Now}
}

// SetClock replaces the time source, mainly for tests.
func (s *CatalogService) SetClock(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// List returns the current version of every ingredient, newest first.
// Rows are fed to the resolver newest-insertion-first so that a rename in the
// same second as the previous version still wins the timestamp tie.
func (s *CatalogService) List() ([]db.IngredientVersion, error) {
	var versions []db.IngredientVersion
	if err := s.db.Order("timestamp desc").Order("id desc").Find(&versions).Error; err != nil {
		return nil, err
	}
	return db.CurrentView(versions), nil
}

// Get returns the current version of one ingredient.
func (s *CatalogService) Get(ingredientID string) (*db.IngredientVersion, error) {
	current, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range current {
		if current[i].IngredientID == ingredientID {
			return &current[i], nil
		}
	}
	return nil, ErrIngredientNotFound
}

// Create inserts a brand new ingredient with a fresh id.
// Names are unique among current ingredients, exact match, case sensitive.
func (s *CatalogService) Create(name string, unitOK bool) (*db.IngredientVersion, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrEmptyName
	}

	current, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, ing := range current {
		if ing.Name == trimmed {
			return nil, ErrDuplicateName
		}
	}

	version := db.IngredientVersion{
		IngredientID: uuid.New().String()[:12],
		Name:         trimmed,
		UnitOK:       unitOK,
		Timestamp:    s.now().Unix(),
	}
	if err := s.db.Create(&version).Error; err != nil {
		return nil, err
	}

	// Auditing is best effort; the catalog write already happened.
	_ = s.audit.Log("add", fmt.Sprintf("Added %s (unit_ok: %t)", version.Name, version.UnitOK))

	return &version, nil
}

// Rename inserts a new version of an existing ingredient with the given name
// and unit_ok flag. The old version remains in storage as history.
func (s *CatalogService) Rename(ingredientID, newName string, unitOK bool) (*db.IngredientVersion, error) {
	trimmed := strings.TrimSpace(newName)
	if trimmed == "" {
		return nil, ErrEmptyName
	}

	current, err := s.List()
	if err != nil {
		return nil, err
	}

	var existing *db.IngredientVersion
	for i := range current {
		if current[i].IngredientID == ingredientID {
			existing = &current[i]
			continue
		}
		if current[i].Name == trimmed {
			return nil, ErrDuplicateName
		}
	}
	if existing == nil {
		return nil, ErrIngredientNotFound
	}

	version := db.IngredientVersion{
		IngredientID: ingredientID,
		Name:         trimmed,
		UnitOK:       unitOK,
		Timestamp:    s.now().Unix(),
	}
	if err := s.db.Create(&version).Error; err != nil {
		return nil, err
	}

	_ = s.audit.Log("update", fmt.Sprintf("Updated %s to %s (unit_ok: %t)", existing.Name, trimmed, unitOK))

	return &version, nil
}

// Import appends every uploaded ingredient that does not collide with a
// current name. Returns how many were created and how many were skipped.
func (s *CatalogService) Import(items []IngredientImport) (created, skipped int, err error) {
	current, err := s.List()
	if err != nil {
		return 0, 0, err
	}
	taken := make(map[string]struct{}, len(current))
	for _, ing := range current {
		taken[ing.Name] = struct{}{}
	}

	now := s.now().Unix()
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			skipped++
			continue
		}
		if _, ok := taken[name]; ok {
			skipped++
			continue
		}

		version := db.IngredientVersion{
			IngredientID: uuid.New().String()[:12],
			Name:         name,
			UnitOK:       item.UnitOK,
			Timestamp:    now,
		}
		if err := s.db.Create(&version).Error; err != nil {
			return created, skipped, err
		}
		taken[name] = struct{}{}
		created++
	}

	_ = s.audit.Log("import", fmt.Sprintf("Imported %d ingredients (%d skipped)", created, skipped))

	return created, skipped, nil
}
