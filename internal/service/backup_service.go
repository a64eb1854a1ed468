package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/kitchenlog/internal/storage"
)

// priceBackupRow is the columnar layout of the price export: every price
// record ever written, joined with the ingredient's current name.
type priceBackupRow struct {
	ID             string  `parquet:"id"`
	IngredientID   string  `parquet:"ingredient_id"`
	IngredientName string  `parquet:"ingredient_name"`
	Price          string  `parquet:"price"`
	Unit           string  `parquet:"unit"`
	Quantity       float64 `parquet:"quantity"`
	Date           int64   `parquet:"date"`
}

// BackupService exports the price ledger to object storage: a parquet file of
// all price records plus a raw copy of the sqlite database file.
type BackupService struct {
	prices    *PriceService
	catalog   *CatalogService
	store     storage.BlobStore
	audit     *AuditService
	keyPrefix string
	dbPath    string
	now       func() time.Time
}

// NewBackupService creates a BackupService writing under keyPrefix + "backups/".
func NewBackupService(prices *PriceService, catalog *CatalogService, store storage.BlobStore, audit *AuditService, keyPrefix, dbPath string) *BackupService {
	return &BackupService{
		prices:    prices,
		catalog:   catalog,
		store:     store,
		audit:     audit,
		keyPrefix: keyPrefix,
		dbPath:    dbPath,
		now:       time.Now,
	}
}

// SetClock replaces the time source, mainly for tests.
func (s *BackupService) SetClock(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Run uploads the parquet export first, then the raw database file, and
// returns both object keys. Each upload is logged separately so a crash
// between the two still leaves a record of the first.
func (s *BackupService) Run(ctx context.Context) (parquetKey, dbKey string, err error) {
	stamp := s.now().Format("20060102_150405")

	parquetKey = fmt.Sprintf("%sbackups/prices_backup_%s.parquet", s.keyPrefix, stamp)
	body, err := s.exportParquet()
	if err != nil {
		return "", "", err
	}
	if err := s.store.Put(ctx, parquetKey, body, "application/octet-stream"); err != nil {
		return "", "", fmt.Errorf("upload price backup: %w", err)
	}
	_ = s.audit.Log("backup", fmt.Sprintf("Prices backed up to %s", parquetKey))

	dbKey = fmt.Sprintf("%sbackups/db_backup_%s.db", s.keyPrefix, stamp)
	raw, err := os.ReadFile(s.dbPath)
	if err != nil {
		return parquetKey, "", fmt.Errorf("read database file: %w", err)
	}
	if err := s.store.Put(ctx, dbKey, raw, "application/octet-stream"); err != nil {
		return parquetKey, "", fmt.Errorf("upload database backup: %w", err)
	}
	_ = s.audit.Log("backup", fmt.Sprintf("Database backed up to %s", dbKey))

	return parquetKey, dbKey, nil
}

func (s *BackupService) exportParquet() ([]byte, error) {
	records, err := s.prices.History()
	if err != nil {
		return nil, fmt.Errorf("load price history: %w", err)
	}
	catalog, err := s.catalog.List()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	names := make(map[string]string, len(catalog))
	for _, ing := range catalog {
		names[ing.IngredientID] = ing.Name
	}

	rows := make([]priceBackupRow, 0, len(records))
	for _, record := range records {
		name := names[record.IngredientID]
		if name == "" {
			name = record.IngredientName
		}
		rows = append(rows, priceBackupRow{
			ID:             record.ID,
			IngredientID:   record.IngredientID,
			IngredientName: name,
			Price:          record.Price,
			Unit:           record.Unit,
			Quantity:       record.Quantity,
			Date:           record.Timestamp,
		})
	}

	var buf bytes.Buffer
	writer := parquet.NewGenericWriter[priceBackupRow](&buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}
