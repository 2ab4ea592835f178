// Package sqlstore keeps regions as ordered rows of a SQL table through gorm.
package sqlstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/diillson/ticket-ledger/internal/adapter/driven/store/rows"
	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TabularRow is one stored row. Cells holds a JSON array of strings.
type TabularRow struct {
	ID     uint   `gorm:"primaryKey"`
	Region string `gorm:"size:255;not null;index:idx_tabular_rows_region_seq,priority:1"`
	Seq    int    `gorm:"not null;index:idx_tabular_rows_region_seq,priority:2"`
	Cells  string `gorm:"type:text;not null"`
}

func (TabularRow) TableName() string { return "tabular_rows" }

// Store is a TabularStore over the tabular_rows table.
type Store struct {
	db *gorm.DB
}

// Open connects with driver ("sqlite" or "postgres") and migrates the table.
func Open(driver, dsn string) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: unknown sql driver %q", types.ErrConfig, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to %s: %w", types.ErrConfig, driver, err)
	}
	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrConfig, err)
		}
		// sqlite permite um único escritor
		sqlDB.SetMaxOpenConns(1)
	}
	return NewStore(db)
}

// NewStore wraps an open connection and migrates the table.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&TabularRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrating tabular_rows: %w", types.ErrConfig, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Read(ctx context.Context, region string) ([][]string, error) {
	var stored []TabularRow
	if err := s.db.WithContext(ctx).Where("region = ?", region).Order("seq").Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("%w: region %s: %w", types.ErrStoreRead, region, err)
	}

	out := make([][]string, 0, len(stored))
	for _, r := range stored {
		var cells []string
		if err := json.Unmarshal([]byte(r.Cells), &cells); err != nil {
			return nil, fmt.Errorf("%w: region %s row %d: %w", types.ErrStoreRead, region, r.Seq, err)
		}
		if cells == nil {
			cells = []string{}
		}
		out = append(out, cells)
	}
	return out, nil
}

func (s *Store) Append(ctx context.Context, region string, m entity.Matrix) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int
		if err := tx.Model(&TabularRow{}).
			Where("region = ?", region).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&last).Error; err != nil {
			return err
		}
		return insert(tx, region, last+1, m)
	})
	if err != nil {
		return fmt.Errorf("%w: region %s: %w", types.ErrStoreWrite, region, err)
	}
	return nil
}

func (s *Store) Overwrite(ctx context.Context, region string, m entity.Matrix) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("region = ?", region).Delete(&TabularRow{}).Error; err != nil {
			return err
		}
		return insert(tx, region, 1, m)
	})
	if err != nil {
		return fmt.Errorf("%w: region %s: %w", types.ErrStoreWrite, region, err)
	}
	return nil
}

func insert(tx *gorm.DB, region string, first int, m entity.Matrix) error {
	if len(m) == 0 {
		return nil
	}
	batch := make([]TabularRow, 0, len(m))
	for i, cells := range rows.Strings(m) {
		encoded, err := json.Marshal(cells)
		if err != nil {
			return err
		}
		batch = append(batch, TabularRow{Region: region, Seq: first + i, Cells: string(encoded)})
	}
	return tx.CreateInBatches(batch, 200).Error
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
