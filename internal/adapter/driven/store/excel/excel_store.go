// Package excel keeps regions as worksheets of a local .xlsx workbook.
package excel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/diillson/ticket-ledger/internal/adapter/driven/store/rows"
	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/xuri/excelize/v2"
)

// Store is a TabularStore over one workbook. Each region names a worksheet.
type Store struct {
	path string
	mu   sync.Mutex
}

// Open returns a store for the workbook at path. The file is created on first write.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrConfig, path, err)
	}
	return &Store{path: path}, nil
}

func (s *Store) open() (*excelize.File, error) {
	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return excelize.NewFile(), nil
	}
	return f, err
}

func sheetExists(f *excelize.File, sheet string) bool {
	idx, err := f.GetSheetIndex(sheet)
	return err == nil && idx >= 0
}

func (s *Store) Read(ctx context.Context, region string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStoreRead, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", types.ErrStoreRead, s.path, err)
	}
	defer f.Close()

	if !sheetExists(f, region) {
		return [][]string{}, nil
	}
	out, err := f.GetRows(region)
	if err != nil {
		return nil, fmt.Errorf("%w: reading sheet %s: %w", types.ErrStoreRead, region, err)
	}
	if out == nil {
		out = [][]string{}
	}
	return out, nil
}

// Append writes m below the last used row, leaving one empty row between blocks.
func (s *Store) Append(ctx context.Context, region string, m entity.Matrix) error {
	return s.write(ctx, region, func(f *excelize.File) error {
		existing, err := f.GetRows(region)
		if err != nil {
			return err
		}
		start := len(existing) + 1
		if len(existing) > 0 {
			start++
		}
		return writeRows(f, region, start, m)
	})
}

// Overwrite clears the worksheet and writes m from the first row.
func (s *Store) Overwrite(ctx context.Context, region string, m entity.Matrix) error {
	return s.write(ctx, region, func(f *excelize.File) error {
		existing, err := f.GetRows(region)
		if err != nil {
			return err
		}
		for range existing {
			if err := f.RemoveRow(region, 1); err != nil {
				return err
			}
		}
		return writeRows(f, region, 1, m)
	})
}

func (s *Store) write(ctx context.Context, region string, fn func(*excelize.File) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", types.ErrStoreWrite, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.open()
	if err != nil {
		return fmt.Errorf("%w: opening %s: %w", types.ErrStoreWrite, s.path, err)
	}
	defer f.Close()

	if !sheetExists(f, region) {
		if _, err := f.NewSheet(region); err != nil {
			return fmt.Errorf("%w: creating sheet %s: %w", types.ErrStoreWrite, region, err)
		}
	}
	if err := fn(f); err != nil {
		return fmt.Errorf("%w: sheet %s: %w", types.ErrStoreWrite, region, err)
	}
	if err := f.SaveAs(s.path); err != nil {
		return fmt.Errorf("%w: saving %s: %w", types.ErrStoreWrite, s.path, err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, start int, m entity.Matrix) error {
	for i, row := range rows.Values(m) {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, start+i)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error { return nil }
