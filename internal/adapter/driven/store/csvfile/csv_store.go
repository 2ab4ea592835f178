// Package csvfile keeps each region as a CSV file inside one directory.
package csvfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/diillson/ticket-ledger/internal/adapter/driven/store/rows"
	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/shared/types"
)

// Store is a TabularStore backed by <dir>/<region>.csv files.
type Store struct {
	dir string
}

// Open prepares dir, creating it when missing.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating %s: %w", types.ErrConfig, dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(region string) (string, error) {
	if region == "" || strings.ContainsAny(region, `/\`) || region == "." || region == ".." {
		return "", fmt.Errorf("invalid region name %q", region)
	}
	return filepath.Join(s.dir, region+".csv"), nil
}

func (s *Store) Read(ctx context.Context, region string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStoreRead, err)
	}
	path, err := s.path(region)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStoreRead, err)
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return [][]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrStoreRead, err)
	}
	defer f.Close()

	out, err := rows.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrStoreRead, path, err)
	}
	return out, nil
}

func (s *Store) Append(ctx context.Context, region string, m entity.Matrix) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", types.ErrStoreWrite, err)
	}
	path, err := s.path(region)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrStoreWrite, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrStoreWrite, err)
	}
	if err := rows.Encode(f, rows.Strings(m)); err != nil {
		f.Close()
		return fmt.Errorf("%w: %s: %w", types.ErrStoreWrite, path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %w", types.ErrStoreWrite, err)
	}
	return nil
}

// Overwrite writes a temp file next to the region and renames it into place.
func (s *Store) Overwrite(ctx context.Context, region string, m entity.Matrix) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", types.ErrStoreWrite, err)
	}
	path, err := s.path(region)
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrStoreWrite, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+region+"-*.csv")
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrStoreWrite, err)
	}
	defer os.Remove(tmp.Name())

	if err := rows.Encode(tmp, rows.Strings(m)); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %s: %w", types.ErrStoreWrite, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", types.ErrStoreWrite, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("%w: %w", types.ErrStoreWrite, err)
	}
	return nil
}

func (s *Store) Close() error { return nil }
