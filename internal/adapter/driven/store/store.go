// Package store opens the TabularStore selected by configuration.
package store

import (
	"context"

	"github.com/diillson/ticket-ledger/internal/adapter/driven/aws"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/config"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/store/csvfile"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/store/excel"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/store/s3store"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/store/sheets"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/store/sqlstore"
	"github.com/diillson/ticket-ledger/internal/domain/repository"
	"github.com/diillson/ticket-ledger/internal/shared/types"
)

// Open validates cfg and connects to its backend.
func Open(ctx context.Context, cfg types.StoreConfig) (repository.TabularStore, error) {
	if err := config.ValidateStore(cfg); err != nil {
		return nil, err
	}

	var (
		s   repository.TabularStore
		err error
	)
	switch cfg.Backend {
	case config.BackendSheets:
		s, err = sheets.Open(ctx, cfg.Location, cfg.Credentials)
	case config.BackendXLSX:
		s, err = excel.Open(cfg.Location)
	case config.BackendCSV:
		s, err = csvfile.Open(cfg.Location)
	case config.BackendS3:
		s, err = s3store.Open(ctx, aws.NewClientProvider(), cfg.Location, cfg.Prefix, cfg.Credentials, cfg.Region)
	default:
		s, err = sqlstore.Open(cfg.Driver, cfg.Location)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}
