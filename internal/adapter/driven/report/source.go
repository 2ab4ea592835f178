package report

import (
	"github.com/diillson/ticket-ledger/internal/adapter/driven/config"
	"github.com/diillson/ticket-ledger/internal/domain/repository"
	"github.com/diillson/ticket-ledger/internal/shared/types"
)

// Open validates cfg and returns the configured source.
func Open(cfg types.SourceConfig) (repository.ReportSource, error) {
	if err := config.ValidateSource(cfg); err != nil {
		return nil, err
	}
	if cfg.Kind == config.SourceFile {
		return NewFileSource(cfg.FilePath), nil
	}
	return NewPortalSource(cfg), nil
}
