package scheduler

import (
	"context"

	"github.com/diillson/ticket-ledger/internal/application/usecase"
	"github.com/diillson/ticket-ledger/internal/metrics"
)

// IngestJob appends one ledger block for a fixed range key.
type IngestJob struct {
	UseCase  *usecase.IngestUseCase
	RangeKey string
}

func (j IngestJob) Name() string { return "ingest" }

func (j IngestJob) Run(ctx context.Context) error {
	result, err := j.UseCase.Run(ctx, j.RangeKey)
	if err != nil {
		return err
	}
	metrics.BuyersIngested.Set(float64(len(result.Block.Rows)))
	return nil
}

// RebuildJob rewrites the summary from the ledger.
type RebuildJob struct {
	UseCase *usecase.RebuildUseCase
}

func (j RebuildJob) Name() string { return "rebuild" }

func (j RebuildJob) Run(ctx context.Context) error {
	result, err := j.UseCase.Rebuild(ctx)
	if err != nil {
		return err
	}
	metrics.PivotColumns.Set(float64(len(result.Pivot.Labels)))
	metrics.PivotBuyers.Set(float64(len(result.Pivot.Buyers)))
	metrics.MalformedRows.Set(float64(result.Stats.Malformed))
	return nil
}
