package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/domain/repository"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/google/uuid"
)

// RebuildUseCase derives the pivot summary from the full ledger.
type RebuildUseCase struct {
	store         repository.TabularStore
	console       types.ConsoleInterface
	ledgerRegion  string
	summaryRegion string
}

// RebuildResult is the pivot built from the ledger and how the ledger scanned.
// RunID is set by Rebuild; previews are not runs.
type RebuildResult struct {
	RunID string
	Pivot entity.PivotTable
	Stats entity.ScanStats
}

// NewRebuildUseCase creates a new rebuild use case.
func NewRebuildUseCase(
	store repository.TabularStore,
	console types.ConsoleInterface,
	ledgerRegion string,
	summaryRegion string,
) *RebuildUseCase {
	return &RebuildUseCase{
		store:         store,
		console:       console,
		ledgerRegion:  ledgerRegion,
		summaryRegion: summaryRegion,
	}
}

// Preview reads the ledger and builds the pivot without writing anything.
func (uc *RebuildUseCase) Preview(ctx context.Context) (*RebuildResult, error) {
	rows, err := uc.store.Read(ctx, uc.ledgerRegion)
	if err != nil {
		if errors.Is(err, types.ErrStoreRead) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: reading %s: %w", types.ErrStoreRead, uc.ledgerRegion, err)
	}

	blocks, stats := entity.ScanLedger(rows)
	if stats.Malformed > 0 {
		uc.console.LogWarning("Skipped %d malformed ledger rows in %s", stats.Malformed, uc.ledgerRegion)
	}

	return &RebuildResult{Pivot: entity.BuildPivot(blocks), Stats: stats}, nil
}

// Rebuild builds the pivot and overwrites the summary region with it.
func (uc *RebuildUseCase) Rebuild(ctx context.Context) (*RebuildResult, error) {
	runID := uuid.NewString()
	uc.console.LogInfo("Rebuilding %s from %s [run %s]", uc.summaryRegion, uc.ledgerRegion, runID)

	result, err := uc.rebuild(ctx)
	if err != nil {
		uc.console.LogError("Rebuild run %s failed: %v", runID, err)
		return nil, err
	}
	result.RunID = runID

	uc.console.LogSuccess("Summary updated with %d columns and %d buyers [run %s]", len(result.Pivot.Labels), len(result.Pivot.Buyers), runID)
	return result, nil
}

func (uc *RebuildUseCase) rebuild(ctx context.Context) (*RebuildResult, error) {
	result, err := uc.Preview(ctx)
	if err != nil {
		return nil, err
	}

	if err := uc.store.Overwrite(ctx, uc.summaryRegion, result.Pivot.Matrix()); err != nil {
		if errors.Is(err, types.ErrStoreWrite) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: overwriting %s: %w", types.ErrStoreWrite, uc.summaryRegion, err)
	}
	return result, nil
}

// RenderTable draws the pivot through the console table.
func (uc *RebuildUseCase) RenderTable(pivot entity.PivotTable) string {
	table := uc.console.CreateTable()
	for _, h := range pivot.Header() {
		table.AddColumn(h)
	}
	for _, row := range pivot.Matrix()[1:] {
		table.AddRow(row...)
	}
	return table.Render()
}
