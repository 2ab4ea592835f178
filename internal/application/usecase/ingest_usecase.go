package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/domain/repository"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/google/uuid"
)

// IngestUseCase fetches one report export, aggregates it per buyer and appends
// the result to the ledger as a new block.
type IngestUseCase struct {
	source       repository.ReportSource
	store        repository.TabularStore
	console      types.ConsoleInterface
	ledgerRegion string
	timeout      time.Duration
	now          func() time.Time
}

// IngestResult describes one completed ingest run.
type IngestResult struct {
	RunID string
	Key   entity.RangeKey
	Span  entity.DateSpan
	Block entity.LedgerBlock
}

// NewIngestUseCase creates a new ingest use case. A zero timeout leaves the fetch unbounded.
func NewIngestUseCase(
	source repository.ReportSource,
	store repository.TabularStore,
	console types.ConsoleInterface,
	ledgerRegion string,
	timeout time.Duration,
) *IngestUseCase {
	return &IngestUseCase{
		source:       source,
		store:        store,
		console:      console,
		ledgerRegion: ledgerRegion,
		timeout:      timeout,
		now:          time.Now,
	}
}

// WithClock replaces the clock used to resolve ranges and label blocks.
func (uc *IngestUseCase) WithClock(now func() time.Time) *IngestUseCase {
	uc.now = now
	return uc
}

// Run executes the ingest flow for rawKey. The key is validated before any
// collaborator is touched.
func (uc *IngestUseCase) Run(ctx context.Context, rawKey string) (*IngestResult, error) {
	key, err := entity.ParseRangeKey(rawKey)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	result := &IngestResult{
		RunID: uuid.NewString(),
		Key:   key,
		Span:  key.Resolve(now),
	}
	uc.console.LogInfo("Running for range: %s (%s) [run %s]", key, result.Span, result.RunID)

	if err := uc.run(ctx, result, now); err != nil {
		uc.console.LogError("Ingest run %s failed: %v", result.RunID, err)
		return nil, err
	}
	return result, nil
}

func (uc *IngestUseCase) run(ctx context.Context, result *IngestResult, now time.Time) error {
	text, err := uc.fetch(ctx, result.Span)
	if err != nil {
		return err
	}

	rows, err := AggregateReport(text)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		uc.console.LogWarning("Report for %s has no data rows; appending an empty block", result.Key)
	}

	result.Block = entity.NewLedgerBlock(result.Key, now, rows)
	if err := uc.store.Append(ctx, uc.ledgerRegion, result.Block.Matrix()); err != nil {
		if errors.Is(err, types.ErrStoreWrite) {
			return err
		}
		return fmt.Errorf("%w: appending to %s: %w", types.ErrStoreWrite, uc.ledgerRegion, err)
	}

	uc.console.LogSuccess("Appended block %q with %d buyers to %s [run %s]", result.Block.Label, len(rows), uc.ledgerRegion, result.RunID)
	if len(rows) > 0 {
		bars := make([]types.BarValue, 0, len(rows))
		for _, r := range rows {
			bars = append(bars, types.BarValue{Label: r.Buyer, Value: r.Total})
		}
		uc.console.DisplayTotalsBars(bars)
	}
	return nil
}

func (uc *IngestUseCase) fetch(ctx context.Context, span entity.DateSpan) (string, error) {
	if uc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.timeout)
		defer cancel()
	}

	status := uc.console.Status(fmt.Sprintf("Fetching report for %s", span))
	defer status.Stop()

	text, err := uc.source.Fetch(ctx, span)
	if err != nil {
		if errors.Is(err, types.ErrSourceUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %w", types.ErrSourceUnavailable, err)
	}
	return text, nil
}
