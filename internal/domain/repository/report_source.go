package repository

import (
	"context"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
)

// ReportSource fetches the raw vendor sales report for a date span.
type ReportSource interface {
	Fetch(ctx context.Context, span entity.DateSpan) (string, error)
}
