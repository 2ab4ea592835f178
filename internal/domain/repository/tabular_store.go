package repository

import (
	"context"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
)

// TabularStore persists rows of cells in named regions.
//
// The ledger region is only ever appended to and the summary region is only
// ever overwritten as a whole. Implementations provide no locking; callers
// serialize runs against the same store.
type TabularStore interface {
	// Read returns every row of the region in storage order. A missing region reads as empty.
	Read(ctx context.Context, region string) ([][]string, error)
	// Append adds rows after the region's current contents.
	Append(ctx context.Context, region string, rows entity.Matrix) error
	// Overwrite replaces the region's contents with rows.
	Overwrite(ctx context.Context, region string, rows entity.Matrix) error
	Close() error
}
