package report

import (
	"context"
	"fmt"
	"os"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/shared/types"
)

// FileSource returns a previously downloaded export regardless of the span.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Fetch(ctx context.Context, _ entity.DateSpan) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrSourceUnavailable, err)
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", types.ErrSourceUnavailable, err)
	}
	return string(data), nil
}
