package report

import (
	"context"
	"os"
	"path/filepath"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/domain/repository"
	"github.com/diillson/ticket-ledger/internal/shared/types"
)

// DumpSource writes every fetched export to <dir>/<name>.raw.csv before returning it.
// A failed dump is logged and never fails the fetch.
type DumpSource struct {
	inner   repository.ReportSource
	dir     string
	name    string
	console types.ConsoleInterface
}

func NewDumpSource(inner repository.ReportSource, dir, name string, console types.ConsoleInterface) *DumpSource {
	return &DumpSource{inner: inner, dir: dir, name: name, console: console}
}

func (s *DumpSource) Fetch(ctx context.Context, span entity.DateSpan) (string, error) {
	text, err := s.inner.Fetch(ctx, span)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, s.name+".raw.csv")
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.console.LogWarning("Could not create debug dir %s: %v", s.dir, err)
		return text, nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		s.console.LogWarning("Could not write %s: %v", path, err)
		return text, nil
	}
	s.console.LogInfo("Wrote raw report to %s", path)
	return text, nil
}
