package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AppendRead(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "ledger"))
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Read(ctx, "RawData")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.Append(ctx, "RawData", entity.Matrix{{"Today (3/15/2026)"}, {"Buyer", "Tickets Purchased"}, {"Ann", 5}, {}}))
	require.NoError(t, s.Append(ctx, "RawData", entity.Matrix{{"Yesterday (3/15/2026)"}, {"Buyer", "Tickets Purchased"}, {"Bob", 2}, {}}))

	got, err = s.Read(ctx, "RawData")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Today (3/15/2026)"},
		{"Buyer", "Tickets Purchased"},
		{"Ann", "5"},
		{"Yesterday (3/15/2026)"},
		{"Buyer", "Tickets Purchased"},
		{"Bob", "2"},
	}, got)
}

func TestStore_OverwriteReplaces(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, s.Overwrite(ctx, "Summary", entity.Matrix{{"Buyer", "A", "B"}, {"Ann", 1, 2}, {"Bob", 3, 4}}))
	require.NoError(t, s.Overwrite(ctx, "Summary", entity.Matrix{{"Buyer"}}))

	got, err := s.Read(ctx, "Summary")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Buyer"}}, got)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Summary.csv", entries[0].Name())
}

func TestStore_RejectsBadRegion(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	_, err = s.Read(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, types.ErrStoreRead)

	err = s.Append(context.Background(), "", entity.Matrix{{"x"}})
	assert.ErrorIs(t, err, types.ErrStoreWrite)
}

func TestStore_CancelledContext(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = s.Overwrite(ctx, "Summary", entity.Matrix{{"Buyer"}})
	assert.ErrorIs(t, err, types.ErrStoreWrite)
	assert.ErrorIs(t, err, context.Canceled)
}
