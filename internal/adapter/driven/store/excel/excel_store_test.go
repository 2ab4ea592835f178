package excel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func block(label string, rows ...entity.Row) entity.Matrix {
	m := entity.Matrix{{label}, {entity.HeaderBuyer, entity.HeaderTotal}}
	m = append(m, rows...)
	return append(m, entity.Row{})
}

func TestStore_ReadMissingWorkbook(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "ledger.xlsx"))
	require.NoError(t, err)

	got, err := s.Read(context.Background(), "RawData")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_AppendLeavesGapBetweenBlocks(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.xlsx"))
	require.NoError(t, err)

	require.NoError(t, s.Append(ctx, "RawData", block("Today (3/15/2026)", entity.Row{"Ann", 5})))
	require.NoError(t, s.Append(ctx, "RawData", block("Yesterday (3/15/2026)", entity.Row{"Bob", 2})))

	got, err := s.Read(ctx, "RawData")
	require.NoError(t, err)
	require.Len(t, got, 7)
	assert.Equal(t, []string{"Today (3/15/2026)"}, got[0])
	assert.Equal(t, []string{"Ann", "5"}, got[2])
	assert.Empty(t, got[3])
	assert.Equal(t, []string{"Yesterday (3/15/2026)"}, got[4])
	assert.Equal(t, []string{"Bob", "2"}, got[6])

	blocks, stats := entity.ScanLedger(got)
	require.Len(t, blocks, 2)
	assert.Zero(t, stats.Malformed)
}

func TestStore_OverwriteReplacesSheet(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	s, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, s.Overwrite(ctx, "Summary", entity.Matrix{{"Buyer", "A", "B"}, {"Ann", 1, 2}, {"Bob", 3, 4}}))
	require.NoError(t, s.Overwrite(ctx, "Summary", entity.Matrix{{"Buyer", "A"}, {"Cy", 7}}))

	got, err := s.Read(ctx, "Summary")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Buyer", "A"}, {"Cy", "7"}}, got)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "7", v)
}

func TestStore_CancelledContext(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "ledger.xlsx"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Append(ctx, "RawData", entity.Matrix{{"x"}}), types.ErrStoreWrite)
	_, err = s.Read(ctx, "RawData")
	assert.ErrorIs(t, err, types.ErrStoreRead)
}
