package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore() *memoryStore {
	store := newMemoryStore()
	store.regions["RawData"] = [][]string{
		{"A"}, {"Buyer", "Tickets Purchased"}, {"Alice", "0"}, {"Bob", "0"}, {},
		{"B"}, {"Buyer", "Tickets Purchased"}, {"Alice", "3"}, {"Bob", "0"}, {},
	}
	return store
}

func TestRebuild_OverwritesSummary(t *testing.T) {
	store := seededStore()
	store.regions["Summary"] = [][]string{{"stale", "stale", "stale"}, {"old"}, {"older"}}
	uc := NewRebuildUseCase(store, nopConsole{}, "RawData", "Summary")

	result, err := uc.Rebuild(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, result.Pivot.Labels)
	assert.Equal(t, [][]string{
		{"Buyer", "B"},
		{"Alice", "3"},
		{"Bob", "0"},
	}, store.regions["Summary"])
}

func TestRebuild_Idempotent(t *testing.T) {
	store := seededStore()
	uc := NewRebuildUseCase(store, nopConsole{}, "RawData", "Summary")

	_, err := uc.Rebuild(context.Background())
	require.NoError(t, err)
	first := store.regions["Summary"]

	_, err = uc.Rebuild(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, store.regions["Summary"])
	assert.Equal(t, 2, store.overwrites)
}

func TestRebuild_ReadFailureDoesNotOverwrite(t *testing.T) {
	store := seededStore()
	store.readErr = errors.New("permission denied")
	uc := NewRebuildUseCase(store, nopConsole{}, "RawData", "Summary")

	_, err := uc.Rebuild(context.Background())

	assert.ErrorIs(t, err, types.ErrStoreRead)
	assert.Zero(t, store.overwrites)
}

func TestRebuild_WriteFailure(t *testing.T) {
	store := seededStore()
	store.writeErr = errors.New("disk full")
	uc := NewRebuildUseCase(store, nopConsole{}, "RawData", "Summary")

	_, err := uc.Rebuild(context.Background())

	assert.ErrorIs(t, err, types.ErrStoreWrite)
}

func TestPreview_DoesNotWrite(t *testing.T) {
	store := seededStore()
	store.regions["RawData"] = append(store.regions["RawData"], []string{"x", "y", "z"})
	uc := NewRebuildUseCase(store, nopConsole{}, "RawData", "Summary")

	result, err := uc.Preview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Stats.Malformed)
	assert.Zero(t, store.overwrites)
	assert.NotContains(t, store.regions, "Summary")
}

func TestRenderTable(t *testing.T) {
	store := seededStore()
	uc := NewRebuildUseCase(store, nopConsole{}, "RawData", "Summary")
	result, err := uc.Preview(context.Background())
	require.NoError(t, err)

	out := uc.RenderTable(result.Pivot)

	assert.Equal(t, "[Buyer B] [[Alice 3] [Bob 0]]", out)
}

func TestRebuild_LogsRunIDAtStartAndOutcome(t *testing.T) {
	console := newRecordingConsole()
	uc := NewRebuildUseCase(seededStore(), console, "RawData", "Summary")

	result, err := uc.Rebuild(context.Background())

	require.NoError(t, err)
	require.NotEmpty(t, result.RunID)
	require.Len(t, console.lines["info"], 1)
	assert.Contains(t, console.lines["info"][0], "[run "+result.RunID+"]")
	require.Len(t, console.lines["success"], 1)
	assert.Contains(t, console.lines["success"][0], "[run "+result.RunID+"]")
}

func TestRebuild_FailureLogsRunID(t *testing.T) {
	store := seededStore()
	store.writeErr = errors.New("disk full")
	console := newRecordingConsole()
	uc := NewRebuildUseCase(store, console, "RawData", "Summary")

	_, err := uc.Rebuild(context.Background())

	require.Error(t, err)
	require.Len(t, console.lines["info"], 1)
	require.Len(t, console.lines["error"], 1)
	runID := strings.TrimSuffix(console.lines["info"][0][strings.LastIndex(console.lines["info"][0], "[run ")+5:], "]")
	assert.Contains(t, console.lines["error"][0], "Rebuild run "+runID+" failed")
	assert.Contains(t, console.lines["error"][0], "disk full")
	assert.Empty(t, console.lines["success"])
}
