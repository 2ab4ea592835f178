package scheduler

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/diillson/ticket-ledger/internal/adapter/driven/report"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/store/csvfile"
	"github.com/diillson/ticket-ledger/internal/application/usecase"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/diillson/ticket-ledger/pkg/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type funcJob struct {
	name string
	fn   func(ctx context.Context) error
}

func (j funcJob) Name() string                  { return j.name }
func (j funcJob) Run(ctx context.Context) error { return j.fn(ctx) }

type fakeLocker struct {
	mu       sync.Mutex
	held     bool
	err      error
	released int
}

func (l *fakeLocker) TryLock(context.Context) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held {
		return nil, false, nil
	}
	l.held = true
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.held = false
		l.released++
	}, true, nil
}

func newTestScheduler(locker Locker) (*Scheduler, *bytes.Buffer) {
	var logs bytes.Buffer
	return New(console.NewJSONConsole(&logs, "debug"), locker), &logs
}

func TestRunOnce_Outcomes(t *testing.T) {
	s, logs := newTestScheduler(nil)

	assert.Equal(t, Ran, s.RunOnce(context.Background(), funcJob{"ok", func(context.Context) error { return nil }}))
	assert.Equal(t, Failed, s.RunOnce(context.Background(), funcJob{"bad", func(context.Context) error { return errors.New("boom") }}))
	assert.Contains(t, logs.String(), "bad failed")
}

func TestRunOnce_SkipsWhileAnotherRunIsInProgress(t *testing.T) {
	s, _ := newTestScheduler(nil)
	started := make(chan struct{})
	finish := make(chan struct{})

	done := make(chan Outcome)
	go func() {
		done <- s.RunOnce(context.Background(), funcJob{"slow", func(context.Context) error {
			close(started)
			<-finish
			return nil
		}})
	}()
	<-started

	calls := 0
	outcome := s.RunOnce(context.Background(), funcJob{"second", func(context.Context) error {
		calls++
		return nil
	}})

	assert.Equal(t, Skipped, outcome)
	assert.Zero(t, calls)

	close(finish)
	assert.Equal(t, Ran, <-done)
}

func TestRunOnce_UsesSharedLock(t *testing.T) {
	locker := &fakeLocker{}
	s, _ := newTestScheduler(locker)
	job := funcJob{"ingest", func(context.Context) error { return nil }}

	assert.Equal(t, Ran, s.RunOnce(context.Background(), job))
	assert.Equal(t, 1, locker.released)

	locker.held = true
	assert.Equal(t, Skipped, s.RunOnce(context.Background(), job))

	locker.held = false
	locker.err = errors.New("redis down")
	assert.Equal(t, Failed, s.RunOnce(context.Background(), job))
}

func TestAdd_RejectsBadSpec(t *testing.T) {
	s, _ := newTestScheduler(nil)

	err := s.Add("every minute", funcJob{"ingest", func(context.Context) error { return nil }})
	assert.ErrorIs(t, err, types.ErrConfig)

	require.NoError(t, s.Add("*/5 * * * *", funcJob{"ingest", func(context.Context) error { return nil }}))
}

func TestStop_CancelsRunningJob(t *testing.T) {
	s, _ := newTestScheduler(nil)
	s.Start()

	running := make(chan struct{})
	result := make(chan error, 1)
	go s.RunOnce(s.ctx, funcJob{"long", func(ctx context.Context) error {
		close(running)
		<-ctx.Done()
		result <- ctx.Err()
		return ctx.Err()
	}})
	<-running

	s.Stop()

	select {
	case err := <-result:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("job was not cancelled")
	}
}

const export = "Sales report\n" +
	"\"Request Date and Time\",\"User Name\",\"Order QTY\"\n" +
	"\"2026-03-15 10:00\",\"Ann\",\"2\"\n" +
	"\"2026-03-15 11:00\",\"Bob\",\"3\"\n" +
	"\"2026-03-15 12:00\",\"Ann\",\"1\"\n"

func TestJobs_IngestThenRebuild(t *testing.T) {
	dir := t.TempDir()
	exportPath := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(exportPath, []byte(export), 0o644))

	store, err := csvfile.Open(filepath.Join(dir, "ledger"))
	require.NoError(t, err)

	var logs bytes.Buffer
	out := console.NewJSONConsole(&logs, "info")
	ingest := usecase.NewIngestUseCase(report.NewFileSource(exportPath), store, out, "RawData", time.Minute)
	rebuild := usecase.NewRebuildUseCase(store, out, "RawData", "Summary")

	s := New(out, nil)
	require.Equal(t, Ran, s.RunOnce(context.Background(), IngestJob{UseCase: ingest, RangeKey: "Today"}))
	require.Equal(t, Ran, s.RunOnce(context.Background(), RebuildJob{UseCase: rebuild}))

	summary, err := store.Read(context.Background(), "Summary")
	require.NoError(t, err)
	require.Len(t, summary, 3)
	assert.Equal(t, []string{"Ann", "3"}, summary[1])
	assert.Equal(t, []string{"Bob", "3"}, summary[2])

	assert.Equal(t, Failed, s.RunOnce(context.Background(), IngestJob{UseCase: ingest, RangeKey: "Tomorrow"}))
}
