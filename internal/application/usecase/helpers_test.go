package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/stretchr/testify/mock"
)

type nopConsole struct{}

func (nopConsole) Print(a ...interface{})                     {}
func (nopConsole) Printf(format string, a ...interface{})     {}
func (nopConsole) Println(a ...interface{})                   {}
func (nopConsole) LogInfo(format string, a ...interface{})    {}
func (nopConsole) LogWarning(format string, a ...interface{}) {}
func (nopConsole) LogError(format string, a ...interface{})   {}
func (nopConsole) LogSuccess(format string, a ...interface{}) {}
func (nopConsole) Status(message string) types.StatusHandle   { return nopStatus{} }
func (nopConsole) CreateTable() types.TableInterface          { return &nopTable{} }
func (nopConsole) DisplayTotalsBars(values []types.BarValue)  {}

// recordingConsole keeps the formatted log lines by level.
type recordingConsole struct {
	nopConsole
	lines map[string][]string
}

func newRecordingConsole() *recordingConsole {
	return &recordingConsole{lines: make(map[string][]string)}
}

func (c *recordingConsole) record(level, format string, a ...interface{}) {
	c.lines[level] = append(c.lines[level], fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogInfo(format string, a ...interface{}) { c.record("info", format, a...) }
func (c *recordingConsole) LogError(format string, a ...interface{}) {
	c.record("error", format, a...)
}
func (c *recordingConsole) LogSuccess(format string, a ...interface{}) {
	c.record("success", format, a...)
}

type nopStatus struct{}

func (nopStatus) Update(message string) {}
func (nopStatus) Stop()                 {}

type nopTable struct {
	columns []string
	rows    [][]interface{}
}

func (t *nopTable) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}
func (t *nopTable) AddRow(cells ...interface{}) { t.rows = append(t.rows, cells) }
func (t *nopTable) Render() string              { return fmt.Sprint(t.columns, t.rows) }

type mockSource struct{ mock.Mock }

func (m *mockSource) Fetch(ctx context.Context, span entity.DateSpan) (string, error) {
	args := m.Called(ctx, span)
	return args.String(0), args.Error(1)
}

// memoryStore keeps regions as string cells, the way every backend reads them back.
type memoryStore struct {
	mu         sync.Mutex
	regions    map[string][][]string
	readErr    error
	writeErr   error
	overwrites int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{regions: make(map[string][][]string)}
}

func toCells(rows entity.Matrix) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, c := range row {
			cells = append(cells, fmt.Sprint(c))
		}
		out = append(out, cells)
	}
	return out
}

func (s *memoryStore) Read(ctx context.Context, region string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	return append([][]string(nil), s.regions[region]...), nil
}

func (s *memoryStore) Append(ctx context.Context, region string, rows entity.Matrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.regions[region] = append(s.regions[region], toCells(rows)...)
	return nil
}

func (s *memoryStore) Overwrite(ctx context.Context, region string, rows entity.Matrix) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	s.overwrites++
	s.regions[region] = toCells(rows)
	return nil
}

func (s *memoryStore) Close() error { return nil }
