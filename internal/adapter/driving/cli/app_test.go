package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/diillson/ticket-ledger/internal/adapter/driven/config"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/export"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/report"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/store"
	"github.com/diillson/ticket-ledger/internal/domain/repository"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = "Sales report\n" +
	"Generated for the account\n" +
	"\"Request Date and Time\",\"User Name\",\"Order QTY\"\n" +
	"\"2026-03-15 10:00\",\"Ann\",\"2\"\n" +
	"\"2026-03-15 11:00\",\"Bob\",\"3\"\n" +
	"\"2026-03-15 12:00\",\"Ann\",\"1\"\n"

type testEnv struct {
	dir        string
	configFile string
	out        *bytes.Buffer
	sources    int
	installs   int
	installErr error
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	exportPath := filepath.Join(dir, "export.csv")
	require.NoError(t, os.WriteFile(exportPath, []byte(sampleExport), 0o644))

	configFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(fmt.Sprintf(
		"store:\n  backend: csv\n  location: %q\nsource:\n  kind: file\n  file_path: %q\nlog:\n  format: json\n",
		filepath.Join(dir, "ledger"), exportPath,
	)), 0o644))

	return &testEnv{dir: dir, configFile: configFile, out: &bytes.Buffer{}}
}

func (e *testEnv) run(args ...string) error {
	app := NewCLIApp("1.0.0", Dependencies{
		Config: config.NewConfigRepository(filepath.Join(e.dir, "missing.env")),
		Export: export.NewExportRepository(),
		OpenStore: func(ctx context.Context, cfg types.StoreConfig) (repository.TabularStore, error) {
			return store.Open(ctx, cfg)
		},
		OpenSource: func(cfg types.SourceConfig) (repository.ReportSource, error) {
			e.sources++
			return report.Open(cfg)
		},
		InstallBrowser: func() error {
			e.installs++
			return e.installErr
		},
		Out: e.out,
	})
	app.SetArgs(append([]string{"-C", e.configFile}, args...))
	return app.Execute()
}

func (e *testEnv) readRegion(t *testing.T, region string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.dir, "ledger", region+".csv"))
	require.NoError(t, err)
	return string(data)
}

func TestIngestRebuildShowExport(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("ingest", "This month", "--debug-dir", filepath.Join(env.dir, "debug")))
	ledger := env.readRegion(t, "RawData")
	assert.Contains(t, ledger, "This month (")
	assert.Contains(t, ledger, "Buyer,Tickets Purchased\nAnn,3\nBob,3\n")
	assert.FileExists(t, filepath.Join(env.dir, "debug", "This month.raw.csv"))

	require.NoError(t, env.run("rebuild"))
	summary := env.readRegion(t, "Summary")
	assert.Contains(t, summary, "Ann,3\nBob,3\n")

	env.out.Reset()
	require.NoError(t, env.run("show"))
	assert.Contains(t, env.out.String(), `\"columns\":[\"Buyer\"`)

	outDir := filepath.Join(env.dir, "reports")
	require.NoError(t, env.run("export", "--report-type", "csv,json,xml", "--dir", outDir, "--report-name", "tickets"))
	csvFiles, _ := filepath.Glob(filepath.Join(outDir, "tickets_*.csv"))
	jsonFiles, _ := filepath.Glob(filepath.Join(outDir, "tickets_*.json"))
	assert.Len(t, csvFiles, 1)
	assert.Len(t, jsonFiles, 1)
	assert.Contains(t, env.out.String(), `Unknown report type \"xml\"`)
}

func TestIngest_InvalidRangeKeyTouchesNothing(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("ingest", "Tomorrow")

	assert.ErrorIs(t, err, types.ErrInvalidRangeKey)
	assert.Zero(t, env.sources)
	assert.NoDirExists(t, filepath.Join(env.dir, "ledger"))
}

func TestIngest_TooManyArgs(t *testing.T) {
	env := newTestEnv(t)
	assert.Error(t, env.run("ingest", "Today", "Yesterday"))
}

func TestScheduleOnce(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("schedule", "--once"))

	assert.Contains(t, env.readRegion(t, "RawData"), "Today (")
	assert.Contains(t, env.readRegion(t, "Summary"), "Ann,3")
}

func TestUnknownLogFormat(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("--log-format", "xml", "rebuild")

	assert.ErrorIs(t, err, types.ErrConfig)
}

func TestStoreBackendFlagOverridesConfig(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("--store-backend", "ftp", "rebuild")

	assert.ErrorIs(t, err, types.ErrConfig)
}

func TestInstallBrowser(t *testing.T) {
	e := newTestEnv(t)

	require.NoError(t, e.run("install-browser"))
	assert.Equal(t, 1, e.installs)
	assert.Zero(t, e.sources)

	e.installErr = errors.New("download blocked")
	err := e.run("install-browser")
	assert.ErrorContains(t, err, "download blocked")
	assert.Equal(t, 2, e.installs)
}
