package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/diillson/ticket-ledger/internal/adapter/driven/lock"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/report"
	"github.com/diillson/ticket-ledger/internal/adapter/driving/status"
	"github.com/diillson/ticket-ledger/internal/application/scheduler"
	"github.com/diillson/ticket-ledger/internal/application/usecase"
	"github.com/diillson/ticket-ledger/internal/domain/entity"
	"github.com/diillson/ticket-ledger/internal/domain/repository"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/diillson/ticket-ledger/pkg/console"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const defaultReportName = "ticket-summary"

func (app *CLIApp) newIngestCommand() *cobra.Command {
	keys := make([]string, len(entity.RangeKeys))
	for i, k := range entity.RangeKeys {
		keys[i] = string(k)
	}

	cmd := &cobra.Command{
		Use:   "ingest [range]",
		Short: "Fetch the sales report for a range and append its per-buyer totals to the ledger",
		Long: "Fetch the sales report for a range and append its per-buyer totals to the ledger.\n" +
			"Range is one of: " + strings.Join(keys, ", ") + " (default Today).",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: keys,
		RunE:      app.runIngest,
	}
	cmd.Flags().String("debug-dir", "", "Also write the raw report to <dir>/<range>.raw.csv")
	return cmd
}

func (app *CLIApp) newRebuildCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the summary pivot from the ledger and overwrite the summary region",
		Args:  cobra.NoArgs,
		RunE:  app.runRebuild,
	}
}

func (app *CLIApp) newShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the summary pivot built from the ledger without writing it",
		Args:  cobra.NoArgs,
		RunE:  app.runShow,
	}
}

func (app *CLIApp) newExportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the summary pivot to CSV, JSON or PDF files",
		Args:  cobra.NoArgs,
		RunE:  app.runExport,
	}
	cmd.Flags().StringP("report-name", "n", defaultReportName, "Base name for the report file (without extension)")
	cmd.Flags().StringSliceP("report-type", "y", []string{"csv"}, "Report types: csv, json, pdf")
	cmd.Flags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	return cmd
}

func (app *CLIApp) newScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run ingest and rebuild on their cron schedules and serve /healthz, /metrics and /summary",
		Args:  cobra.NoArgs,
		RunE:  app.runSchedule,
	}
	cmd.Flags().Bool("once", false, "Run ingest then rebuild once and exit")
	return cmd
}

func (app *CLIApp) newInstallBrowserCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "install-browser",
		Short: "Download the browser driver and Chromium used by the portal report source",
		Args:  cobra.NoArgs,
		RunE:  app.runInstallBrowser,
	}
}

func (app *CLIApp) runInstallBrowser(cmd *cobra.Command, args []string) error {
	_, _, out, err := app.setup(cmd, args)
	if err != nil {
		return err
	}
	if app.deps.InstallBrowser == nil {
		return fmt.Errorf("%w: browser installation is not available in this build", types.ErrConfig)
	}

	status := out.Status("Installing browser driver and Chromium")
	err = app.deps.InstallBrowser()
	status.Stop()
	if err != nil {
		return err
	}
	out.LogSuccess("Browser installed; the portal source is ready.")
	return nil
}

func (app *CLIApp) runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cliArgs, cfg, out, err := app.setup(cmd, args)
	if err != nil {
		return err
	}

	// a chave é validada antes de qualquer acesso à rede
	key, err := entity.ParseRangeKey(cliArgs.RangeKey)
	if err != nil {
		return err
	}
	app.greet(ctx, cfg, out)

	source, err := app.deps.OpenSource(cfg.Source)
	if err != nil {
		return err
	}
	if cliArgs.DebugDir != "" {
		source = report.NewDumpSource(source, cliArgs.DebugDir, string(key), out)
	}

	store, err := app.deps.OpenStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	timeout := time.Duration(cfg.Source.TimeoutSeconds) * time.Second
	_, err = usecase.NewIngestUseCase(source, store, out, cfg.Store.LedgerRegion, timeout).Run(ctx, string(key))
	return err
}

func (app *CLIApp) openRebuild(cmd *cobra.Command, args []string) (*usecase.RebuildUseCase, repository.TabularStore, *types.CLIArgs, types.ConsoleInterface, error) {
	ctx := cmd.Context()
	cliArgs, cfg, out, err := app.setup(cmd, args)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	app.greet(ctx, cfg, out)

	store, err := app.deps.OpenStore(ctx, cfg.Store)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	uc := usecase.NewRebuildUseCase(store, out, cfg.Store.LedgerRegion, cfg.Store.SummaryRegion)
	return uc, store, cliArgs, out, nil
}

func (app *CLIApp) runRebuild(cmd *cobra.Command, args []string) error {
	uc, store, _, _, err := app.openRebuild(cmd, args)
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = uc.Rebuild(cmd.Context())
	return err
}

func (app *CLIApp) runShow(cmd *cobra.Command, args []string) error {
	uc, store, _, out, err := app.openRebuild(cmd, args)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := uc.Preview(cmd.Context())
	if err != nil {
		return err
	}

	out.Println(uc.RenderTable(result.Pivot))
	out.LogInfo("%s ledger rows, %s blocks, %s columns kept, %s buyers",
		console.BrightCyan(result.Stats.Rows),
		console.BrightCyan(result.Stats.Blocks),
		console.BrightGreen(len(result.Pivot.Labels)),
		console.BrightGreen(len(result.Pivot.Buyers)))
	return nil
}

func (app *CLIApp) runExport(cmd *cobra.Command, args []string) error {
	uc, store, cliArgs, out, err := app.openRebuild(cmd, args)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := uc.Preview(cmd.Context())
	if err != nil {
		return err
	}

	name := cliArgs.ReportName
	if name == "" {
		name = defaultReportName
	}

	for _, reportType := range cliArgs.ReportType {
		var (
			path string
			err  error
		)
		switch strings.ToLower(strings.TrimSpace(reportType)) {
		case "csv":
			path, err = app.deps.Export.ExportSummaryToCSV(result.Pivot, name, cliArgs.Dir)
		case "json":
			path, err = app.deps.Export.ExportSummaryToJSON(result.Pivot, name, cliArgs.Dir)
		case "pdf":
			path, err = app.deps.Export.ExportSummaryToPDF(result.Pivot, name, cliArgs.Dir)
		default:
			out.LogWarning("Unknown report type %q, skipping", reportType)
			continue
		}
		if err != nil {
			return fmt.Errorf("exporting %s: %w", reportType, err)
		}
		out.LogSuccess("Summary exported to %s", console.BrightMagenta(path))
	}
	return nil
}

func (app *CLIApp) runSchedule(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	_, cfg, out, err := app.setup(cmd, args)
	if err != nil {
		return err
	}
	once, _ := cmd.Flags().GetBool("once")

	if _, err := entity.ParseRangeKey(cfg.Schedule.RangeKey); err != nil {
		return fmt.Errorf("%w: schedule.range_key: %w", types.ErrConfig, err)
	}

	source, err := app.deps.OpenSource(cfg.Source)
	if err != nil {
		return err
	}
	store, err := app.deps.OpenStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	var locker scheduler.Locker
	if cfg.Schedule.RedisAddr != "" {
		client, err := lock.Dial(ctx, cfg.Schedule.RedisAddr, cfg.Schedule.RedisPassword)
		if err != nil {
			return fmt.Errorf("%w: %w", types.ErrConfig, err)
		}
		defer client.Close()
		ttl := time.Duration(cfg.Schedule.LockTTLSeconds) * time.Second
		locker = lock.NewRedisLock(client, cfg.Store.Location, ttl)
	}

	timeout := time.Duration(cfg.Source.TimeoutSeconds) * time.Second
	ingestJob := scheduler.IngestJob{
		UseCase:  usecase.NewIngestUseCase(source, store, out, cfg.Store.LedgerRegion, timeout),
		RangeKey: cfg.Schedule.RangeKey,
	}
	rebuild := usecase.NewRebuildUseCase(store, out, cfg.Store.LedgerRegion, cfg.Store.SummaryRegion)
	rebuildJob := scheduler.RebuildJob{UseCase: rebuild}

	s := scheduler.New(out, locker)

	if once {
		if s.RunOnce(ctx, ingestJob) != scheduler.Ran {
			return fmt.Errorf("ingest did not complete")
		}
		if s.RunOnce(ctx, rebuildJob) != scheduler.Ran {
			return fmt.Errorf("rebuild did not complete")
		}
		return nil
	}

	if err := s.Add(cfg.Schedule.IngestCron, ingestJob); err != nil {
		return err
	}
	if err := s.Add(cfg.Schedule.RebuildCron, rebuildJob); err != nil {
		return err
	}
	s.Start()
	defer s.Stop()

	if cfg.Schedule.StatusAddr == "off" {
		out.LogInfo("Status server disabled")
		<-ctx.Done()
		return nil
	}
	srv := status.NewServer(app.logger(out), status.Config{
		Addr:    cfg.Schedule.StatusAddr,
		Version: app.version,
	}, rebuild)
	return srv.Run(ctx)
}

// logger reuses the JSON console's logger so both write the same stream.
func (app *CLIApp) logger(out types.ConsoleInterface) zerolog.Logger {
	if jc, ok := out.(*console.JSONConsole); ok {
		return jc.Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}
