package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/diillson/ticket-ledger/internal/domain/repository"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/diillson/ticket-ledger/pkg/console"
	"github.com/diillson/ticket-ledger/pkg/version"
	"github.com/spf13/cobra"
)

// Dependencies são os adaptadores injetados pelo main.
type Dependencies struct {
	Config     repository.ConfigRepository
	Export     repository.ExportRepository
	OpenStore  func(ctx context.Context, cfg types.StoreConfig) (repository.TabularStore, error)
	OpenSource func(cfg types.SourceConfig) (repository.ReportSource, error)
	// InstallBrowser provisions what the portal source needs to run.
	InstallBrowser func() error
	// Out receives JSON console output. Defaults to os.Stdout.
	Out io.Writer
}

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd *cobra.Command
	deps    Dependencies
	version string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, deps Dependencies) *CLIApp {
	if deps.Out == nil {
		deps.Out = os.Stdout
	}
	app := &CLIApp{
		deps:    deps,
		version: versionStr,
	}

	rootCmd := &cobra.Command{
		Use:           "ticket-ledger",
		Short:         "Keeps a ledger of ticket purchases per buyer and a pivot summary of it",
		Version:       version.FormatVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(`{{printf "ticket-ledger version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().String("log-format", "", "Output format: pretty or json (default: pretty)")
	rootCmd.PersistentFlags().String("store-backend", "", "Store backend: sheets, xlsx, csv, s3 or sql")

	rootCmd.AddCommand(
		app.newIngestCommand(),
		app.newRebuildCommand(),
		app.newShowCommand(),
		app.newExportCommand(),
		app.newScheduleCommand(),
		app.newInstallBrowserCommand(),
	)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application. SIGINT and SIGTERM cancel the running command.
func (app *CLIApp) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.rootCmd.ExecuteContext(ctx)
}

// SetArgs replaces os.Args[1:], for tests.
func (app *CLIApp) SetArgs(args []string) {
	app.rootCmd.SetArgs(args)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs(cmd *cobra.Command, args []string) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	logFormat, _ := flags.GetString("log-format")
	storeBackend, _ := flags.GetString("store-backend")
	debugDir, _ := flags.GetString("debug-dir")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")

	rangeKey := "Today"
	if len(args) > 0 {
		rangeKey = args[0]
	}

	if cmd.Flags().Lookup("dir") != nil {
		if dir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, err
			}
			dir = cwd
		} else {
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return nil, err
			}
			dir = absDir
		}
	}

	return &types.CLIArgs{
		ConfigFile:   configFile,
		LogFormat:    strings.ToLower(logFormat),
		StoreBackend: storeBackend,
		RangeKey:     rangeKey,
		DebugDir:     debugDir,
		ReportName:   reportName,
		ReportType:   reportType,
		Dir:          dir,
	}, nil
}

// setup loads the configuration with the flag overrides and picks the console.
func (app *CLIApp) setup(cmd *cobra.Command, args []string) (*types.CLIArgs, *types.Config, types.ConsoleInterface, error) {
	cliArgs, err := app.parseArgs(cmd, args)
	if err != nil {
		return nil, nil, nil, err
	}

	cfg, err := app.deps.Config.Load(cliArgs.ConfigFile, func(c *types.Config) {
		if cliArgs.StoreBackend != "" {
			c.Store.Backend = cliArgs.StoreBackend
		}
		if cliArgs.LogFormat != "" {
			c.Log.Format = cliArgs.LogFormat
		}
	})
	if err != nil {
		return nil, nil, nil, err
	}

	switch cfg.Log.Format {
	case "json":
		return cliArgs, cfg, console.NewJSONConsole(app.deps.Out, cfg.Log.Level), nil
	case "pretty":
		return cliArgs, cfg, console.NewConsole(), nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: unknown log format %q (expected pretty or json)", types.ErrConfig, cfg.Log.Format)
	}
}

// greet prints the banner and checks for a newer release in pretty mode only.
func (app *CLIApp) greet(ctx context.Context, cfg *types.Config, out types.ConsoleInterface) {
	if cfg.Log.Format != "pretty" {
		return
	}
	displayWelcomeBanner()
	go version.CheckLatestVersion(ctx, app.version, out)
}
