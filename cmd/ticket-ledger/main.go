package main

import (
	"fmt"
	"os"

	"github.com/diillson/ticket-ledger/internal/adapter/driven/config"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/export"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/report"
	"github.com/diillson/ticket-ledger/internal/adapter/driven/store"
	"github.com/diillson/ticket-ledger/internal/adapter/driving/cli"
	"github.com/diillson/ticket-ledger/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI com os adaptadores
	app := cli.NewCLIApp(version.Version, cli.Dependencies{
		Config:         config.NewConfigRepository(),
		Export:         export.NewExportRepository(),
		OpenStore:      store.Open,
		OpenSource:     report.Open,
		InstallBrowser: report.InstallBrowser,
	})

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
