package cli

import (
	"fmt"

	"github.com/diillson/ticket-ledger/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
  _   _      _        _       _          _
 | |_(_) ___| | _____| |_    | | ___  __| | __ _  ___ _ __
 | __| |/ __| |/ / _ \ __|   | |/ _ \/ _` + "`" + ` |/ _` + "`" + ` |/ _ \ '__|
 | |_| | (__|   <  __/ |_    | |  __/ (_| | (_| |  __/ |
  \__|_|\___|_|\_\___|\__|   |_|\___|\__,_|\__, |\___|_|
                                           |___/
`
	magenta := color.New(color.FgMagenta, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(magenta(banner))
	fmt.Println(blue(fmt.Sprintf("Ticket Ledger CLI (v%s)", version.FormatVersion())))
}
