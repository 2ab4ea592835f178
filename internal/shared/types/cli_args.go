package types

// CLIArgs represents the command-line arguments shared by every command.
type CLIArgs struct {
	ConfigFile   string
	LogFormat    string
	StoreBackend string
	RangeKey     string
	DebugDir     string
	ReportName   string
	ReportType   []string
	Dir          string
}
