package types

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	Store    StoreConfig    `json:"store" yaml:"store" toml:"store"`
	Source   SourceConfig   `json:"source" yaml:"source" toml:"source"`
	Schedule ScheduleConfig `json:"schedule" yaml:"schedule" toml:"schedule"`
	Log      LogConfig      `json:"log" yaml:"log" toml:"log"`
}

// StoreConfig selects the TabularStore backend and where the ledger lives.
type StoreConfig struct {
	// Backend is one of sheets, xlsx, csv, s3, sql.
	Backend string `json:"backend" yaml:"backend" toml:"backend"`
	// Location is the spreadsheet id, workbook path, directory, bucket or DSN.
	Location string `json:"location" yaml:"location" toml:"location"`
	// Credentials is the service account key file (sheets) or the AWS profile (s3).
	Credentials string `json:"credentials" yaml:"credentials" toml:"credentials"`
	Region      string `json:"region" yaml:"region" toml:"region"`
	Prefix      string `json:"prefix" yaml:"prefix" toml:"prefix"`
	// Driver is sqlite or postgres for the sql backend.
	Driver        string `json:"driver" yaml:"driver" toml:"driver"`
	LedgerRegion  string `json:"ledger_region" yaml:"ledger_region" toml:"ledger_region"`
	SummaryRegion string `json:"summary_region" yaml:"summary_region" toml:"summary_region"`
}

// SourceConfig configures the ReportSource.
type SourceConfig struct {
	// Kind is portal or file.
	Kind           string `json:"kind" yaml:"kind" toml:"kind"`
	BaseURL        string `json:"base_url" yaml:"base_url" toml:"base_url"`
	User           string `json:"user" yaml:"user" toml:"user"`
	Password       string `json:"password" yaml:"password" toml:"password"`
	Headless       *bool  `json:"headless" yaml:"headless" toml:"headless"`
	TimeoutSeconds int    `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	FilePath       string `json:"file_path" yaml:"file_path" toml:"file_path"`
}

// ScheduleConfig configures the long-running schedule command.
type ScheduleConfig struct {
	IngestCron     string `json:"ingest_cron" yaml:"ingest_cron" toml:"ingest_cron"`
	RebuildCron    string `json:"rebuild_cron" yaml:"rebuild_cron" toml:"rebuild_cron"`
	RangeKey       string `json:"range_key" yaml:"range_key" toml:"range_key"`
	StatusAddr     string `json:"status_addr" yaml:"status_addr" toml:"status_addr"`
	RedisAddr      string `json:"redis_addr" yaml:"redis_addr" toml:"redis_addr"`
	RedisPassword  string `json:"redis_password" yaml:"redis_password" toml:"redis_password"`
	LockTTLSeconds int    `json:"lock_ttl_seconds" yaml:"lock_ttl_seconds" toml:"lock_ttl_seconds"`
}

// LogConfig selects the console implementation.
type LogConfig struct {
	// Format is pretty or json.
	Format string `json:"format" yaml:"format" toml:"format"`
	Level  string `json:"level" yaml:"level" toml:"level"`
}
