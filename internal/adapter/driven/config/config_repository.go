package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/diillson/ticket-ledger/internal/domain/repository"
	"github.com/diillson/ticket-ledger/internal/shared/types"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

const (
	BackendSheets = "sheets"
	BackendXLSX   = "xlsx"
	BackendCSV    = "csv"
	BackendS3     = "s3"
	BackendSQL    = "sql"

	SourcePortal = "portal"
	SourceFile   = "file"

	defaultPortalURL      = "https://distribteportal.com"
	defaultTimeoutSeconds = 120
	defaultLockTTLSeconds = 900
)

// ConfigRepositoryImpl implementa o ConfigRepository.
type ConfigRepositoryImpl struct {
	envFiles []string
	lookup   func(string) (string, bool)
}

// NewConfigRepository cria uma nova implementação do ConfigRepository.
// envFiles are loaded with godotenv before the environment is read; missing files are ignored.
func NewConfigRepository(envFiles ...string) repository.ConfigRepository {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	return &ConfigRepositoryImpl{envFiles: envFiles, lookup: os.LookupEnv}
}

// LoadConfigFile carrega um arquivo de configuração TOML, YAML ou JSON.
func (r *ConfigRepositoryImpl) LoadConfigFile(filePath string) (*types.Config, error) {
	fileExtension := strings.ToLower(filepath.Ext(filePath))

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("error accessing config file: %w", err)
	}

	if fileInfo.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a file", filePath)
	}

	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config types.Config

	switch fileExtension {
	case ".toml":
		if err := toml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing TOML file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing YAML file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(fileData, &config); err != nil {
			return nil, fmt.Errorf("error parsing JSON file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file format: %s", fileExtension)
	}

	return &config, nil
}

// Load builds the effective configuration: .env, then the optional file, then
// environment overrides, then the caller's overrides, then defaults.
func (r *ConfigRepositoryImpl) Load(filePath string, overrides ...func(*types.Config)) (*types.Config, error) {
	for _, f := range r.envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: loading %s: %w", types.ErrConfig, f, err)
		}
	}

	cfg := &types.Config{}
	if filePath != "" {
		loaded, err := r.LoadConfigFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", types.ErrConfig, err)
		}
		cfg = loaded
	}

	r.applyEnvOverrides(cfg)
	for _, override := range overrides {
		override(cfg)
	}
	ApplyDefaults(cfg)
	return cfg, nil
}

func (r *ConfigRepositoryImpl) applyEnvOverrides(cfg *types.Config) {
	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v, ok := r.lookup(k); ok && v != "" {
				*dst = v
				return
			}
		}
	}

	set(&cfg.Store.Backend, "TICKET_LEDGER_STORE_BACKEND")
	set(&cfg.Store.Location, "TICKET_LEDGER_STORE_LOCATION", "SHEET_ID")
	set(&cfg.Store.Credentials, "TICKET_LEDGER_STORE_CREDENTIALS", "GOOGLE_APPLICATION_CREDENTIALS")
	set(&cfg.Source.User, "DISTRIBUTE_USER")
	set(&cfg.Source.Password, "DISTRIBUTE_PASS")
	set(&cfg.Schedule.RedisAddr, "TICKET_LEDGER_REDIS_ADDR")
	set(&cfg.Log.Format, "TICKET_LEDGER_LOG_FORMAT")

	if v, ok := r.lookup("TICKET_LEDGER_SOURCE_TIMEOUT"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Source.TimeoutSeconds = n
		}
	}
}

// ApplyDefaults fills every unset option. Region defaults depend on the backend.
func ApplyDefaults(cfg *types.Config) {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendSheets
	}
	cfg.Store.Backend = strings.ToLower(cfg.Store.Backend)

	ledger, summary := "RawData", "Summary"
	if cfg.Store.Backend == BackendSheets {
		ledger, summary = "RawData!A:C", "Summary!A1"
	}
	if cfg.Store.LedgerRegion == "" {
		cfg.Store.LedgerRegion = ledger
	}
	if cfg.Store.SummaryRegion == "" {
		cfg.Store.SummaryRegion = summary
	}
	if cfg.Store.Backend == BackendSQL && cfg.Store.Driver == "" {
		cfg.Store.Driver = "sqlite"
	}

	if cfg.Source.Kind == "" {
		cfg.Source.Kind = SourcePortal
	}
	if cfg.Source.BaseURL == "" {
		cfg.Source.BaseURL = defaultPortalURL
	}
	if cfg.Source.TimeoutSeconds <= 0 {
		cfg.Source.TimeoutSeconds = defaultTimeoutSeconds
	}
	if cfg.Source.Headless == nil {
		headless := true
		cfg.Source.Headless = &headless
	}

	if cfg.Schedule.RangeKey == "" {
		cfg.Schedule.RangeKey = "Today"
	}
	if cfg.Schedule.IngestCron == "" {
		cfg.Schedule.IngestCron = "0 * * * *"
	}
	if cfg.Schedule.RebuildCron == "" {
		cfg.Schedule.RebuildCron = "30 * * * *"
	}
	if cfg.Schedule.StatusAddr == "" {
		cfg.Schedule.StatusAddr = ":9108"
	}
	if cfg.Schedule.LockTTLSeconds <= 0 {
		cfg.Schedule.LockTTLSeconds = defaultLockTTLSeconds
	}

	if cfg.Log.Format == "" {
		cfg.Log.Format = "pretty"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// ValidateStore checks the options every backend needs before anything is opened.
func ValidateStore(cfg types.StoreConfig) error {
	switch cfg.Backend {
	case BackendSheets, BackendXLSX, BackendCSV, BackendS3, BackendSQL:
	default:
		return fmt.Errorf("%w: unknown store backend %q", types.ErrConfig, cfg.Backend)
	}
	if cfg.Location == "" {
		return fmt.Errorf("%w: store location is required (set store.location or SHEET_ID)", types.ErrConfig)
	}
	if cfg.Backend == BackendSheets && cfg.Credentials == "" {
		return fmt.Errorf("%w: sheets backend needs credentials (set store.credentials or GOOGLE_APPLICATION_CREDENTIALS)", types.ErrConfig)
	}
	if cfg.Backend == BackendSQL && cfg.Driver != "sqlite" && cfg.Driver != "postgres" {
		return fmt.Errorf("%w: unknown sql driver %q", types.ErrConfig, cfg.Driver)
	}
	return nil
}

// ValidateSource checks the report source options.
func ValidateSource(cfg types.SourceConfig) error {
	switch cfg.Kind {
	case SourcePortal:
		if cfg.User == "" || cfg.Password == "" {
			return fmt.Errorf("%w: portal source needs DISTRIBUTE_USER and DISTRIBUTE_PASS", types.ErrConfig)
		}
	case SourceFile:
		if cfg.FilePath == "" {
			return fmt.Errorf("%w: file source needs source.file_path", types.ErrConfig)
		}
	default:
		return fmt.Errorf("%w: unknown source kind %q", types.ErrConfig, cfg.Kind)
	}
	return nil
}
