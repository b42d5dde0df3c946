// =============================================================================
// Billing Ledger - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file, then
// applies overrides from the environment (including a local .env file) and
// finally fills in defaults for anything left unset.
//
// PRECEDENCE (highest first):
//   1. Command-line flags (applied by the cmd package)
//   2. Environment variables (BILLING_*, LOG_LEVEL)
//   3. The YAML config file
//   4. Built-in defaults
//
// EXAMPLE config.yaml:
//
//   ledger:
//     backend: csv
//     path: ./database.csv
//   export:
//     template_path: ./templates/soumission.xlsx
//     output_dir: ./exports
//     details_label: DÉTAILS
//     bill_to_label: FACTURER À
//   log_level: info
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Ledger backends.
const (
	BackendCSV    = "csv"
	BackendSQLite = "sqlite"
)

// Default anchor labels looked up in the spreadsheet template.
const (
	DefaultDetailsLabel = "DÉTAILS"
	DefaultBillToLabel  = "FACTURER À"
)

// appDirName is the per-user directory holding the ledger by default.
const appDirName = "BillingApp"

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// Ledger selects where clients, bills and products are persisted.
	Ledger LedgerConfig `yaml:"ledger"`

	// Export controls spreadsheet export.
	Export ExportConfig `yaml:"export"`

	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`
}

// LedgerConfig describes the ledger backend.
type LedgerConfig struct {
	// Backend is "csv" (delimited text) or "sqlite".
	// Default: "csv"
	Backend string `yaml:"backend"`

	// Path is the ledger file.
	// Default: <user config dir>/BillingApp/database.csv (billing.db for sqlite)
	Path string `yaml:"path"`
}

// ExportConfig describes spreadsheet export.
type ExportConfig struct {
	// TemplatePath is the xlsx template whose first sheet receives the bill.
	// Default: "templates/soumission.xlsx"
	TemplatePath string `yaml:"template_path"`

	// OutputDir is where exported workbooks are written.
	// Default: "."
	OutputDir string `yaml:"output_dir"`

	// DetailsLabel marks the row under which product rows are inserted.
	// Matched case-insensitively after trimming.
	// Default: "DÉTAILS"
	DetailsLabel string `yaml:"details_label"`

	// BillToLabel marks the cell above the client name.
	// Matched case-insensitively.
	// Default: "FACTURER À"
	BillToLabel string `yaml:"bill_to_label"`
}

// =============================================================================
// CONFIGURATION LOADING
// =============================================================================

// Load reads the configuration file at path. When required is false a
// missing file is not an error and the defaults are used instead.
func Load(path string, required bool) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist) && !required:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// A missing .env is fine.
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides replaces file values with any BILLING_* variables set.
func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"BILLING_LEDGER_BACKEND", &cfg.Ledger.Backend},
		{"BILLING_LEDGER_PATH", &cfg.Ledger.Path},
		{"BILLING_TEMPLATE", &cfg.Export.TemplatePath},
		{"BILLING_OUTPUT_DIR", &cfg.Export.OutputDir},
		{"LOG_LEVEL", &cfg.LogLevel},
	}

	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.env); ok && strings.TrimSpace(v) != "" {
			*o.target = strings.TrimSpace(v)
		}
	}
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	cfg.Ledger.Backend = strings.ToLower(strings.TrimSpace(cfg.Ledger.Backend))
	if cfg.Ledger.Backend == "" {
		cfg.Ledger.Backend = BackendCSV
	}
	if cfg.Ledger.Path == "" {
		cfg.Ledger.Path = DefaultLedgerPath(cfg.Ledger.Backend)
	}
	if cfg.Export.TemplatePath == "" {
		cfg.Export.TemplatePath = filepath.Join("templates", "soumission.xlsx")
	}
	if cfg.Export.OutputDir == "" {
		cfg.Export.OutputDir = "."
	}
	if cfg.Export.DetailsLabel == "" {
		cfg.Export.DetailsLabel = DefaultDetailsLabel
	}
	if cfg.Export.BillToLabel == "" {
		cfg.Export.BillToLabel = DefaultBillToLabel
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// DefaultLedgerPath returns the per-user ledger location for a backend. If
// the user config directory cannot be determined the working directory is
// used.
func DefaultLedgerPath(backend string) string {
	name := "database.csv"
	if backend == BackendSQLite {
		name = "billing.db"
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return name
	}
	return filepath.Join(dir, appDirName, name)
}

// Validate checks the configuration for values the application cannot use.
func (c *Config) Validate() error {
	switch c.Ledger.Backend {
	case BackendCSV, BackendSQLite:
	default:
		return fmt.Errorf("unknown ledger backend %q (want %q or %q)", c.Ledger.Backend, BackendCSV, BackendSQLite)
	}
	if strings.TrimSpace(c.Export.DetailsLabel) == "" {
		return fmt.Errorf("export.details_label must not be blank")
	}
	if strings.TrimSpace(c.Export.BillToLabel) == "" {
		return fmt.Errorf("export.bill_to_label must not be blank")
	}
	return nil
}
