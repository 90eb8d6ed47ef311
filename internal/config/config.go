// =============================================================================
// Order Summarizer - Configuration Module
// =============================================================================
//
// This module is responsible for loading and managing the application
// configuration.
//
// CONFIGURATION SOURCES (later sources win):
//   1. Built-in defaults (Default)
//   2. Main config file (config.yaml)
//   3. Environment variables prefixed with ORDERSUM_
//      (e.g. ORDERSUM_OUTPUT_DIR, ORDERSUM_LOGGING_LEVEL)
//
// Missing values are filled in by applyDefaults after all sources are read.
// Validation lives in the validation package so that it can be run by the
// `validate` command without loading anything else.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/order-summarizer/internal/summary"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "ORDERSUM"

// =============================================================================
// MAIN CONFIGURATION STRUCTURE
// =============================================================================

// MainConfig holds the global application configuration.
type MainConfig struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned by the `process` command for order exports.
	// Default: "./input"
	InputDir string `yaml:"input_dir" envconfig:"INPUT_DIR" validate:"required"`

	// OutputDir receives the summary files.
	// Default: "./output"
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`

	// InputArchiveDir receives input files after they were summarized.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir" envconfig:"INPUT_ARCHIVE_DIR" validate:"required"`

	// ArchiveOnSuccess moves processed inputs to InputArchiveDir.
	// Default: true
	ArchiveOnSuccess *bool `yaml:"archive_on_success" envconfig:"ARCHIVE_ON_SUCCESS"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormats lists the files written per input by `process`.
	// Valid values: "text", "xml", "csv", "xlsx", "json"
	// Default: ["xlsx", "text"]
	OutputFormats []string `yaml:"output_formats" envconfig:"OUTPUT_FORMATS" validate:"required,min=1,dive,oneof=text xml csv xlsx json"`

	// OutputNameFormat defines output file names (without extension).
	// Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {date}      - Current date (YYYYMMDD)
	//   {original}  - Input file name without extension
	// Default: "{original}_summary_{timestamp}"
	OutputNameFormat string `yaml:"output_name_format" envconfig:"OUTPUT_NAME_FORMAT" validate:"required"`

	// InputExtensions are the file extensions picked up from InputDir.
	// Default: [".xlsx", ".csv"]
	InputExtensions []string `yaml:"input_extensions" envconfig:"INPUT_EXTENSIONS" validate:"required,min=1,dive,startswith=."`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// MaxConcurrency is the maximum number of files summarized at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency" envconfig:"MAX_CONCURRENCY" validate:"min=1"`

	// ContinueOnError keeps processing other files when one fails.
	// Default: true
	ContinueOnError *bool `yaml:"continue_on_error" envconfig:"CONTINUE_ON_ERROR"`

	// =========================================================================
	// NESTED SETTINGS
	// =========================================================================

	Logging     LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Layout      LayoutConfig  `yaml:"layout" envconfig:"LAYOUT"`
	CSVSettings CSVSettings   `yaml:"csv_settings" envconfig:"CSV"`
	Server      ServerConfig  `yaml:"server" envconfig:"SERVER"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error". Default: "info"
	Level string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`

	// Format is "console" or "json". Default: "console"
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=console json"`

	// Output is "stdout", "stderr" or a file path. Default: "stderr"
	Output string `yaml:"output" envconfig:"OUTPUT" validate:"required"`

	// Development enables caller stack traces on errors.
	Development bool `yaml:"development" envconfig:"DEVELOPMENT"`
}

// =============================================================================
// LAYOUT STRUCTURE
// =============================================================================

// LayoutConfig describes where identifiers and quantities live and how
// identifiers are grouped. Columns use spreadsheet letters.
type LayoutConfig struct {
	// IdentifierColumn holds the SKU. Default: "I"
	IdentifierColumn string `yaml:"identifier_column" envconfig:"IDENTIFIER_COLUMN" validate:"column"`

	// QuantityColumn holds the ordered quantity. Default: "S"
	QuantityColumn string `yaml:"quantity_column" envconfig:"QUANTITY_COLUMN" validate:"column"`

	// GroupA is checked first. Default: "K/L/D SKUs" with letters K, L, D.
	GroupA GroupConfig `yaml:"group_a" ignored:"true"`

	// GroupB is checked when GroupA does not match. Default: "R SKUs" with R.
	GroupB GroupConfig `yaml:"group_b" ignored:"true"`
}

// GroupConfig is one classification rule.
type GroupConfig struct {
	Name    string   `yaml:"name" validate:"required"`
	Letters []string `yaml:"letters" validate:"required,min=1,dive,len=1,alpha"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter separates fields. Common values: ",", "|", "\t", "tab", "pipe".
	// Default: ","
	Delimiter string `yaml:"delimiter" envconfig:"DELIMITER" validate:"delimiter"`

	// InferNumbers types numeric fields as numbers, like a spreadsheet import.
	// Default: true
	InferNumbers bool `yaml:"infer_numbers" envconfig:"INFER_NUMBERS"`
}

// ServerConfig configures the `serve` command.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8080"
	Addr string `yaml:"addr" envconfig:"ADDR" validate:"required"`

	// MaxUploadMB caps upload size. Default: 32
	MaxUploadMB int64 `yaml:"max_upload_mb" envconfig:"MAX_UPLOAD_MB" validate:"min=1"`
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the built-in configuration.
func Default() *MainConfig {
	cfg := &MainConfig{
		CSVSettings: CSVSettings{InferNumbers: true},
	}
	applyDefaults(cfg)
	return cfg
}

// Load reads the configuration.
//
// PARAMETERS:
//   - configPath: Path to the YAML file.
//   - required: When false, a missing file is not an error and defaults are
//     used instead. Set it when the user named the file explicitly.
//
// RETURNS:
//   - The merged configuration with defaults applied.
//   - An error if the file cannot be read or parsed, or the environment
//     holds malformed values.
func Load(configPath string, required bool) (*MainConfig, error) {
	cfg := &MainConfig{
		CSVSettings: CSVSettings{InferNumbers: true},
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Fields without a matching variable are left untouched.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	applyDefaults(cfg)

	return cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *MainConfig) {
	if config.InputDir == "" {
		config.InputDir = "./input"
	}
	if config.OutputDir == "" {
		config.OutputDir = "./output"
	}
	if config.InputArchiveDir == "" {
		config.InputArchiveDir = "./input_archive"
	}
	if config.ArchiveOnSuccess == nil {
		config.ArchiveOnSuccess = boolPtr(true)
	}
	if len(config.OutputFormats) == 0 {
		config.OutputFormats = []string{"xlsx", "text"}
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{original}_summary_{timestamp}"
	}
	if len(config.InputExtensions) == 0 {
		config.InputExtensions = []string{".xlsx", ".csv"}
	}
	if config.MaxConcurrency == 0 {
		config.MaxConcurrency = 4
	}
	if config.ContinueOnError == nil {
		config.ContinueOnError = boolPtr(true)
	}

	// Logging defaults.
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	if config.Logging.Format == "" {
		config.Logging.Format = "console"
	}
	if config.Logging.Output == "" {
		config.Logging.Output = "stderr"
	}

	// Layout defaults.
	if config.Layout.IdentifierColumn == "" {
		config.Layout.IdentifierColumn = "I"
	}
	if config.Layout.QuantityColumn == "" {
		config.Layout.QuantityColumn = "S"
	}
	if config.Layout.GroupA.Name == "" && len(config.Layout.GroupA.Letters) == 0 {
		config.Layout.GroupA = GroupConfig{Name: "K/L/D SKUs", Letters: []string{"K", "L", "D"}}
	}
	if config.Layout.GroupB.Name == "" && len(config.Layout.GroupB.Letters) == 0 {
		config.Layout.GroupB = GroupConfig{Name: "R SKUs", Letters: []string{"R"}}
	}

	// CSV defaults.
	if config.CSVSettings.Delimiter == "" {
		config.CSVSettings.Delimiter = ","
	}

	// Server defaults.
	if config.Server.Addr == "" {
		config.Server.Addr = ":8080"
	}
	if config.Server.MaxUploadMB == 0 {
		config.Server.MaxUploadMB = 32
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// ShouldArchive reports whether processed inputs are archived.
func (c *MainConfig) ShouldArchive() bool {
	return c.ArchiveOnSuccess == nil || *c.ArchiveOnSuccess
}

// ShouldContinueOnError reports whether a failed file lets the batch go on.
func (c *MainConfig) ShouldContinueOnError() bool {
	return c.ContinueOnError == nil || *c.ContinueOnError
}

// SummaryLayout converts the layout settings into the summarizer's layout.
//
// RETURNS:
//   - The layout with 0-based column indexes.
//   - An error if a column is not a valid spreadsheet column name.
func (c *MainConfig) SummaryLayout() (summary.Layout, error) {
	idCol, err := ColumnIndex(c.Layout.IdentifierColumn)
	if err != nil {
		return summary.Layout{}, fmt.Errorf("invalid identifier column: %w", err)
	}
	qtyCol, err := ColumnIndex(c.Layout.QuantityColumn)
	if err != nil {
		return summary.Layout{}, fmt.Errorf("invalid quantity column: %w", err)
	}

	return summary.Layout{
		IdentifierColumn: idCol,
		QuantityColumn:   qtyCol,
		GroupA:           summary.NewGroupRule(c.Layout.GroupA.Name, c.Layout.GroupA.Letters...),
		GroupB:           summary.NewGroupRule(c.Layout.GroupB.Name, c.Layout.GroupB.Letters...),
	}, nil
}

// ColumnIndex converts a spreadsheet column name ("A", "I", "AA") to a
// 0-based index.
func ColumnIndex(name string) (int, error) {
	n, err := excelize.ColumnNameToNumber(strings.TrimSpace(name))
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

func boolPtr(b bool) *bool {
	return &b
}
