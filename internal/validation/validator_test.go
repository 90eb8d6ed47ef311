package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-summarizer/internal/config"
)

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var errs Errors
	require.True(t, errors.As(err, &errs), "expected validation.Errors, got %v", err)

	out := make(map[string]string, len(errs))
	for _, e := range errs {
		out[e.Field] = e.Rule
	}
	return out
}

func TestValidateConfigDefaults(t *testing.T) {
	assert.NoError(t, ValidateConfig(config.Default()))
}

func TestValidateConfigFieldRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.MainConfig)
		field  string
		rule   string
	}{
		{
			name:   "unknown output format",
			mutate: func(c *config.MainConfig) { c.OutputFormats = []string{"xlsx", "pdf"} },
			field:  "output_formats[1]",
			rule:   "oneof",
		},
		{
			name:   "extension without dot",
			mutate: func(c *config.MainConfig) { c.InputExtensions = []string{"csv"} },
			field:  "input_extensions[0]",
			rule:   "startswith",
		},
		{
			name:   "zero concurrency",
			mutate: func(c *config.MainConfig) { c.MaxConcurrency = -1 },
			field:  "max_concurrency",
			rule:   "min",
		},
		{
			name:   "bad log level",
			mutate: func(c *config.MainConfig) { c.Logging.Level = "loud" },
			field:  "logging.level",
			rule:   "oneof",
		},
		{
			name:   "bad identifier column",
			mutate: func(c *config.MainConfig) { c.Layout.IdentifierColumn = "8" },
			field:  "layout.identifier_column",
			rule:   "column",
		},
		{
			name:   "group without letters",
			mutate: func(c *config.MainConfig) { c.Layout.GroupA.Letters = nil },
			field:  "layout.group_a.letters",
			rule:   "required",
		},
		{
			name:   "multi-character letter",
			mutate: func(c *config.MainConfig) { c.Layout.GroupB.Letters = []string{"RX"} },
			field:  "layout.group_b.letters[0]",
			rule:   "len",
		},
		{
			name:   "group without name",
			mutate: func(c *config.MainConfig) { c.Layout.GroupB.Name = "" },
			field:  "layout.group_b.name",
			rule:   "required",
		},
		{
			name:   "unknown delimiter name",
			mutate: func(c *config.MainConfig) { c.CSVSettings.Delimiter = "comma2" },
			field:  "csv_settings.delimiter",
			rule:   "delimiter",
		},
		{
			name:   "quote as delimiter",
			mutate: func(c *config.MainConfig) { c.CSVSettings.Delimiter = `"` },
			field:  "csv_settings.delimiter",
			rule:   "delimiter",
		},
		{
			name:   "shared letter",
			mutate: func(c *config.MainConfig) { c.Layout.GroupB.Letters = []string{"R", "k"} },
			field:  "layout.group_b.letters[1]",
			rule:   "disjoint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.Equal(t, tt.rule, fields(t, err)[tt.field])
		})
	}
}

func TestValidateConfigAcceptsDelimiterAliases(t *testing.T) {
	for _, name := range []string{",", "comma", "tab", "\\t", "pipe", "|", "semicolon", "#"} {
		cfg := config.Default()
		cfg.CSVSettings.Delimiter = name
		assert.NoError(t, ValidateConfig(cfg), name)
	}
}

func TestValidateConfigCollectsAllErrors(t *testing.T) {
	cfg := config.Default()
	cfg.OutputDir = ""
	cfg.Server.MaxUploadMB = -5
	cfg.Logging.Format = "xml"

	got := fields(t, ValidateConfig(cfg))

	assert.Len(t, got, 3)
	assert.Equal(t, "required", got["output_dir"])
	assert.Equal(t, "min", got["server.max_upload_mb"])
	assert.Equal(t, "oneof", got["logging.format"])
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No validation errors.", FormatErrors(nil))

	cfg := config.Default()
	cfg.InputDir = ""
	out := FormatErrors(ValidateConfig(cfg))

	assert.Contains(t, out, "Validation completed with 1 error(s)")
	assert.Contains(t, out, "1. Field 'input_dir': is required")

	assert.Equal(t, "boom", FormatErrors(errors.New("boom")))
}
