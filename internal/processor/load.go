package processor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/order-summarizer/internal/config"
	"github.com/ginjaninja78/order-summarizer/internal/csvparser"
	"github.com/ginjaninja78/order-summarizer/internal/types"
	"github.com/ginjaninja78/order-summarizer/internal/xlsxparser"
)

// ErrUnsupportedFormat is returned for file types no loader can read.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// SupportedExtensions lists the extensions LoadRows accepts.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".csv"}

// LoadRows reads the rows of an order export. The loader is chosen from the
// extension of name: ".csv" is read as delimited text, ".xlsx" and ".xlsm"
// as a workbook. Anything else, legacy ".xls" included, fails with
// ErrUnsupportedFormat.
func LoadRows(name string, r io.Reader, settings config.CSVSettings) ([]types.RawRow, error) {
	ext := strings.ToLower(filepath.Ext(name))

	switch ext {
	case ".csv":
		rows, err := csvparser.Parse(r, settings)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(name), err)
		}
		return rows, nil
	case ".xlsx", ".xlsm":
		rows, err := xlsxparser.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", filepath.Base(name), err)
		}
		return rows, nil
	default:
		if ext == "" {
			ext = "(none)"
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// LoadFile opens path and reads it with LoadRows.
func LoadFile(path string, settings config.CSVSettings) ([]types.RawRow, error) {
	if !IsSupported(path) {
		return LoadRows(path, nil, settings)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return LoadRows(path, file, settings)
}

// IsSupported reports whether name has an extension LoadRows can read.
func IsSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}
