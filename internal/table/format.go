package table

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is a file serialization for tables.
type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
)

// ErrUnsupportedFormat is returned by ParseFormat for anything other than
// parquet or csv.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatParquet, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Supported reports whether f is one of the known formats.
func (f Format) Supported() bool {
	return f == FormatParquet || f == FormatCSV
}

// FileName returns path with the format's extension appended.
func (f Format) FileName(path string) string {
	return path + "." + string(f)
}

// WriteFile writes t to f.FileName(path), creating parent directories as
// needed, and returns the name of the written file.
func WriteFile(path string, f Format, t *Table) (string, error) {
	if !f.Supported() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, string(f))
	}

	name := f.FileName(path)
	if dir := filepath.Dir(name); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", name, err)
	}
	// The parquet writer closes its sink itself, so a second Close may fail.
	defer file.Close()

	switch f {
	case FormatParquet:
		err = WriteParquet(file, t)
	case FormatCSV:
		if err = WriteCSV(file, t); err == nil {
			err = file.Sync()
		}
	}
	if err != nil {
		return "", fmt.Errorf("failed to write %s: %w", name, err)
	}
	return name, nil
}

// ReadFile loads a table from a .csv or .parquet file, chosen by extension.
func ReadFile(ctx context.Context, name string) (*Table, error) {
	f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(name), "."))
	if err != nil {
		return nil, err
	}

	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer file.Close()

	if f == FormatParquet {
		return ReadParquet(ctx, file)
	}
	return ReadCSV(file)
}
