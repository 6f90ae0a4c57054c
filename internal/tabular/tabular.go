// Package tabular normalizes stored CSV and spreadsheet files into an ordered
// column list plus uniform records.
//
// The format is chosen once from the file extension and each format has its
// own parsing branch. Two behaviours are kept for compatibility with existing
// uploads even though they lose data silently:
//
//   - CSV rows are split on bare commas (no quoting). Short rows are padded
//     with nulls and long rows are truncated to the header width.
//   - Spreadsheet columns come from the first data row only. Cells under a
//     header the first row left empty are dropped from every record.
package tabular

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedFormat is returned for any extension other than .csv, .xlsx and .xls.
	ErrUnsupportedFormat = errors.New("unsupported file type: only CSV and Excel files are allowed")
	// ErrEmptyDataset is returned when a file holds no header and no data.
	ErrEmptyDataset = errors.New("file is empty")
	// ErrUnreadable is returned when a file exists but cannot be decoded as its format.
	ErrUnreadable = errors.New("file is unreadable")
)

// Format identifies the on-disk encoding of a stored dataset.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
)

// Ext returns the file extension for f, including the leading dot.
func (f Format) Ext() string { return "." + string(f) }

// DetectFormat maps a file name to its Format by extension, case-insensitively.
func DetectFormat(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".xls":
		return FormatXLS, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Record maps a column name to its raw value: a string, a float64, a bool or nil.
// CSV values are always strings; spreadsheets keep their stored cell types.
// Every declared column has a key, missing cells hold nil.
type Record map[string]any

// Dataset is the in-memory view of a stored file.
type Dataset struct {
	Format  Format
	Columns []string
	Records []Record
	// RowCount follows the per-format counting rule: non-blank lines after the
	// header for CSV, non-empty row objects for spreadsheets.
	RowCount int
}

// Preview returns at most n leading records.
func (d *Dataset) Preview(n int) []Record {
	if n <= 0 {
		return []Record{}
	}
	if n > len(d.Records) {
		n = len(d.Records)
	}
	return d.Records[:n]
}

// Parse reads the file at path and normalizes it according to its extension.
// Read failures are wrapped so callers can still match fs errors with errors.Is.
func Parse(path string) (*Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatCSV:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		defer f.Close()
		return ParseCSV(f)
	case FormatXLSX:
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		grid, err := readXLSX(path)
		if err != nil {
			return nil, err
		}
		return fromGrid(FormatXLSX, grid), nil
	default:
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		grid, err := readXLS(path)
		if err != nil {
			return nil, err
		}
		return fromGrid(FormatXLS, grid), nil
	}
}

// MIMEType returns the canonical media type of f.
func (f Format) MIMEType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatXLS:
		return "application/vnd.ms-excel"
	default:
		return "application/octet-stream"
	}
}
