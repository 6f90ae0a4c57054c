package tabular

import (
	"fmt"
	"io"
	"strings"
)

// ParseCSV splits r on line feeds, drops blank lines and treats the first
// remaining line as the comma-separated header.
func ParseCSV(r io.Reader) (*Dataset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	lines := make([]string, 0, 64)
	for _, line := range strings.Split(string(b), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, ErrEmptyDataset
	}

	columns := splitFields(lines[0])
	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitFields(line)
		rec := make(Record, len(columns))
		for i, col := range columns {
			if i < len(values) && values[i] != "" {
				rec[col] = values[i]
			} else {
				rec[col] = nil
			}
		}
		records = append(records, rec)
	}

	return &Dataset{
		Format:   FormatCSV,
		Columns:  columns,
		Records:  records,
		RowCount: len(lines) - 1,
	}, nil
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}
