package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		columns  []string
		rowCount int
		records  []Record
	}{
		{
			name:     "trailing empty cell becomes null",
			input:    "a,b\n1,2\n3,\n",
			columns:  []string{"a", "b"},
			rowCount: 2,
			records: []Record{
				{"a": "1", "b": "2"},
				{"a": "3", "b": nil},
			},
		},
		{
			name:     "blank lines are discarded before counting",
			input:    "\n  \nx, y \n\n 1 , 2\n\n",
			columns:  []string{"x", "y"},
			rowCount: 1,
			records:  []Record{{"x": "1", "y": "2"}},
		},
		{
			name:     "short row is padded with nulls",
			input:    "a,b,c\n1\n",
			columns:  []string{"a", "b", "c"},
			rowCount: 1,
			records:  []Record{{"a": "1", "b": nil, "c": nil}},
		},
		{
			name:     "long row is truncated to header width",
			input:    "a,b\n1,2,3,4\n",
			columns:  []string{"a", "b"},
			rowCount: 1,
			records:  []Record{{"a": "1", "b": "2"}},
		},
		{
			name:     "carriage returns are trimmed",
			input:    "a,b\r\n1,2\r\n",
			columns:  []string{"a", "b"},
			rowCount: 1,
			records:  []Record{{"a": "1", "b": "2"}},
		},
		{
			name:     "quotes are not interpreted",
			input:    "name,city\n\"Doe, John\",Paris\n",
			columns:  []string{"name", "city"},
			rowCount: 1,
			records:  []Record{{"name": "\"Doe", "city": "John\""}},
		},
		{
			name:     "header only",
			input:    "a,b\n",
			columns:  []string{"a", "b"},
			rowCount: 0,
			records:  []Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ParseCSV(strings.NewReader(tt.input))
			require.NoError(t, err)

			assert.Equal(t, FormatCSV, ds.Format)
			assert.Equal(t, tt.columns, ds.Columns)
			assert.Equal(t, tt.rowCount, ds.RowCount)
			assert.Equal(t, tt.records, ds.Records)
		})
	}
}

func TestParseCSV_EveryRecordHasEveryColumn(t *testing.T) {
	ds, err := ParseCSV(strings.NewReader("a,b,c,d\n1\n1,2\n1,2,3\n1,2,3,4,5\n"))
	require.NoError(t, err)

	assert.Equal(t, 4, ds.RowCount)
	for _, rec := range ds.Records {
		assert.Len(t, rec, len(ds.Columns))
		for _, col := range ds.Columns {
			assert.Contains(t, rec, col)
		}
	}
}

func TestParseCSV_Empty(t *testing.T) {
	for _, input := range []string{"", "\n\n", "   \n\t\n"} {
		_, err := ParseCSV(strings.NewReader(input))
		assert.ErrorIs(t, err, ErrEmptyDataset)
	}
}
