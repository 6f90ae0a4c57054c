package tabular

import (
	"fmt"
	"math"
	"strconv"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// maxXLSColumns is the BIFF8 column limit.
const maxXLSColumns = 256

// xlsFormulaText is what the xls decoder reports for every formula cell in
// place of its cached result.
const xlsFormulaText = "FormulaCol"

// readXLSX returns the typed cell grid of the first sheet by position. Blank
// cells are nil, number cells float64, boolean cells bool and everything else
// the raw cell text.
func readXLSX(path string) ([][]any, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	grid := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, raw := range row {
			if raw == "" {
				continue
			}
			if cells[j], err = xlsxCellValue(f, sheet, i, j, raw); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
			}
		}
		grid[i] = cells
	}
	return grid, nil
}

// xlsxCellValue types one non-empty cell. Raw text only needs the stored cell
// type when it reads as a number: shared strings such as "00123" and booleans
// stored as 1/0 look numeric too.
func xlsxCellValue(f *excelize.File, sheet string, row, col int, raw string) (any, error) {
	n, ok := parseNumber(raw)
	if !ok {
		return raw, nil
	}

	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return nil, err
	}
	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return nil, err
	}

	switch typ {
	case excelize.CellTypeBool:
		return n != 0, nil
	case excelize.CellTypeUnset, excelize.CellTypeNumber:
		return n, nil
	default:
		return raw, nil
	}
}

// readXLS returns the typed cell grid of the first sheet of a legacy BIFF workbook.
// The decoder panics on some malformed files, so panics are reported as ErrUnreadable.
func readXLS(path string) (grid [][]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			grid, err = nil, fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if wb == nil || wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: no worksheet found", ErrUnreadable)
	}
	sheet := wb.GetSheet(0)

	grid = make([][]any, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}

		// Rows written without a ROW record report no column span.
		width := row.LastCol()
		if width <= 0 {
			width = maxXLSColumns
		}
		cells := make([]any, width)
		last := -1
		for j := 0; j < width; j++ {
			if cells[j] = xlsCellValue(row.Col(j)); cells[j] != nil {
				last = j
			}
		}
		grid = append(grid, cells[:last+1])
	}
	return grid, nil
}

// xlsRow returns nil for rows the sheet holds no record of.
// WorkSheet.Row dereferences missing rows, so the lookup is guarded.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// xlsCellValue types the text the xls decoder renders for a cell. Number
// cells always come back in shortest decimal form, so text that parses as a
// number but is spelled differently ("00123", "1e3") stays text. Formula
// cells carry no cached result and read as blank.
func xlsCellValue(s string) any {
	if s == "" || s == xlsFormulaText {
		return nil
	}
	n, ok := parseNumber(s)
	if !ok || strconv.FormatFloat(n, 'f', -1, 64) != s {
		return s
	}
	return n
}

// rowObject is one data row keyed by header name, in column order, empty cells omitted.
type rowObject struct {
	keys   []string
	values map[string]any
}

// fromGrid turns a typed sheet grid into a Dataset. The first non-blank row is
// the header; every later row with at least one non-empty cell becomes an object.
func fromGrid(format Format, grid [][]any) *Dataset {
	start := 0
	for start < len(grid) && isBlankRow(grid[start]) {
		start++
	}
	if start >= len(grid) {
		return &Dataset{Format: format, Columns: []string{}, Records: []Record{}}
	}

	width := 0
	for _, row := range grid[start:] {
		width = max(width, len(row))
	}
	header := headerNames(grid[start], width)

	objects := make([]rowObject, 0, len(grid)-start-1)
	for _, row := range grid[start+1:] {
		obj := rowObject{values: make(map[string]any, len(row))}
		for j, cell := range row {
			if isBlankCell(cell) {
				continue
			}
			obj.keys = append(obj.keys, header[j])
			obj.values[header[j]] = cell
		}
		if len(obj.keys) > 0 {
			objects = append(objects, obj)
		}
	}

	columns := []string{}
	if len(objects) > 0 {
		columns = append(columns, objects[0].keys...)
	}

	records := make([]Record, 0, len(objects))
	for _, obj := range objects {
		rec := make(Record, len(columns))
		for _, col := range columns {
			rec[col] = obj.values[col]
		}
		records = append(records, rec)
	}

	return &Dataset{
		Format:   format,
		Columns:  columns,
		Records:  records,
		RowCount: len(objects),
	}
}

// headerNames names blank header cells __EMPTY, __EMPTY_1, ... and suffixes
// repeated names with _1, _2, ...
func headerNames(row []any, width int) []string {
	names := make([]string, width)
	used := make(map[string]bool, width)
	empty := 0
	for j := 0; j < width; j++ {
		base := ""
		if j < len(row) {
			base = cellText(row[j])
		}
		if base == "" {
			base = "__EMPTY"
			if empty > 0 {
				base = "__EMPTY_" + strconv.Itoa(empty)
			}
			empty++
		}
		name := base
		for n := 1; used[name]; n++ {
			name = base + "_" + strconv.Itoa(n)
		}
		used[name] = true
		names[j] = name
	}
	return names
}

// cellText renders a header cell the way a spreadsheet displays it.
func cellText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	default:
		return fmt.Sprint(v)
	}
}

func isBlankCell(v any) bool {
	return v == nil || v == ""
}

func isBlankRow(row []any) bool {
	for _, cell := range row {
		if !isBlankCell(cell) {
			return false
		}
	}
	return true
}

// parseNumber accepts finite decimal numbers only.
func parseNumber(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
