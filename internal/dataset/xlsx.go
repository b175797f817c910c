package dataset

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// readXLSX reads the configured sheet of a workbook into raw rows. The first
// row is the header.
func (l *Loader) readXLSX(path string) ([]rawRow, error) {
	rc, err := l.open(path)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: open xlsx")
	}
	defer rc.Close() //nolint:errcheck

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: read xlsx")
	}

	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: parse xlsx")
	}

	sheet, err := l.getSheet(f)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, ErrEmptySource
	}

	header := normalizeHeader(rowToStrings(sheet.Rows[0]))
	if err := checkColumns(header); err != nil {
		return nil, err
	}
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		if _, dup := colIdx[h]; !dup {
			colIdx[h] = i
		}
	}

	rows := make([]rawRow, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		cells := rowToStrings(row)
		rows = append(rows, rawRow{
			Borough:       getCol(cells, colIdx, ColBorough),
			Latitude:      getCol(cells, colIdx, ColLatitude),
			Longitude:     getCol(cells, colIdx, ColLongitude),
			PriorityScore: getCol(cells, colIdx, ColPriorityScore),
		})
	}
	return rows, nil
}

func (l *Loader) getSheet(f *xlsx.File) (*xlsx.Sheet, error) {
	if l.sheet != "" {
		sheet, ok := f.Sheet[l.sheet]
		if !ok {
			return nil, eris.Errorf("dataset: sheet %q not found", l.sheet)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("dataset: workbook has no sheets")
	}
	return f.Sheets[0], nil
}

// rowToStrings returns the stored value of numeric cells rather than the
// formatted display text, which may be rounded by the cell's number format.
func rowToStrings(row *xlsx.Row) []string {
	if row == nil {
		return nil
	}
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		if cell.Type() == xlsx.CellTypeNumeric {
			cells[j] = cell.Value
			continue
		}
		cells[j] = cell.String()
	}
	return cells
}

// getCol returns the cell for col, or "" when the row is short.
func getCol(cells []string, colIdx map[string]int, col string) string {
	i, ok := colIdx[col]
	if !ok || i >= len(cells) {
		return ""
	}
	return cells[i]
}
