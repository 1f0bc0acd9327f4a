package feature

import (
	"iter"
	"slices"
	"strings"

	messages "github.com/cucumber/messages/go/v21"
)

// Row is a single row of a Table.
type Row struct {
	cells   []string
	headers []string
}

// Get returns the cell under the column named col, ignoring case. Missing
// columns and short rows yield an empty string.
func (r Row) Get(col string) string {
	for i, h := range r.headers {
		if strings.EqualFold(h, col) {
			return r.Cell(i)
		}
	}
	return ""
}

// Cell returns the cell at index, or an empty string when out of range.
func (r Row) Cell(index int) string {
	if index < 0 || index >= len(r.cells) {
		return ""
	}
	return r.cells[index]
}

// Values returns all cells in order.
func (r Row) Values() []string {
	return slices.Clone(r.cells)
}

func (r Row) Len() int {
	return len(r.cells)
}

// Table is the data table attached to a step. Step functions taking a Table
// parameter receive it instead of consuming a capture group. The first row
// names the columns for Row.Get.
type Table struct {
	headers []string
	rows    []Row
}

// NewTable creates a Table from raw cells.
func NewTable(data [][]string) Table {
	if len(data) == 0 {
		return Table{}
	}

	headers := slices.Clone(data[0])
	rows := make([]Row, len(data))
	for i, cells := range data {
		rows[i] = Row{cells: slices.Clone(cells), headers: headers}
	}
	return Table{headers: headers, rows: rows}
}

// NewTableFromPickle creates a Table from a compiled step argument.
func NewTableFromPickle(table *messages.PickleTable) Table {
	if table == nil {
		return Table{}
	}

	data := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.Value
		}
		data[i] = cells
	}
	return NewTable(data)
}

// Headers returns the cells of the first row.
func (t Table) Headers() []string {
	return slices.Clone(t.headers)
}

// Len returns the number of rows including the header row.
func (t Table) Len() int {
	return len(t.rows)
}

// All iterates over every row including the header row.
func (t Table) All() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i, row := range t.rows {
			if !yield(i, row) {
				return
			}
		}
	}
}

// SkipHeader iterates over the data rows, indexed from 0.
//
//	for _, row := range table.SkipHeader() {
//	    name := row.Get("name")
//	}
func (t Table) SkipHeader() iter.Seq2[int, Row] {
	return func(yield func(int, Row) bool) {
		for i := 1; i < len(t.rows); i++ {
			if !yield(i-1, t.rows[i]) {
				return
			}
		}
	}
}
