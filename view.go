package headtable

import "fmt"

// View is a read only snapshot of the cells of a table.
type View interface {
	Title() string
	Columns() []string
	NumRows() int
	Cell(row, col int) (any, error)
}

// View returns a snapshot of the table as perceived by the user:
// the columns returned by ColumnsFor with an empty requester
// and the cell values returned by Column.ValueForRow.
// The column titles are the column names, or keys if the name is empty.
func (t *Table) View(title string) View {
	columns := ColumnsFor(t, "")
	v := &tableView{
		title:   title,
		columns: make([]string, len(columns)),
		rows:    t.Rows(),
		cols:    columns,
	}
	for i, column := range columns {
		v.columns[i] = column.Name()
		if v.columns[i] == "" {
			v.columns[i] = column.Key()
		}
	}
	return v
}

var _ View = new(tableView)

type tableView struct {
	title   string
	columns []string
	rows    []*Row
	cols    []*Column
}

func (v *tableView) Title() string     { return v.title }
func (v *tableView) Columns() []string { return v.columns }
func (v *tableView) NumRows() int      { return len(v.rows) }

func (v *tableView) Cell(row, col int) (any, error) {
	if row < 0 || row >= len(v.rows) {
		return nil, fmt.Errorf("row index %d out of bounds [0..%d)", row, len(v.rows))
	}
	if col < 0 || col >= len(v.cols) {
		return nil, fmt.Errorf("column index %d out of bounds [0..%d)", col, len(v.cols))
	}
	return v.cols[col].ValueForRow(v.rows[row]), nil
}
