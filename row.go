package headtable

import "fmt"

// Row is the table owned wrapper of a data item.
type Row struct {
	table *Table
	data  any
	meta  metaStore
}

func (r *Row) Table() *Table { return r.table }
func (r *Row) Data() any     { return r.data }

// Index returns the current position of the row in the table.
// It panics with ErrRowNotInTable if the data item
// is no longer returned by the data function.
func (r *Row) Index() int {
	index := r.index(r.table.Rows())
	if index < 0 {
		panic(fmt.Errorf("%w: %#v", ErrRowNotInTable, r.data))
	}
	return index
}

func (r *Row) index(rows []*Row) int {
	for i, row := range rows {
		if row == r {
			return i
		}
	}
	return -1
}

func (r *Row) IsOdd() bool {
	return r.Index()%2 == 1
}

// Next returns the following row or nil if r is the last row.
func (r *Row) Next() *Row {
	rows := r.table.Rows()
	i := r.index(rows)
	if i < 0 || i+1 >= len(rows) {
		return nil
	}
	return rows[i+1]
}

// Prev returns the preceding row or nil if r is the first row.
func (r *Row) Prev() *Row {
	rows := r.table.Rows()
	i := r.index(rows)
	if i <= 0 {
		return nil
	}
	return rows[i-1]
}
