// Package reordering implements a table plugin
// that lets users change the order of the visible columns.
//
// Positions are stored per column key as "position" column preferences
// and restored when the table is created.
package reordering

import (
	"log/slog"

	headtable "github.com/domonda/go-headtable"
)

// Name of the plugin within a table.
const Name = "column-reordering"

const preferenceKey = "position"

// Class of the plugin providing the columnOrder feature.
// It requires a plugin providing columnVisibility.
var Class = headtable.NewClass(Name, func(table *headtable.Table) headtable.Plugin {
	return &Plugin{table: table}
}).WithFeatures(headtable.FeatureColumnOrder).WithRequires(headtable.FeatureColumnVisibility)

var (
	_ headtable.TableMetaFactory  = new(Plugin)
	_ headtable.ColumnMetaFactory = new(Plugin)
	_ headtable.ColumnsProvider   = new(Plugin)
	_ headtable.Resetter          = new(Plugin)
)

type Plugin struct {
	table *headtable.Table
}

func (p *Plugin) Name() string { return Name }

func (p *Plugin) NewTableMeta(table *headtable.Table) any {
	m := &TableMeta{table: table}
	m.order = NewColumnOrder(OrderConfig{
		Keys:     m.keys,
		Save:     m.save,
		Existing: m.restore(),
	})
	return m
}

func (p *Plugin) NewColumnMeta(column *headtable.Column) any {
	return &ColumnMeta{column: column}
}

// Columns returns the visible columns ordered by position.
func (p *Plugin) Columns() []*headtable.Column {
	return TableMetaOf(p.table).Columns()
}

// Reset forgets all positions and deletes their preferences.
func (p *Plugin) Reset() error {
	TableMetaOf(p.table).order.Reset()
	return headtable.PreferencesForAllColumns(p.table, Name).Delete(preferenceKey)
}

func TableMetaOf(table *headtable.Table) *TableMeta {
	return headtable.TableMeta[*TableMeta](table, Name)
}

func ColumnMetaOf(column *headtable.Column) *ColumnMeta {
	return headtable.ColumnMeta[*ColumnMeta](column, Name)
}

// MoveLeft moves the column one position to the left.
// Nothing happens if the column is the first one.
func MoveLeft(column *headtable.Column) (bool, error) { return ColumnMetaOf(column).MoveLeft() }

// MoveRight moves the column one position to the right.
// Nothing happens if the column is the last one.
func MoveRight(column *headtable.Column) (bool, error) { return ColumnMetaOf(column).MoveRight() }

func CanMoveLeft(column *headtable.Column) bool  { return ColumnMetaOf(column).CanMoveLeft() }
func CanMoveRight(column *headtable.Column) bool { return ColumnMetaOf(column).CanMoveRight() }

// TableMeta holds the ColumnOrder of a table.
type TableMeta struct {
	table *headtable.Table
	order *ColumnOrder
}

func (m *TableMeta) ColumnOrder() *ColumnOrder {
	return m.order
}

// keys returns the keys of the columns
// as provided by the columnVisibility plugin.
func (m *TableMeta) keys() []string {
	columns := headtable.ColumnsFor(m.table, Name)
	keys := make([]string, len(columns))
	for i, column := range columns {
		keys[i] = column.Key()
	}
	return keys
}

func (m *TableMeta) restore() map[string]int {
	existing := make(map[string]int)
	for _, column := range m.table.Columns() {
		if position, ok := headtable.PreferencesForColumn(column, Name).Float(preferenceKey); ok {
			existing[column.Key()] = int(position)
		}
	}
	return existing
}

func (m *TableMeta) save(positions map[string]int) error {
	m.table.Logger().Debug("Save column order", slog.Any("positions", positions))
	values := make(map[string]any, len(positions))
	for key, position := range positions {
		values[key] = position
	}
	return m.table.Preferences().SetForColumns(Name, preferenceKey, values)
}

// Columns returns the visible columns ordered by position.
func (m *TableMeta) Columns() []*headtable.Column {
	return sortByOrder(
		headtable.ColumnsFor(m.table, Name),
		(*headtable.Column).Key,
		m.order.OrderedMap(),
	)
}

// GetPosition returns the position of a visible column.
func (m *TableMeta) GetPosition(column *headtable.Column) int {
	return m.order.Get(column.Key())
}

// SetPosition swaps the column with the column at position.
func (m *TableMeta) SetPosition(column *headtable.Column, position int) (bool, error) {
	return m.order.Set(column.Key(), position)
}

// ColumnMeta is the position of a column.
type ColumnMeta struct {
	column *headtable.Column
}

func (m *ColumnMeta) tableMeta() *TableMeta {
	return TableMetaOf(m.column.Table())
}

func (m *ColumnMeta) Position() int {
	return m.tableMeta().GetPosition(m.column)
}

func (m *ColumnMeta) SetPosition(position int) (bool, error) {
	return m.tableMeta().SetPosition(m.column, position)
}

func (m *ColumnMeta) MoveLeft() (bool, error) {
	return m.tableMeta().order.MoveLeft(m.column.Key())
}

func (m *ColumnMeta) MoveRight() (bool, error) {
	return m.tableMeta().order.MoveRight(m.column.Key())
}

func (m *ColumnMeta) CanMoveLeft() bool {
	return m.Position() > 0
}

func (m *ColumnMeta) CanMoveRight() bool {
	return m.Position() < len(m.tableMeta().keys())-1
}
