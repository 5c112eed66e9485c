// Package sorting implements a table plugin that conveys
// sort requests for columns without sorting any data.
//
// The caller owns the data. OnSort receives the requested sorts
// and the caller reports the sorts in effect back through Options.Sorts.
package sorting

import (
	"log/slog"
	"slices"

	headtable "github.com/domonda/go-headtable"
)

// Name of the plugin within a table.
const Name = "data-sorting"

// Class of the plugin.
var Class = headtable.NewClass(Name, func(*headtable.Table) headtable.Plugin {
	return new(Plugin)
})

// SortDirection of a column.
type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
	None       SortDirection = "none"
)

// SortItem is the sort of one property.
type SortItem struct {
	Property  string        `json:"property"`
	Direction SortDirection `json:"direction"`
}

// Options of the plugin.
// Sorting is disabled unless OnSort is set.
// A nil Sorts means no sort is in effect.
type Options struct {
	// OnSort handles requests to change the sorts.
	OnSort func(sorts []SortItem)
	// Sorts currently in effect.
	Sorts []SortItem
}

// ColumnOptions of the plugin.
type ColumnOptions struct {
	// IsSortable defaults to the table being sortable.
	IsSortable *bool
	// SortProperty replaces the column key
	// as Property of the SortItem passed to OnSort.
	SortProperty string
}

// With returns a plugin list entry with options.
func With(options func() Options) headtable.PluginEntry {
	return Class.With(func() any { return options() })
}

// ForColumn returns the column plugin options for ColumnConfig.PluginOptions.
func ForColumn(options ColumnOptions) headtable.ColumnPluginOption {
	return Class.ForColumn(func() any { return options })
}

var (
	_ headtable.TableMetaFactory   = new(Plugin)
	_ headtable.ColumnMetaFactory  = new(Plugin)
	_ headtable.HeaderCellModifier = new(Plugin)
)

type Plugin struct{}

func (*Plugin) Name() string { return Name }

func (*Plugin) NewTableMeta(table *headtable.Table) any {
	return &TableMeta{table: table}
}

func (*Plugin) NewColumnMeta(column *headtable.Column) any {
	return &ColumnMeta{column: column}
}

// ModifyHeaderCell sets the aria-sort and data-test-is-sortable attributes.
func (*Plugin) ModifyHeaderCell(element headtable.Element, column *headtable.Column) headtable.Destructor {
	meta := ColumnMetaOf(column)
	if meta.IsSortable() {
		element.SetAttribute("data-test-is-sortable", "true")
	} else {
		element.SetAttribute("data-test-is-sortable", "false")
	}
	element.SetAttribute("aria-sort", string(meta.SortDirection()))
	return func() {}
}

func TableMetaOf(table *headtable.Table) *TableMeta {
	return headtable.TableMeta[*TableMeta](table, Name)
}

func ColumnMetaOf(column *headtable.Column) *ColumnMeta {
	return headtable.ColumnMeta[*ColumnMeta](column, Name)
}

func Direction(column *headtable.Column) SortDirection { return ColumnMetaOf(column).SortDirection() }
func IsSortable(column *headtable.Column) bool         { return ColumnMetaOf(column).IsSortable() }
func IsAscending(column *headtable.Column) bool        { return ColumnMetaOf(column).IsAscending() }
func IsDescending(column *headtable.Column) bool       { return ColumnMetaOf(column).IsDescending() }
func IsUnsorted(column *headtable.Column) bool         { return ColumnMetaOf(column).IsUnsorted() }

// Sort requests the next sort of column in the order
// descending, ascending, none.
func Sort(column *headtable.Column) { TableMetaOf(column.Table()).HandleSort(column) }

// SortAscending toggles column between ascending and unsorted.
func SortAscending(column *headtable.Column) { TableMetaOf(column.Table()).ToggleAscending(column) }

// SortDescending toggles column between descending and unsorted.
func SortDescending(column *headtable.Column) { TableMetaOf(column.Table()).ToggleDescending(column) }

type ColumnMeta struct {
	column *headtable.Column
}

func (m *ColumnMeta) options() ColumnOptions {
	return headtable.ColumnOptions[ColumnOptions](m.column, Name)
}

func (m *ColumnMeta) tableMeta() *TableMeta {
	return TableMetaOf(m.column.Table())
}

func (m *ColumnMeta) IsSortable() bool {
	if sortable := m.options().IsSortable; sortable != nil {
		return *sortable
	}
	return m.tableMeta().IsSortable()
}

// SortProperty returns the SortProperty option or the column key.
func (m *ColumnMeta) SortProperty() string {
	if property := m.options().SortProperty; property != "" {
		return property
	}
	return m.column.Key()
}

// SortDirection returns the direction of the current sort
// of the column's SortProperty or None.
func (m *ColumnMeta) SortDirection() SortDirection {
	property := m.SortProperty()
	index := slices.IndexFunc(m.tableMeta().Sorts(), func(s SortItem) bool { return s.Property == property })
	if index < 0 {
		return None
	}
	return m.tableMeta().Sorts()[index].Direction
}

func (m *ColumnMeta) IsAscending() bool  { return m.SortDirection() == Ascending }
func (m *ColumnMeta) IsDescending() bool { return m.SortDirection() == Descending }
func (m *ColumnMeta) IsUnsorted() bool   { return m.SortDirection() == None }

type TableMeta struct {
	table *headtable.Table
}

func (m *TableMeta) Options() Options {
	return headtable.TableOptions[Options](m.table, Name)
}

// Sorts returns the sorts in effect.
func (m *TableMeta) Sorts() []SortItem {
	return m.Options().Sorts
}

// IsSortable returns true if OnSort is set.
func (m *TableMeta) IsSortable() bool {
	return m.Options().OnSort != nil
}

func (m *TableMeta) onSort(column *headtable.Column, sorts []SortItem) {
	onSort := m.Options().OnSort
	if onSort == nil {
		return
	}
	m.table.Logger().Debug("Sort requested", slog.String("column", column.Key()), slog.Any("sorts", sorts))
	onSort(sorts)
}

func (m *TableMeta) request(column *headtable.Column, direction SortDirection) {
	m.onSort(column, []SortItem{{Property: ColumnMetaOf(column).SortProperty(), Direction: direction}})
}

// HandleSort requests the next sort of column:
// unsorted becomes descending, descending becomes ascending,
// ascending clears all sorts.
func (m *TableMeta) HandleSort(column *headtable.Column) {
	switch ColumnMetaOf(column).SortDirection() {
	case Ascending:
		m.onSort(column, []SortItem{})
	case Descending:
		m.request(column, Ascending)
	default:
		m.request(column, Descending)
	}
}

// ToggleAscending requests an ascending sort of column
// or clears all sorts if column is already ascending.
func (m *TableMeta) ToggleAscending(column *headtable.Column) {
	if ColumnMetaOf(column).IsAscending() {
		m.onSort(column, []SortItem{})
		return
	}
	m.request(column, Ascending)
}

// ToggleDescending requests a descending sort of column
// or clears all sorts if column is already descending.
func (m *TableMeta) ToggleDescending(column *headtable.Column) {
	if ColumnMetaOf(column).IsDescending() {
		m.onSort(column, []SortItem{})
		return
	}
	m.request(column, Descending)
}
