// Package visibility implements a table plugin
// that lets users hide and show columns.
//
// The visibility of a column is its "isVisible" preference if set,
// else the IsVisible column option, else true.
// Only deviations from the column option are stored as preferences.
package visibility

import (
	"fmt"
	"log/slog"
	"slices"

	headtable "github.com/domonda/go-headtable"
)

// Name of the plugin within a table.
const Name = "column-visibility"

const preferenceKey = "isVisible"

// Class of the plugin providing the columnVisibility feature.
var Class = headtable.NewClass(Name, func(table *headtable.Table) headtable.Plugin {
	return &Plugin{table: table}
}).WithFeatures(headtable.FeatureColumnVisibility)

// ColumnOptions configure the initial visibility of a column.
type ColumnOptions struct {
	// IsVisible is the default visibility of the column.
	// Columns are visible by default if nil.
	IsVisible *bool
}

// ForColumn returns the column plugin options for ColumnConfig.PluginOptions.
func ForColumn(options ColumnOptions) headtable.ColumnPluginOption {
	return Class.ForColumn(func() any { return options })
}

// Hidden returns column options for a column that is hidden by default.
func Hidden() headtable.ColumnPluginOption {
	hidden := false
	return ForColumn(ColumnOptions{IsVisible: &hidden})
}

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
	return &TableMeta{table: table}
}

func (p *Plugin) NewColumnMeta(column *headtable.Column) any {
	return &ColumnMeta{column: column}
}

// Columns returns the visible columns.
func (p *Plugin) Columns() []*headtable.Column {
	return TableMetaOf(p.table).VisibleColumns()
}

// Reset deletes the visibility preferences of all columns.
func (p *Plugin) Reset() error {
	return headtable.PreferencesForAllColumns(p.table, Name).Delete(preferenceKey)
}

func TableMetaOf(table *headtable.Table) *TableMeta {
	return headtable.TableMeta[*TableMeta](table, Name)
}

func ColumnMetaOf(column *headtable.Column) *ColumnMeta {
	return headtable.ColumnMeta[*ColumnMeta](column, Name)
}

// IsVisible returns if the column is currently visible.
func IsVisible(column *headtable.Column) bool { return ColumnMetaOf(column).IsVisible() }

// IsHidden returns if the column is currently hidden.
func IsHidden(column *headtable.Column) bool { return !ColumnMetaOf(column).IsVisible() }

// Hide hides the column.
func Hide(column *headtable.Column) error { return ColumnMetaOf(column).Hide() }

// Show shows the column.
func Show(column *headtable.Column) error { return ColumnMetaOf(column).Show() }

// ColumnMeta is the visibility state of a column.
type ColumnMeta struct {
	column *headtable.Column
}

func (m *ColumnMeta) IsVisible() bool {
	visible, ok := headtable.PreferencesForColumn(m.column, Name).Bool(preferenceKey)
	if ok {
		return visible
	}
	return m.defaultVisible()
}

func (m *ColumnMeta) IsHidden() bool {
	return !m.IsVisible()
}

func (m *ColumnMeta) defaultVisible() bool {
	options := headtable.ColumnOptions[ColumnOptions](m.column, Name)
	if options.IsVisible != nil {
		return *options.IsVisible
	}
	return true
}

func (m *ColumnMeta) Hide() error { return m.setVisible(false) }

func (m *ColumnMeta) Show() error { return m.setVisible(true) }

func (m *ColumnMeta) Toggle() error { return m.setVisible(!m.IsVisible()) }

func (m *ColumnMeta) setVisible(visible bool) error {
	if m.IsVisible() == visible {
		return nil
	}
	m.column.Table().Logger().Debug("Set column visibility",
		slog.String("column", m.column.Key()),
		slog.Bool("visible", visible),
	)
	prefs := headtable.PreferencesForColumn(m.column, Name)
	if visible == m.defaultVisible() {
		return prefs.Delete(preferenceKey)
	}
	return prefs.Set(preferenceKey, visible)
}

// TableMeta lists the visible columns of a table.
type TableMeta struct {
	table *headtable.Table
}

// VisibleColumns returns the visible raw columns in configuration order.
func (m *TableMeta) VisibleColumns() []*headtable.Column {
	var visible []*headtable.Column
	for _, column := range headtable.ColumnsFor(m.table, Name) {
		if ColumnMetaOf(column).IsVisible() {
			visible = append(visible, column)
		}
	}
	return visible
}

func (m *TableMeta) ToggleColumnVisibility(column *headtable.Column) error {
	return ColumnMetaOf(column).Toggle()
}

func (m *TableMeta) visibleIndex(column *headtable.Column) ([]*headtable.Column, int) {
	visible := m.VisibleColumns()
	index := slices.Index(visible, column)
	if index < 0 {
		panic(fmt.Errorf("%w: %s is hidden", headtable.ErrColumnNotInTable, column))
	}
	return visible, index
}

// PreviousColumn returns the visible column before column or nil.
// It panics if column is hidden.
func (m *TableMeta) PreviousColumn(column *headtable.Column) *headtable.Column {
	visible, index := m.visibleIndex(column)
	if index == 0 {
		return nil
	}
	return visible[index-1]
}

// NextColumn returns the visible column after column or nil.
// It panics if column is hidden.
func (m *TableMeta) NextColumn(column *headtable.Column) *headtable.Column {
	visible, index := m.visibleIndex(column)
	if index+1 == len(visible) {
		return nil
	}
	return visible[index+1]
}

func (m *TableMeta) ColumnsBefore(column *headtable.Column) []*headtable.Column {
	visible, index := m.visibleIndex(column)
	return visible[:index]
}

func (m *TableMeta) ColumnsAfter(column *headtable.Column) []*headtable.Column {
	visible, index := m.visibleIndex(column)
	return visible[index+1:]
}
