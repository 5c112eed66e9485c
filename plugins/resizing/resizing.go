// Package resizing implements a table plugin
// that manages column widths.
//
// The width of a column is, in order of precedence,
// the width set by resizing, the "width" column preference,
// the Width column option, or an equal share of the container
// width left by columns with a Width option.
// No width is ever smaller than the minimum width of the column.
package resizing

import (
	"log/slog"

	headtable "github.com/domonda/go-headtable"
)

// Name of the plugin within a table.
const Name = "column-resizing"

const preferenceKey = "width"

// Positions of the resize handle within a header cell.
const (
	HandleLeft  = "left"
	HandleRight = "right"
)

// DefaultMinWidth is the minimum width of columns
// without a MinWidth option.
var DefaultMinWidth = 128.0

// Class of the plugin providing the columnWidth feature.
var Class = headtable.NewClass(Name, func(table *headtable.Table) headtable.Plugin {
	return &Plugin{table: table, observers: make(map[int]func()), handles: make(map[*Handle]struct{})}
}).WithFeatures(headtable.FeatureColumnWidth)

// TableOptions configure resizing for the whole table.
type TableOptions struct {
	// Enabled is true if nil.
	Enabled *bool

	// HandlePosition is HandleLeft if empty.
	HandlePosition string
}

// ColumnOptions configure the width of a column.
type ColumnOptions struct {
	// Width is the initial width if greater zero.
	Width float64

	// MinWidth is DefaultMinWidth if not greater zero.
	MinWidth float64

	// IsResizable defaults to TableOptions.Enabled if nil.
	IsResizable *bool
}

// With returns a plugin list entry with table options.
func With(options TableOptions) headtable.PluginEntry {
	return Class.With(func() any { return options })
}

// ForColumn returns the column plugin options for ColumnConfig.PluginOptions.
func ForColumn(options ColumnOptions) headtable.ColumnPluginOption {
	return Class.ForColumn(func() any { return options })
}

var (
	_ headtable.TableMetaFactory   = new(Plugin)
	_ headtable.ColumnMetaFactory  = new(Plugin)
	_ headtable.ColumnsProvider    = new(Plugin)
	_ headtable.Resetter           = new(Plugin)
	_ headtable.Destroyer          = new(Plugin)
	_ headtable.ContainerModifier  = new(Plugin)
	_ headtable.HeaderCellModifier = new(Plugin)
)

type Plugin struct {
	table        *headtable.Table
	observers    map[int]func()
	nextObserver int
	handles      map[*Handle]struct{}
}

func (p *Plugin) Name() string { return Name }

func (p *Plugin) NewTableMeta(table *headtable.Table) any {
	return &TableMeta{table: table}
}

func (p *Plugin) NewColumnMeta(column *headtable.Column) any {
	return &ColumnMeta{column: column}
}

type visibilityMeta interface {
	IsVisible() bool
}

// Columns returns the raw columns without the columns
// hidden by the columnVisibility plugin if there is one.
func (p *Plugin) Columns() []*headtable.Column {
	columns := headtable.ColumnsFor(p.table, Name)
	if _, ok := p.table.PluginWithFeature(headtable.FeatureColumnVisibility); !ok {
		return columns
	}
	var visible []*headtable.Column
	for _, column := range columns {
		if headtable.ColumnMetaWithFeature[visibilityMeta](column, headtable.FeatureColumnVisibility).IsVisible() {
			visible = append(visible, column)
		}
	}
	return visible
}

// Reset discards all widths set by resizing
// and deletes the width preferences.
func (p *Plugin) Reset() error {
	return TableMetaOf(p.table).Reset()
}

// ModifyContainer observes the size of element
// if it implements ResizeObservable.
func (p *Plugin) ModifyContainer(element headtable.Element, table *headtable.Table) headtable.Destructor {
	observable, ok := element.(ResizeObservable)
	if !ok {
		table.Logger().Debug("Table container does not report size changes", slog.String("plugin", Name))
		return func() {}
	}
	stop := observable.ObserveResize(func(entry ResizeEntry) {
		TableMetaOf(table).OnTableResize(entry)
	})
	id := p.nextObserver
	p.nextObserver++
	p.observers[id] = stop
	return func() {
		if stop, ok := p.observers[id]; ok {
			delete(p.observers, id)
			stop()
		}
	}
}

// ModifyHeaderCell applies the width styles of column to element.
func (p *Plugin) ModifyHeaderCell(element headtable.Element, column *headtable.Column) headtable.Destructor {
	meta := ColumnMetaOf(column)
	if meta.IsResizable() {
		element.SetAttribute("data-test-is-resizable", "true")
	} else {
		element.SetAttribute("data-test-is-resizable", "false")
	}
	meta.Style().Apply(element)
	return func() {}
}

// Destroy stops observing all containers
// and destroys all resize handles.
func (p *Plugin) Destroy() {
	for id, stop := range p.observers {
		delete(p.observers, id)
		stop()
	}
	for h := range p.handles {
		h.Destroy()
	}
}

func TableMetaOf(table *headtable.Table) *TableMeta {
	return headtable.TableMeta[*TableMeta](table, Name)
}

func ColumnMetaOf(column *headtable.Column) *ColumnMeta {
	return headtable.ColumnMeta[*ColumnMeta](column, Name)
}

// IsResizing returns if the user is dragging the handle of the column.
func IsResizing(column *headtable.Column) bool { return ColumnMetaOf(column).IsResizing() }

// CanShrink returns if the column is wider than its minimum width.
func CanShrink(column *headtable.Column) bool { return ColumnMetaOf(column).CanShrink() }

// HasResizeHandle returns if a resize handle should be rendered for the column.
func HasResizeHandle(column *headtable.Column) bool { return ColumnMetaOf(column).HasResizeHandle() }

// StyleStringFor returns the width styles of the column
// for the style attribute of its cells.
func StyleStringFor(column *headtable.Column) string { return ColumnMetaOf(column).StyleString() }
