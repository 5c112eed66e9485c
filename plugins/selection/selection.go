// Package selection implements a table plugin
// that toggles the selection of rows when they are clicked.
//
// The caller owns the selection. The plugin reads it from
// Options.Selection and reports changes through OnSelect and OnDeselect.
package selection

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"

	headtable "github.com/domonda/go-headtable"
)

// Name of the plugin within a table.
const Name = "row-selection"

// ErrMissingOptions is the panic value when the plugin
// is used without OnSelect or OnDeselect.
var ErrMissingOptions = errors.New("onSelect and onDeselect are required options for the RowSelection plugin")

// Class of the plugin.
var Class = headtable.NewClass(Name, func(table *headtable.Table) headtable.Plugin {
	return &Plugin{table: table}
})

// Options of the plugin.
type Options struct {
	// Selection holds the selected items or, if Key is set, their keys.
	// A nil Selection is empty.
	Selection []any
	// Key maps the data of a row to the item stored in Selection.
	Key func(data any) any
	// OnSelect is called with the item of a row to be selected.
	OnSelect func(item any, row *headtable.Row)
	// OnDeselect is called with the item of a row to be deselected.
	OnDeselect func(item any, row *headtable.Row)
}

// With returns a plugin list entry with options.
func With(options func() Options) headtable.PluginEntry {
	return Class.With(func() any { return options() })
}

// Tags of interactive elements that handle clicks themselves.
var interactiveTags = []string{"input", "button", "label", "a", "select"}

// ClickEvent is a click within the element of a row.
type ClickEvent struct {
	// Path lists the tag names from the clicked element
	// up to but not including the row element.
	Path []string
	// TextSelected is true if the user is selecting
	// text within the clicked element.
	TextSelected bool
	// StopPropagation is called if not nil
	// when the click is part of a text selection.
	StopPropagation func()
}

// ClickTarget is implemented by row elements that report clicks.
type ClickTarget interface {
	AddClickListener(listener func(ClickEvent)) (remove func())
}

var (
	_ headtable.TableMetaFactory = new(Plugin)
	_ headtable.RowMetaFactory   = new(Plugin)
	_ headtable.RowModifier      = new(Plugin)
)

type Plugin struct {
	table *headtable.Table
}

func (p *Plugin) Name() string { return Name }

func (p *Plugin) NewTableMeta(table *headtable.Table) any {
	return &TableMeta{table: table}
}

func (p *Plugin) NewRowMeta(row *headtable.Row) any {
	return &RowMeta{row: row}
}

// ModifyRow toggles the selection of row
// on clicks reported by element if it implements ClickTarget.
func (p *Plugin) ModifyRow(element headtable.Element, row *headtable.Row) headtable.Destructor {
	target, ok := element.(ClickTarget)
	if !ok {
		p.table.Logger().Debug("Row element does not report clicks", slog.String("plugin", Name))
		return func() {}
	}
	remove := target.AddClickListener(func(event ClickEvent) {
		HandleClick(row, event)
	})
	return headtable.Destructor(remove)
}

// HandleClick toggles the selection of row unless the click
// is part of a text selection or landed on an interactive element.
// It returns if the selection was toggled.
func HandleClick(row *headtable.Row, event ClickEvent) bool {
	if event.TextSelected {
		if event.StopPropagation != nil {
			event.StopPropagation()
		}
		return false
	}
	for _, tag := range event.Path {
		if slices.Contains(interactiveTags, strings.ToLower(tag)) {
			return false
		}
	}
	RowMetaOf(row).Toggle()
	return true
}

func TableMetaOf(table *headtable.Table) *TableMeta {
	return headtable.TableMeta[*TableMeta](table, Name)
}

func RowMetaOf(row *headtable.Row) *RowMeta {
	return headtable.RowMeta[*RowMeta](row, Name)
}

func IsSelected(row *headtable.Row) bool { return RowMetaOf(row).IsSelected() }
func Select(row *headtable.Row)          { RowMetaOf(row).Select() }
func Deselect(row *headtable.Row)        { RowMetaOf(row).Deselect() }
func Toggle(row *headtable.Row)          { RowMetaOf(row).Toggle() }

type TableMeta struct {
	table *headtable.Table
}

// Options returns the options of the plugin.
// It panics with ErrMissingOptions if OnSelect or OnDeselect is nil.
func (m *TableMeta) Options() Options {
	options := headtable.TableOptions[Options](m.table, Name)
	if options.OnSelect == nil || options.OnDeselect == nil {
		panic(fmt.Errorf("%w. Specify them via selection.With(func() selection.Options { ... })", ErrMissingOptions))
	}
	return options
}

// Selection returns the current selection.
func (m *TableMeta) Selection() []any {
	return m.Options().Selection
}

// Contains returns if item is part of the selection.
func (m *TableMeta) Contains(item any) bool {
	return slices.ContainsFunc(m.Selection(), func(selected any) bool {
		return sameItem(selected, item)
	})
}

func sameItem(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	// Type.Comparable is true for structs with interface fields
	// that may hold uncomparable values
	if va.Comparable() && vb.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

type RowMeta struct {
	row *headtable.Row
}

func (m *RowMeta) tableMeta() *TableMeta {
	return TableMetaOf(m.row.Table())
}

// item returns the key of the row data if Key is set
// or the row data itself.
func (m *RowMeta) item(options Options) any {
	if options.Key != nil {
		return options.Key(m.row.Data())
	}
	return m.row.Data()
}

func (m *RowMeta) IsSelected() bool {
	meta := m.tableMeta()
	return meta.Contains(m.item(meta.Options()))
}

func (m *RowMeta) Select() {
	options := m.tableMeta().Options()
	options.OnSelect(m.item(options), m.row)
}

func (m *RowMeta) Deselect() {
	options := m.tableMeta().Options()
	options.OnDeselect(m.item(options), m.row)
}

func (m *RowMeta) Toggle() {
	if m.IsSelected() {
		m.Deselect()
		return
	}
	m.Select()
}
