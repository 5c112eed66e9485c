// Package sticky implements a table plugin that keeps
// columns in view while the table scrolls horizontally.
//
// Offsets are computed from the widths of the neighboring columns
// so a plugin providing columnWidth is required.
package sticky

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	headtable "github.com/domonda/go-headtable"
)

// Name of the plugin within a table.
const Name = "sticky-columns"

// DefaultZIndex of sticky cells.
const DefaultZIndex = "8"

// Sticky positions of a column.
const (
	Left  = "left"
	Right = "right"
	None  = "none"
)

// ErrInvalidPosition is the panic value for an unknown
// Sticky column option.
var ErrInvalidPosition = errors.New("invalid sticky value")

// Class of the plugin. It requires a plugin providing columnWidth.
var Class = headtable.NewClass(Name, func(*headtable.Table) headtable.Plugin {
	return new(Plugin)
}).WithRequires(headtable.FeatureColumnWidth)

// ColumnOptions of the plugin.
type ColumnOptions struct {
	// Sticky is Left, Right or empty for a column that scrolls.
	Sticky string
}

// ForColumn returns the column plugin options for ColumnConfig.PluginOptions.
func ForColumn(sticky string) headtable.ColumnPluginOption {
	return Class.ForColumn(func() any { return ColumnOptions{Sticky: sticky} })
}

var (
	_ headtable.ColumnMetaFactory  = new(Plugin)
	_ headtable.HeaderCellModifier = new(Plugin)
)

type Plugin struct{}

func (*Plugin) Name() string { return Name }

func (*Plugin) NewColumnMeta(column *headtable.Column) any {
	return &ColumnMeta{column: column}
}

// ModifyHeaderCell applies the sticky styles of column to element
// or removes sticky styles of a column that is no longer sticky.
func (*Plugin) ModifyHeaderCell(element headtable.Element, column *headtable.Column) headtable.Destructor {
	ModifyCell(element, column)
	return func() {}
}

// ModifyCell applies the sticky styles of column to the element
// of a header or body cell.
func ModifyCell(element headtable.Element, column *headtable.Column) {
	meta := ColumnMetaOf(column)
	if meta.IsSticky() {
		meta.Style().Apply(element)
		return
	}
	removeStyles(element)
}

// removeStyles removes only the declarations applied by Style.
func removeStyles(element headtable.Element) {
	if element.Style("position") != "sticky" {
		return
	}
	element.RemoveStyle("position")
	for _, side := range []string{Left, Right} {
		if strings.HasSuffix(element.Style(side), "px") {
			element.RemoveStyle(side)
		}
	}
	if element.Style("z-index") == DefaultZIndex {
		element.RemoveStyle("z-index")
	}
}

func ColumnMetaOf(column *headtable.Column) *ColumnMeta {
	return headtable.ColumnMeta[*ColumnMeta](column, Name)
}

func IsSticky(column *headtable.Column) bool { return ColumnMetaOf(column).IsSticky() }

// ColumnMeta computes the sticky position of a column.
type ColumnMeta struct {
	column *headtable.Column
}

// Position returns Left, Right or None.
// It panics with ErrInvalidPosition for an unknown Sticky option.
func (m *ColumnMeta) Position() string {
	sticky := headtable.ColumnOptions[ColumnOptions](m.column, Name).Sticky
	switch sticky {
	case Left, Right:
		return sticky
	case "", None:
		return None
	}
	panic(fmt.Errorf("%w, %s. Valid values: '%s', '%s', '%s'", ErrInvalidPosition, sticky, Left, Right, None))
}

func (m *ColumnMeta) IsSticky() bool {
	return m.Position() != None
}

type widthMeta interface {
	Width() float64
}

// Offset returns the sum of the widths of the columns
// before a Left or after a Right column.
func (m *ColumnMeta) Offset() (float64, bool) {
	var columns []*headtable.Column
	switch m.Position() {
	case Left:
		columns = headtable.ColumnsBefore(m.column, "")
	case Right:
		columns = headtable.ColumnsAfter(m.column, "")
	default:
		return 0, false
	}
	var offset float64
	for _, column := range columns {
		offset += headtable.ColumnMetaWithFeature[widthMeta](column, headtable.FeatureColumnWidth).Width()
	}
	return offset, true
}

// Style returns the declarations of a sticky column
// or nil if the column is not sticky.
func (m *ColumnMeta) Style() headtable.Styles {
	offset, ok := m.Offset()
	if !ok {
		return nil
	}
	return headtable.Styles{
		{Property: "position", Value: "sticky"},
		{Property: m.Position(), Value: strconv.FormatFloat(offset, 'f', -1, 64) + "px"},
		{Property: "z-index", Value: DefaultZIndex},
	}
}
