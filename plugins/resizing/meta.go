package resizing

import (
	"log/slog"
	"math"
	"slices"
	"strconv"

	headtable "github.com/domonda/go-headtable"
)

// epsilon below which remaining deltas are ignored
const epsilon = 1e-9

// ColumnMeta holds the width of a column.
type ColumnMeta struct {
	column     *headtable.Column
	width      float64
	hasWidth   bool
	isResizing bool
}

func (m *ColumnMeta) tableMeta() *TableMeta {
	return TableMetaOf(m.column.Table())
}

func (m *ColumnMeta) options() ColumnOptions {
	return headtable.ColumnOptions[ColumnOptions](m.column, Name)
}

func (m *ColumnMeta) MinWidth() float64 {
	if minWidth := m.options().MinWidth; minWidth > 0 {
		return minWidth
	}
	return DefaultMinWidth
}

// InitialWidth returns the Width option of the column.
func (m *ColumnMeta) InitialWidth() (float64, bool) {
	width := m.options().Width
	return width, width > 0
}

// Width returns the current width which
// is never less than MinWidth.
func (m *ColumnMeta) Width() float64 {
	minWidth := m.MinWidth()
	if m.hasWidth {
		return math.Max(m.width, minWidth)
	}
	if width, ok := headtable.PreferencesForColumn(m.column, Name).Float(preferenceKey); ok && width > 0 {
		return math.Max(width, minWidth)
	}
	if width, ok := m.InitialWidth(); ok {
		return math.Max(width, minWidth)
	}
	if width, ok := m.tableMeta().DefaultColumnWidth(); ok {
		return math.Max(width, minWidth)
	}
	return minWidth
}

// SetWidth sets the width clamped to MinWidth.
func (m *ColumnMeta) SetWidth(width float64) {
	m.width = math.Max(width, m.MinWidth())
	m.hasWidth = true
}

func (m *ColumnMeta) CanShrink() bool {
	return m.Width() > m.MinWidth()
}

func (m *ColumnMeta) RoomToShrink() float64 {
	return math.Max(m.Width()-m.MinWidth(), 0)
}

// IsResizable returns the IsResizable option of the column
// or if resizing is enabled for the table.
func (m *ColumnMeta) IsResizable() bool {
	if resizable := m.options().IsResizable; resizable != nil {
		return *resizable
	}
	return m.tableMeta().IsResizable()
}

func (m *ColumnMeta) IsResizing() bool {
	return m.isResizing
}

// HasResizeHandle returns true if the column and its neighbor
// on the side of the handle are both resizable.
// Handles exist only between columns.
func (m *ColumnMeta) HasResizeHandle() bool {
	if !m.IsResizable() {
		return false
	}
	columns := m.tableMeta().perceivedColumns()
	index := slices.Index(columns, m.column)
	if index < 0 {
		return false
	}
	neighbor := index - 1
	if m.tableMeta().HandlePosition() == HandleRight {
		neighbor = index + 1
	}
	if neighbor < 0 || neighbor >= len(columns) {
		return false
	}
	return ColumnMetaOf(columns[neighbor]).IsResizable()
}

// Style returns the width and min-width declarations of the column.
func (m *ColumnMeta) Style() headtable.Styles {
	return headtable.Styles{
		{Property: "width", Value: px(m.Width())},
		{Property: "min-width", Value: px(m.MinWidth())},
	}
}

func (m *ColumnMeta) StyleString() string {
	return m.Style().String()
}

// Resize resizes the column by delta pixels
// as if its handle was dragged.
func (m *ColumnMeta) Resize(delta float64) {
	m.tableMeta().ResizeColumn(m.column, delta)
}

func px(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64) + "px"
}

// ResizeEntry reports the size of the table container.
type ResizeEntry struct {
	// Width is the client width without padding and scrollbar.
	Width float64
	// Height is the client height without scrollbar.
	Height float64
	// Gap is the sum of the gaps and the horizontal
	// cell padding within a row.
	Gap float64
}

// TableMeta holds the container size of a table.
type TableMeta struct {
	table           *headtable.Table
	containerWidth  float64
	containerHeight float64
}

func (m *TableMeta) Options() TableOptions {
	return headtable.TableOptions[TableOptions](m.table, Name)
}

func (m *TableMeta) IsResizable() bool {
	if enabled := m.Options().Enabled; enabled != nil {
		return *enabled
	}
	return true
}

func (m *TableMeta) HandlePosition() string {
	if m.Options().HandlePosition == HandleRight {
		return HandleRight
	}
	return HandleLeft
}

func (m *TableMeta) ContainerWidth() float64  { return m.containerWidth }
func (m *TableMeta) ContainerHeight() float64 { return m.containerHeight }

// perceivedColumns returns the columns as seen by the user.
func (m *TableMeta) perceivedColumns() []*headtable.Column {
	return headtable.ColumnsFor(m.table, "")
}

func (m *TableMeta) columnMetas() []*ColumnMeta {
	columns := m.perceivedColumns()
	metas := make([]*ColumnMeta, len(columns))
	for i, column := range columns {
		metas[i] = ColumnMetaOf(column)
	}
	return metas
}

// DefaultColumnWidth returns the container width left by columns
// with an initial width, divided by the number of columns
// without an initial width.
// There is no default width before the container size is known
// or if all columns have an initial width.
func (m *TableMeta) DefaultColumnWidth() (float64, bool) {
	if m.containerWidth <= 0 {
		return 0, false
	}
	var (
		totalInitial float64
		without      int
	)
	for _, meta := range m.columnMetas() {
		if width, ok := meta.InitialWidth(); ok {
			totalInitial += width
		} else {
			without++
		}
	}
	if without == 0 {
		return 0, false
	}
	return (m.containerWidth - totalInitial) / float64(without), true
}

// TotalColumnsWidth returns the sum of the widths of the perceived columns.
func (m *TableMeta) TotalColumnsWidth() float64 {
	var total float64
	for _, meta := range m.columnMetas() {
		total += meta.Width()
	}
	return total
}

// OnTableResize updates the container size and distributes
// the difference between the container width and the
// column widths over the resizable columns.
func (m *TableMeta) OnTableResize(entry ResizeEntry) {
	m.containerWidth = entry.Width
	m.containerHeight = entry.Height
	diff := entry.Width - m.TotalColumnsWidth() - entry.Gap
	m.table.Logger().Debug("Table container resized",
		slog.Float64("width", entry.Width),
		slog.Float64("height", entry.Height),
		slog.Float64("diff", diff),
	)
	m.DistributeDelta(diff)
}

// DistributeDelta spreads delta evenly over the resizable columns.
// Shrinking columns stop at their minimum width and the rest
// of their share is spread over the columns that can still shrink,
// so the widths change by exactly delta if there is enough room.
func (m *TableMeta) DistributeDelta(delta float64) {
	if delta == 0 {
		return
	}
	var resizable []*ColumnMeta
	for _, meta := range m.columnMetas() {
		if meta.IsResizable() {
			resizable = append(resizable, meta)
		}
	}
	remaining := delta
	for math.Abs(remaining) > epsilon {
		var candidates []*ColumnMeta
		for _, meta := range resizable {
			if remaining > 0 || meta.CanShrink() {
				candidates = append(candidates, meta)
			}
		}
		if len(candidates) == 0 {
			return
		}
		share := remaining / float64(len(candidates))
		var applied float64
		for _, meta := range candidates {
			before := meta.Width()
			meta.SetWidth(before + share)
			applied += meta.Width() - before
		}
		if math.Abs(applied) <= epsilon {
			return
		}
		remaining -= applied
	}
}

// ResizeColumn resizes column by delta pixels as if its
// resize handle was dragged by delta.
//
// The column on the dragged side of the handle grows by the width
// the columns on the other side can shrink, nearest columns first.
// The total width of the columns never changes.
func (m *TableMeta) ResizeColumn(column *headtable.Column, delta float64) {
	if delta == 0 {
		return
	}
	draggingRight := delta > 0

	var growing *headtable.Column
	if m.HandlePosition() == HandleRight {
		if draggingRight {
			growing = column
		} else {
			growing = headtable.NextColumn(column, "")
		}
	} else {
		if draggingRight {
			growing = headtable.PreviousColumn(column, "")
		} else {
			growing = column
		}
	}
	if growing == nil {
		return
	}
	growingMeta := ColumnMetaOf(growing)

	var shrinkable []*headtable.Column
	if draggingRight {
		shrinkable = headtable.ColumnsAfter(growing, "")
	} else {
		shrinkable = headtable.ColumnsBefore(growing, "")
		slices.Reverse(shrinkable)
	}

	remainder := math.Abs(delta)
	for _, c := range shrinkable {
		if remainder <= 0 {
			break
		}
		shrinking := ColumnMetaOf(c)
		if !shrinking.CanShrink() {
			continue
		}
		actual := math.Min(remainder, shrinking.RoomToShrink())
		growingMeta.SetWidth(growingMeta.Width() + actual)
		shrinking.SetWidth(shrinking.Width() - actual)
		remainder -= actual
	}
}

// SaveWidths stores the widths set by resizing
// as column preferences.
func (m *TableMeta) SaveWidths() error {
	values := make(map[string]any)
	for _, column := range m.table.Columns() {
		meta := ColumnMetaOf(column)
		if meta.hasWidth {
			values[column.Key()] = meta.Width()
		}
	}
	if len(values) == 0 {
		return nil
	}
	return m.table.Preferences().SetForColumns(Name, preferenceKey, values)
}

// Reset discards all widths set by resizing
// and deletes the width preferences.
func (m *TableMeta) Reset() error {
	for _, column := range m.table.Columns() {
		meta := ColumnMetaOf(column)
		meta.width = 0
		meta.hasWidth = false
	}
	return headtable.PreferencesForAllColumns(m.table, Name).Delete(preferenceKey)
}
