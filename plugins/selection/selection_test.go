package selection

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	headtable "github.com/domonda/go-headtable"
)

type item struct {
	ID   int
	Name string
}

type clickableElement struct {
	headtable.ElementState
	listeners []func(ClickEvent)
}

func (e *clickableElement) AddClickListener(listener func(ClickEvent)) func() {
	e.listeners = append(e.listeners, listener)
	index := len(e.listeners) - 1
	return func() { e.listeners[index] = nil }
}

func (e *clickableElement) click(event ClickEvent) {
	for _, listener := range e.listeners {
		if listener != nil {
			listener(event)
		}
	}
}

type controlled struct {
	selection []any
	key       func(any) any
}

func (c *controlled) options() Options {
	return Options{
		Selection: c.selection,
		Key:       c.key,
		OnSelect: func(item any, _ *headtable.Row) {
			c.selection = append(c.selection, item)
		},
		OnDeselect: func(item any, _ *headtable.Row) {
			c.selection = slices.DeleteFunc(c.selection, func(selected any) bool { return selected == item })
		},
	}
}

func newTable(t *testing.T, state *controlled, data []any) *headtable.Table {
	t.Helper()
	table, err := headtable.New(headtable.Config{
		Columns: func() []*headtable.ColumnConfig { return []*headtable.ColumnConfig{{Key: "Name"}} },
		Data:    func() []any { return data },
		Plugins: []headtable.PluginEntry{With(state.options)},
	})
	require.NoError(t, err)
	return table
}

func TestSelectByData(t *testing.T) {
	a, b := &item{ID: 1, Name: "a"}, &item{ID: 2, Name: "b"}
	state := &controlled{selection: []any{}}
	table := newTable(t, state, []any{a, b})
	rows := table.Rows()

	assert.False(t, IsSelected(rows[0]))
	Toggle(rows[0])
	assert.True(t, IsSelected(rows[0]))
	assert.False(t, IsSelected(rows[1]))
	assert.Equal(t, []any{a}, state.selection)

	Select(rows[1])
	Deselect(rows[0])
	assert.Equal(t, []any{b}, state.selection)
}

func TestSelectByKey(t *testing.T) {
	state := &controlled{
		selection: []any{2},
		key:       func(data any) any { return data.(item).ID },
	}
	table := newTable(t, state, []any{item{ID: 1, Name: "a"}, item{ID: 2, Name: "b"}})
	rows := table.Rows()

	assert.False(t, IsSelected(rows[0]))
	assert.True(t, IsSelected(rows[1]))
	Toggle(rows[1])
	Toggle(rows[0])
	assert.Equal(t, []any{1}, state.selection)
}

func TestHandleClick(t *testing.T) {
	tests := []struct {
		name    string
		event   ClickEvent
		toggled bool
		stopped bool
	}{
		{name: "cell", event: ClickEvent{Path: []string{"span", "td"}}, toggled: true},
		{name: "row", event: ClickEvent{}, toggled: true},
		{name: "button", event: ClickEvent{Path: []string{"svg", "button", "td"}}},
		{name: "upper case link", event: ClickEvent{Path: []string{"A", "td"}}},
		{name: "input", event: ClickEvent{Path: []string{"input"}}},
		{name: "label", event: ClickEvent{Path: []string{"label", "td"}}},
		{name: "select", event: ClickEvent{Path: []string{"select"}}},
		{name: "text selection", event: ClickEvent{Path: []string{"td"}, TextSelected: true}, stopped: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := &controlled{selection: []any{}}
			table := newTable(t, state, []any{"x"})
			row := table.Rows()[0]

			element := new(clickableElement)
			destroy := table.RowModifier(element, row)

			stopped := false
			tt.event.StopPropagation = func() { stopped = true }
			element.click(tt.event)
			assert.Equal(t, tt.toggled, IsSelected(row))
			assert.Equal(t, tt.stopped, stopped)

			destroy()
			element.click(ClickEvent{})
			assert.Equal(t, tt.toggled, IsSelected(row), "no clicks after destroy")
		})
	}
}

func TestSelectFromNilSelection(t *testing.T) {
	state := new(controlled)
	table := newTable(t, state, []any{"a", "b"})
	rows := table.Rows()

	assert.False(t, IsSelected(rows[0]))
	assert.True(t, HandleClick(rows[1], ClickEvent{Path: []string{"td"}}))
	assert.Equal(t, []any{"b"}, state.selection)
	Toggle(rows[0])
	assert.True(t, IsSelected(rows[0]))
	assert.Equal(t, []any{"b", "a"}, state.selection)
}

func TestMissingOptions(t *testing.T) {
	table, err := headtable.New(headtable.Config{
		Data:    func() []any { return []any{"x"} },
		Plugins: []headtable.PluginEntry{Class.Entry()},
	})
	require.NoError(t, err)
	assert.PanicsWithError(t,
		"onSelect and onDeselect are required options for the RowSelection plugin. Specify them via selection.With(func() selection.Options { ... })",
		func() { IsSelected(table.Rows()[0]) },
	)
}

func TestSameItem(t *testing.T) {
	assert.True(t, sameItem(1, 1))
	assert.False(t, sameItem(1, int64(1)))
	assert.True(t, sameItem(nil, nil))
	assert.False(t, sameItem(nil, 1))
	assert.True(t, sameItem([]int{1}, []int{1}))
	assert.False(t, sameItem(&item{ID: 1}, &item{ID: 1}))

	type anyItem struct{ V any }
	assert.True(t, sameItem(anyItem{V: []int{1}}, anyItem{V: []int{1}}))
	assert.False(t, sameItem(anyItem{V: []int{1}}, anyItem{V: []int{2}}))
	assert.False(t, sameItem(anyItem{V: []int{1}}, anyItem{V: 1}))
	assert.True(t, sameItem(anyItem{V: 1}, anyItem{V: 1}))
}
