package sorting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	headtable "github.com/domonda/go-headtable"
)

// controlled keeps the sorts like a caller applying every request.
type controlled struct {
	sorts    []SortItem
	requests [][]SortItem
}

func (c *controlled) options() Options {
	return Options{
		Sorts: c.sorts,
		OnSort: func(sorts []SortItem) {
			c.requests = append(c.requests, sorts)
			c.sorts = sorts
		},
	}
}

func newTable(t *testing.T, entry headtable.PluginEntry) *headtable.Table {
	t.Helper()
	fixed := false
	configs := []*headtable.ColumnConfig{
		{Key: "name"},
		{Key: "createdAt", PluginOptions: []headtable.ColumnPluginOption{ForColumn(ColumnOptions{SortProperty: "created_at"})}},
		{Key: "notes", PluginOptions: []headtable.ColumnPluginOption{ForColumn(ColumnOptions{IsSortable: &fixed})}},
	}
	table, err := headtable.New(headtable.Config{
		Columns: func() []*headtable.ColumnConfig { return configs },
		Plugins: []headtable.PluginEntry{entry},
	})
	require.NoError(t, err)
	return table
}

func TestHandleSort(t *testing.T) {
	state := &controlled{sorts: []SortItem{}}
	table := newTable(t, With(state.options))
	name := table.ColumnByKey("name")

	require.True(t, IsSortable(name))
	require.True(t, IsUnsorted(name))

	expected := []SortDirection{Descending, Ascending, None, Descending}
	for i, direction := range expected {
		Sort(name)
		assert.Equal(t, direction, Direction(name), "step %d", i)
	}
	assert.Equal(t, [][]SortItem{
		{{Property: "name", Direction: Descending}},
		{{Property: "name", Direction: Ascending}},
		{},
		{{Property: "name", Direction: Descending}},
	}, state.requests)
}

func TestToggle(t *testing.T) {
	state := &controlled{sorts: []SortItem{}}
	table := newTable(t, With(state.options))
	createdAt := table.ColumnByKey("createdAt")

	SortAscending(createdAt)
	assert.True(t, IsAscending(createdAt))
	assert.Equal(t, []SortItem{{Property: "created_at", Direction: Ascending}}, state.sorts, "sort property replaces the key")

	SortAscending(createdAt)
	assert.True(t, IsUnsorted(createdAt))

	SortDescending(createdAt)
	assert.True(t, IsDescending(createdAt))
	SortAscending(createdAt)
	assert.True(t, IsAscending(createdAt))
	SortDescending(createdAt)
	SortDescending(createdAt)
	assert.True(t, IsUnsorted(createdAt))
}

func TestIsSortable(t *testing.T) {
	tests := []struct {
		name     string
		entry    headtable.PluginEntry
		sortable bool
	}{
		{name: "no options", entry: Class.Entry(), sortable: false},
		{name: "no sorts", entry: With(func() Options { return Options{OnSort: func([]SortItem) {}} }), sortable: true},
		{name: "no handler", entry: With(func() Options { return Options{Sorts: []SortItem{}} }), sortable: false},
		{name: "controlled", entry: With((&controlled{sorts: []SortItem{}}).options), sortable: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := newTable(t, tt.entry)
			assert.Equal(t, tt.sortable, IsSortable(table.ColumnByKey("name")))
			assert.False(t, IsSortable(table.ColumnByKey("notes")), "column option wins")
			assert.NotPanics(t, func() { Sort(table.ColumnByKey("name")) })
		})
	}
}

func TestNilSorts(t *testing.T) {
	state := new(controlled)
	table := newTable(t, With(state.options))
	name := table.ColumnByKey("name")

	require.True(t, IsSortable(name))
	require.True(t, IsUnsorted(name))

	var element headtable.ElementState
	table.ColumnHeaderModifier(&element, name)
	sortable, _ := element.Attribute("data-test-is-sortable")
	assert.Equal(t, "true", sortable)

	Sort(name)
	assert.True(t, IsDescending(name))
	assert.Equal(t, [][]SortItem{{{Property: "name", Direction: Descending}}}, state.requests)
}

func TestModifyHeaderCell(t *testing.T) {
	state := &controlled{sorts: []SortItem{{Property: "name", Direction: Ascending}}}
	table := newTable(t, With(state.options))

	var element headtable.ElementState
	table.ColumnHeaderModifier(&element, table.ColumnByKey("name"))
	sort, _ := element.Attribute("aria-sort")
	sortable, _ := element.Attribute("data-test-is-sortable")
	assert.Equal(t, "ascending", sort)
	assert.Equal(t, "true", sortable)

	table.ColumnHeaderModifier(&element, table.ColumnByKey("notes"))
	sort, _ = element.Attribute("aria-sort")
	sortable, _ = element.Attribute("data-test-is-sortable")
	assert.Equal(t, "none", sort)
	assert.Equal(t, "false", sortable)
}
