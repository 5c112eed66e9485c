package headtable

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// providerPlugin provides the columns it requests for itself
// with the keys in hidden removed and the result reversed if reverse is set.
type providerPlugin struct {
	name    string
	table   *Table
	hidden  []string
	reverse bool
}

func (p *providerPlugin) Name() string { return p.name }

func (p *providerPlugin) Columns() []*Column {
	var columns []*Column
	for _, column := range ColumnsFor(p.table, p.name) {
		if !slices.Contains(p.hidden, column.Key()) {
			columns = append(columns, column)
		}
	}
	if p.reverse {
		slices.Reverse(columns)
	}
	return columns
}

func providerClass(name string, hidden []string, reverse bool, feature string) *Class {
	return NewClass(name, func(table *Table) Plugin {
		return &providerPlugin{name: name, table: table, hidden: hidden, reverse: reverse}
	}).WithFeatures(feature)
}

func columnKeys(columns []*Column) []string {
	keys := make([]string, len(columns))
	for i, column := range columns {
		keys[i] = column.Key()
	}
	return keys
}

func TestColumnsFor(t *testing.T) {
	visibility := providerClass("visibility", []string{"b"}, false, FeatureColumnVisibility)
	reordering := providerClass("reordering", nil, true, FeatureColumnOrder)
	sizing := providerClass("sizing", []string{"d"}, false, FeatureColumnWidth)
	other := basicClass("other")

	tests := []struct {
		name      string
		plugins   []PluginEntry
		requester string
		want      []string
	}{
		{name: "no plugins", want: []string{"a", "b", "c", "d"}},
		{name: "only unrelated plugin", plugins: []PluginEntry{other.Entry()}, requester: "other", want: []string{"a", "b", "c", "d"}},
		{name: "visibility", plugins: []PluginEntry{visibility.Entry()}, want: []string{"a", "c", "d"}},
		{name: "visibility requests raw", plugins: []PluginEntry{visibility.Entry()}, requester: "visibility", want: []string{"a", "b", "c", "d"}},
		{name: "sizing only", plugins: []PluginEntry{sizing.Entry()}, want: []string{"a", "b", "c"}},
		{name: "sizing requests raw", plugins: []PluginEntry{sizing.Entry(), visibility.Entry()}, requester: "sizing", want: []string{"a", "b", "c", "d"}},
		{name: "visibility over sizing", plugins: []PluginEntry{sizing.Entry(), visibility.Entry()}, want: []string{"a", "c", "d"}},
		{name: "reordering over visibility", plugins: []PluginEntry{visibility.Entry(), reordering.Entry()}, want: []string{"d", "c", "a"}},
		{name: "reordering sees visibility", plugins: []PluginEntry{visibility.Entry(), reordering.Entry()}, requester: "reordering", want: []string{"a", "c", "d"}},
		{name: "reordering without visibility", plugins: []PluginEntry{reordering.Entry()}, requester: "reordering", want: []string{"a", "b", "c", "d"}},
		{
			name:      "unrelated requester gets user columns",
			plugins:   []PluginEntry{visibility.Entry(), reordering.Entry(), sizing.Entry(), other.Entry()},
			requester: "other",
			want:      []string{"d", "c", "a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := MustNew(Config{
				Columns: staticColumns(columnConfigs("a", "b", "c", "d")),
				Plugins: tt.plugins,
			})
			require.Equal(t, tt.want, columnKeys(ColumnsFor(table, tt.requester)))
		})
	}
}

func TestColumnsFor_UnknownRequester(t *testing.T) {
	table := MustNew(Config{Columns: staticColumns(columnConfigs("a"))})
	defer func() {
		r := recover()
		require.NotNil(t, r)
		require.ErrorIs(t, r.(error), ErrPluginNotRegistered)
		require.Contains(t, r.(error).Error(), "[ghost] requested columns from the table, but the plugin, ghost, is not used in this table")
	}()
	ColumnsFor(table, "ghost")
}

func TestColumnNeighbors(t *testing.T) {
	visibility := providerClass("visibility", []string{"b"}, false, FeatureColumnVisibility)
	table := MustNew(Config{
		Columns: staticColumns(columnConfigs("a", "b", "c", "d")),
		Plugins: []PluginEntry{visibility.Entry()},
	})
	a := table.ColumnByKey("a")
	b := table.ColumnByKey("b")
	c := table.ColumnByKey("c")
	d := table.ColumnByKey("d")

	require.Same(t, c, NextColumn(a, ""))
	require.Nil(t, NextColumn(d, ""))
	require.Same(t, a, PreviousColumn(c, ""))
	require.Nil(t, PreviousColumn(a, ""))
	require.Equal(t, []string{"a", "c"}, columnKeys(ColumnsBefore(d, "")))
	require.Equal(t, []string{"d"}, columnKeys(ColumnsAfter(c, "")))
	require.Empty(t, ColumnsAfter(d, ""))
	require.Empty(t, ColumnsBefore(a, ""))

	// b is hidden for the user but not for the visibility plugin
	require.Same(t, c, NextColumn(b, "visibility"))
	requirePanicsIs(t, ErrColumnNotInTable, func() { NextColumn(b, "") })
	requirePanicsIs(t, ErrColumnNotInTable, func() { PreviousColumn(b, "") })
	requirePanicsIs(t, ErrColumnNotInTable, func() { ColumnsBefore(b, "") })
	requirePanicsIs(t, ErrColumnNotInTable, func() { ColumnsAfter(b, "") })
}
