package headtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testOptions struct {
	Label string
}

func TestTableOptions(t *testing.T) {
	label := "first"
	class := basicClass("opts")
	byPointer := basicClass("by-pointer")
	table := MustNew(Config{
		Columns: staticColumns([]*ColumnConfig{
			{Key: "a", PluginOptions: []ColumnPluginOption{class.ForColumn(func() any { return testOptions{Label: "column " + label} })}},
			{Key: "b"},
		}),
		Plugins: []PluginEntry{
			class.With(func() any { return testOptions{Label: label} }),
			byPointer.With(func() any { return &testOptions{Label: "pointer"} }),
			basicClass("wrong").With(func() any { return 1 }),
			basicClass("none").Entry(),
		},
	})

	require.Equal(t, testOptions{Label: "first"}, TableOptions[testOptions](table, "opts"))
	label = "second"
	require.Equal(t, testOptions{Label: "second"}, TableOptions[testOptions](table, "opts"), "options are read on every call")
	require.Equal(t, testOptions{Label: "pointer"}, TableOptions[testOptions](table, "by-pointer"))
	require.Equal(t, testOptions{}, TableOptions[testOptions](table, "none"))
	require.Equal(t, testOptions{}, TableOptions[testOptions](table, "not-configured"))
	requirePanicsIs(t, ErrOptionsType, func() { TableOptions[testOptions](table, "wrong") })

	columns := table.Columns()
	require.Equal(t, testOptions{Label: "column second"}, ColumnOptions[testOptions](columns[0], "opts"))
	require.Equal(t, testOptions{}, ColumnOptions[testOptions](columns[1], "opts"))
	require.Equal(t, testOptions{}, ColumnOptions[testOptions](columns[0], "by-pointer"))
}
