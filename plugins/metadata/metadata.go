// Package metadata implements a table plugin that carries
// arbitrary data of the caller for the table and its columns.
package metadata

import headtable "github.com/domonda/go-headtable"

// Name of the plugin within a table.
const Name = "metadata"

// Class of the plugin.
var Class = headtable.NewClass(Name, func(*headtable.Table) headtable.Plugin {
	return new(Plugin)
})

// Data is the arbitrary data of a table or column.
type Data = map[string]any

type Plugin struct{}

func (*Plugin) Name() string { return Name }

// With returns a plugin list entry with table data.
func With(data func() Data) headtable.PluginEntry {
	return Class.With(func() any { return data() })
}

// ForColumnConfig returns the column plugin options with column data.
func ForColumnConfig(data Data) headtable.ColumnPluginOption {
	return Class.ForColumn(func() any { return data })
}

// ForTable returns the value of the table data for key.
func ForTable(table *headtable.Table, key string) any {
	return headtable.TableOptions[Data](table, Name)[key]
}

// ForColumn returns the value of the column data for key.
func ForColumn(column *headtable.Column, key string) any {
	return headtable.ColumnOptions[Data](column, Name)[key]
}
