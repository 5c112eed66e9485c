package headtable

import "maps"

// DefaultColumnValue is returned by Column.ValueForRow
// for nil values of columns without a DefaultValue.
var DefaultColumnValue any = "--"

// CellContext is passed to the callbacks of a ColumnConfig.
type CellContext struct {
	Column *Column
	Row    *Row
}

// ColumnConfig is the configuration of a table column.
type ColumnConfig struct {
	// Key identifies the column within the table
	// and by default is used to look up cell values
	// in the data of a row, see LookupValue.
	Key string

	// Name is the display name of the column.
	Name string

	// Value overrides the default cell value lookup.
	Value func(ctx CellContext) any

	// Cell is an opaque reference to the renderer of the cells.
	Cell any

	// DefaultValue replaces nil cell values.
	// DefaultColumnValue is used if DefaultValue is nil.
	DefaultValue any

	// DefaultOptions are the per cell options
	// merged below the result of Options.
	DefaultOptions map[string]any

	// Options returns per cell options passed to the renderer.
	Options func(ctx CellContext) map[string]any

	// PluginOptions holds the column level options of plugins.
	PluginOptions []ColumnPluginOption
}

// Column is the table owned wrapper of a ColumnConfig.
type Column struct {
	table  *Table
	config *ColumnConfig
	meta   metaStore
}

func (c *Column) Table() *Table          { return c.table }
func (c *Column) Config() *ColumnConfig { return c.config }
func (c *Column) Key() string           { return c.config.Key }
func (c *Column) Name() string          { return c.config.Name }
func (c *Column) Cell() any             { return c.config.Cell }

// ValueForRow returns the cell value of the column for row.
// The value is returned by ColumnConfig.Value if set,
// else looked up by the column key in the row data.
// Nil values are replaced by the default value of the column.
func (c *Column) ValueForRow(row *Row) any {
	var value any
	if c.config.Value != nil {
		value = c.config.Value(CellContext{Column: c, Row: row})
	} else {
		value = LookupValue(row.Data(), c.config.Key)
	}
	if ValueIsNil(value) {
		if c.config.DefaultValue != nil {
			return c.config.DefaultValue
		}
		return DefaultColumnValue
	}
	return value
}

// OptionsForRow returns the per cell options of the column for row
// or nil if the column has no options.
func (c *Column) OptionsForRow(row *Row) map[string]any {
	if c.config.Options == nil {
		if len(c.config.DefaultOptions) == 0 {
			return nil
		}
		return maps.Clone(c.config.DefaultOptions)
	}
	options := c.config.Options(CellContext{Column: c, Row: row})
	if len(c.config.DefaultOptions) == 0 {
		return options
	}
	merged := maps.Clone(c.config.DefaultOptions)
	maps.Copy(merged, options)
	return merged
}

func (c *Column) String() string {
	return "Column(" + c.config.Key + ")"
}
