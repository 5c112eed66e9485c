package headtable

import "fmt"

// TableOptions returns the current table level options of the named plugin.
// The zero value of O is returned if the plugin is not configured
// or has no options.
// Options may be provided as O or *O, any other type panics.
func TableOptions[O any](table *Table, plugin string) O {
	entry, ok := table.entryOf(plugin)
	if !ok {
		var zero O
		return zero
	}
	return castOptions[O](entry.Options, plugin, "table")
}

// ColumnOptions returns the current column level options
// of the named plugin for column.
// It behaves like TableOptions.
func ColumnOptions[O any](column *Column, plugin string) O {
	for _, option := range column.config.PluginOptions {
		if option.Plugin == plugin {
			return castOptions[O](option.Options, plugin, "column")
		}
	}
	var zero O
	return zero
}

func castOptions[O any](options OptionsFunc, plugin, owner string) O {
	var zero O
	if options == nil {
		return zero
	}
	switch v := options().(type) {
	case nil:
		return zero
	case O:
		return v
	case *O:
		if v == nil {
			return zero
		}
		return *v
	default:
		panic(fmt.Errorf("%w: %s options of plugin %s are %T, expected %T", ErrOptionsType, owner, plugin, v, zero))
	}
}
