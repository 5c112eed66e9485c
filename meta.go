package headtable

import (
	"fmt"
	"strings"
)

// TableMeta returns the table meta of the named plugin,
// creating it on first access.
// Repeated calls return the same value until the plugins
// of the table are replaced by Table.SetPlugins.
//
// TableMeta panics if the plugin is not used by the table,
// does not create table meta, or if the meta is not of type M.
func TableMeta[M any](table *Table, plugin string) M {
	return castMeta[M](table.tableMetaOf(plugin), plugin, "table")
}

// ColumnMeta returns the column meta of the named plugin
// for column, creating it on first access.
// It panics under the same conditions as TableMeta.
func ColumnMeta[M any](column *Column, plugin string) M {
	return castMeta[M](column.table.columnMetaOf(column, plugin), plugin, "column")
}

// RowMeta returns the row meta of the named plugin
// for row, creating it on first access.
// It panics under the same conditions as TableMeta.
func RowMeta[M any](row *Row, plugin string) M {
	return castMeta[M](row.table.rowMetaOf(row, plugin), plugin, "row")
}

// TableMetaWithFeature returns the table meta of the plugin
// providing feature. It panics if no plugin provides the feature.
func TableMetaWithFeature[M any](table *Table, feature string) M {
	return TableMeta[M](table, table.mustPluginWithFeature(feature).Name())
}

// ColumnMetaWithFeature returns the column meta of the plugin
// providing feature. It panics if no plugin provides the feature.
func ColumnMetaWithFeature[M any](column *Column, feature string) M {
	return ColumnMeta[M](column, column.table.mustPluginWithFeature(feature).Name())
}

// RowMetaWithFeature returns the row meta of the plugin
// providing feature. It panics if no plugin provides the feature.
func RowMetaWithFeature[M any](row *Row, feature string) M {
	return RowMeta[M](row, row.table.mustPluginWithFeature(feature).Name())
}

func castMeta[M any](meta any, plugin, owner string) M {
	typed, ok := meta.(M)
	if !ok {
		var zero M
		panic(fmt.Errorf("%w: %s meta of plugin %s is %T, expected %T", ErrMetaType, owner, plugin, meta, zero))
	}
	return typed
}

type metaKey struct {
	owner  any
	plugin string
}

// metaStore holds the meta of one column or row.
// Values of older plugin generations are discarded on access.
type metaStore struct {
	generation uint64
	values     map[string]any
}

func (s *metaStore) get(generation uint64, plugin string) (any, bool) {
	if s.generation != generation {
		s.generation = generation
		s.values = nil
	}
	meta, ok := s.values[plugin]
	return meta, ok
}

func (s *metaStore) set(plugin string, meta any) {
	if s.values == nil {
		s.values = make(map[string]any)
	}
	s.values[plugin] = meta
}

func (t *Table) tableMetaOf(name string) any {
	if meta, ok := t.tableMeta[name]; ok {
		return meta
	}
	p := t.mustPlugin(name)
	factory, ok := p.(TableMetaFactory)
	if !ok {
		panic(missingMetaError(p, ErrNoTableMeta))
	}
	meta := t.createMeta(metaKey{t, name}, func() any { return factory.NewTableMeta(t) })
	t.tableMeta[name] = meta
	return meta
}

func (t *Table) columnMetaOf(column *Column, name string) any {
	if meta, ok := column.meta.get(t.generation, name); ok {
		return meta
	}
	p := t.mustPlugin(name)
	factory, ok := p.(ColumnMetaFactory)
	if !ok {
		panic(missingMetaError(p, ErrNoColumnMeta))
	}
	meta := t.createMeta(metaKey{column, name}, func() any { return factory.NewColumnMeta(column) })
	column.meta.set(name, meta)
	return meta
}

func (t *Table) rowMetaOf(row *Row, name string) any {
	if meta, ok := row.meta.get(t.generation, name); ok {
		return meta
	}
	p := t.mustPlugin(name)
	factory, ok := p.(RowMetaFactory)
	if !ok {
		panic(missingMetaError(p, ErrNoRowMeta))
	}
	meta := t.createMeta(metaKey{row, name}, func() any { return factory.NewRowMeta(row) })
	row.meta.set(name, meta)
	return meta
}

// createMeta panics if the creation of a meta value
// requests the very same meta value.
func (t *Table) createMeta(key metaKey, create func() any) any {
	if t.pendingMeta[key] {
		panic(fmt.Errorf("%w: %s", ErrMetaCycle, key.plugin))
	}
	t.pendingMeta[key] = true
	defer delete(t.pendingMeta, key)
	return create()
}

func missingMetaError(p Plugin, specific error) error {
	_, hasTable := p.(TableMetaFactory)
	_, hasColumn := p.(ColumnMetaFactory)
	_, hasRow := p.(RowMetaFactory)
	if !hasTable && !hasColumn && !hasRow {
		return fmt.Errorf("%w: %s", ErrNoMeta, p.Name())
	}
	return fmt.Errorf("%w: %s", specific, p.Name())
}

func (t *Table) mustPluginWithFeature(feature string) Plugin {
	p, ok := t.PluginWithFeature(feature)
	if !ok {
		available := "[none]"
		if features := t.Features(); len(features) > 0 {
			available = strings.Join(features, ", ")
		}
		panic(fmt.Errorf("%w: %s. Available features: %s", ErrFeatureNotFound, feature, available))
	}
	return p
}
