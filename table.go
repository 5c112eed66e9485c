package headtable

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"

	"github.com/google/uuid"
)

// Config is the configuration of a Table.
type Config struct {
	// Columns returns the current column configurations.
	// It is called whenever the columns are read,
	// Column instances are reused per *ColumnConfig.
	Columns func() []*ColumnConfig

	// Data returns the current data items, one per Row.
	// Row instances are reused per data item identity.
	Data func() []any

	// Plugins is the ordered plugin list of the table.
	Plugins []PluginEntry

	// Preferences configures the storage of user preferences.
	// If nil, preferences are kept in memory with a random key.
	Preferences *PreferencesConfig

	// Logger defaults to DefaultLogger if nil.
	Logger *slog.Logger
}

// PreferencesConfig configures where the
// preferences of a table are persisted.
type PreferencesConfig struct {
	// Key identifies the table at the adapter.
	// A random key is used if empty.
	Key string

	// Adapter persists and restores the preferences.
	// Preferences are only kept in memory if nil.
	Adapter PreferencesAdapter
}

// Table is the headless model of a data table.
// It owns the plugin instances, the column and row wrappers,
// the meta state of every plugin and the user preferences.
//
// A Table is not safe for concurrent use.
type Table struct {
	columnsFunc func() []*ColumnConfig
	dataFunc    func() []any
	logger      *slog.Logger
	preferences *Preferences

	entries     []PluginEntry
	pluginIndex map[string]int
	generation  uint64
	tableMeta   map[string]any
	pendingMeta map[metaKey]bool

	columnCache map[*ColumnConfig]*Column
	rowCache    map[rowKey]*Row

	scrollContainer Element
	containerGen    uint64
	destroyed       bool
}

// New returns a Table for the passed configuration.
// An error is returned if the preferences could not be restored,
// the plugin list is invalid, or column keys are not unique.
func New(config Config) (*Table, error) {
	logger := config.Logger
	if logger == nil {
		logger = DefaultLogger
	}
	t := &Table{
		columnsFunc: config.Columns,
		dataFunc:    config.Data,
		logger:      logger,
		tableMeta:   make(map[string]any),
		pendingMeta: make(map[metaKey]bool),
		columnCache: make(map[*ColumnConfig]*Column),
		rowCache:    make(map[rowKey]*Row),
	}

	var (
		key     string
		adapter PreferencesAdapter
	)
	if config.Preferences != nil {
		key = config.Preferences.Key
		adapter = config.Preferences.Adapter
	}
	if key == "" {
		key = uuid.NewString()
	}
	preferences, err := newPreferences(key, adapter, logger)
	if err != nil {
		return nil, err
	}
	t.preferences = preferences

	err = t.SetPlugins(config.Plugins...)
	if err != nil {
		return nil, err
	}
	_, err = t.resolveColumns()
	if err != nil {
		return nil, err
	}
	return t, nil
}

// MustNew is like New but panics on error.
func MustNew(config Config) *Table {
	t, err := New(config)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) Logger() *slog.Logger {
	return t.logger
}

func (t *Table) Preferences() *Preferences {
	return t.preferences
}

// SetPlugins validates the passed plugin list and, if valid,
// replaces the plugins of the table with new instances.
// All table, column and row meta is discarded
// because it belongs to the replaced plugin instances.
// The table is unchanged if an error is returned.
func (t *Table) SetPlugins(entries ...PluginEntry) error {
	normalized, violations := normalizePlugins(entries)
	violations = append(violations, verifyPlugins(normalized)...)
	if err := configErrorOrNil(violations); err != nil {
		t.logger.Error("Invalid table plugin configuration", slog.Any("err", err))
		return err
	}

	reused := make(map[Plugin]bool)
	for _, entry := range normalized {
		if entry.Instance != nil {
			reused[entry.Instance] = true
		}
	}
	t.destroyPlugins(func(p Plugin) bool { return !reused[p] })

	t.entries = normalized
	t.pluginIndex = make(map[string]int, len(normalized))
	t.generation++
	clear(t.tableMeta)
	clear(t.pendingMeta)

	names := make([]string, len(normalized))
	for i := range t.entries {
		entry := &t.entries[i]
		if entry.Instance == nil {
			plugin := entry.Class.newFunc(t)
			if plugin == nil || plugin.Name() != entry.Class.name {
				panic(fmt.Errorf("plugin class %q constructed an invalid plugin: %#v", entry.Class.name, plugin))
			}
			entry.Instance = plugin
		}
		names[i] = entry.name()
		t.pluginIndex[names[i]] = i
	}
	t.logger.Debug("Table plugins resolved", slog.Any("plugins", names))
	return nil
}

// Plugins returns the plugin instances in configuration order.
func (t *Table) Plugins() []Plugin {
	plugins := make([]Plugin, len(t.entries))
	for i, entry := range t.entries {
		plugins[i] = entry.Instance
	}
	return plugins
}

// PluginOf returns the plugin with the passed name.
func (t *Table) PluginOf(name string) (Plugin, bool) {
	i, ok := t.pluginIndex[name]
	if !ok {
		return nil, false
	}
	return t.entries[i].Instance, true
}

// HasPlugin returns if a plugin with the passed name is used by the table.
func (t *Table) HasPlugin(name string) bool {
	_, ok := t.pluginIndex[name]
	return ok
}

// HasPlugin returns if table uses the plugin with the passed name.
func HasPlugin(table *Table, name string) bool {
	return table.HasPlugin(name)
}

func (t *Table) mustPlugin(name string) Plugin {
	p, ok := t.PluginOf(name)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrPluginNotRegistered, name))
	}
	return p
}

func (t *Table) entryOf(name string) (PluginEntry, bool) {
	i, ok := t.pluginIndex[name]
	if !ok {
		return PluginEntry{}, false
	}
	return t.entries[i], true
}

// PluginWithFeature returns the plugin providing the passed feature.
func (t *Table) PluginWithFeature(feature string) (Plugin, bool) {
	for _, entry := range t.entries {
		if slices.Contains(entry.features(), feature) {
			return entry.Instance, true
		}
	}
	return nil, false
}

// Features returns the features of all plugins in configuration order.
func (t *Table) Features() []string {
	var features []string
	for _, entry := range t.entries {
		features = append(features, entry.features()...)
	}
	return features
}

// SetColumns replaces the function returning the column configurations.
// Columns of configurations that are still returned keep their identity.
func (t *Table) SetColumns(columns func() []*ColumnConfig) error {
	prev := t.columnsFunc
	t.columnsFunc = columns
	if _, err := t.resolveColumns(); err != nil {
		t.columnsFunc = prev
		return err
	}
	return nil
}

// SetData replaces the function returning the data items.
func (t *Table) SetData(data func() []any) {
	t.dataFunc = data
}

// Columns returns the raw columns in configuration order,
// unaffected by any plugin.
// Use ColumnsFor to get the columns as perceived by the user.
func (t *Table) Columns() []*Column {
	columns, err := t.resolveColumns()
	if err != nil {
		panic(err)
	}
	return columns
}

// ColumnByKey returns the raw column with the passed key or nil.
func (t *Table) ColumnByKey(key string) *Column {
	for _, column := range t.Columns() {
		if column.Key() == key {
			return column
		}
	}
	return nil
}

func (t *Table) resolveColumns() ([]*Column, error) {
	var configs []*ColumnConfig
	if t.columnsFunc != nil {
		configs = t.columnsFunc()
	}
	var (
		columns    = make([]*Column, 0, len(configs))
		cache      = make(map[*ColumnConfig]*Column, len(configs))
		keys       = make(map[string]bool, len(configs))
		violations []error
	)
	for _, config := range configs {
		if config == nil {
			continue
		}
		if keys[config.Key] {
			violations = append(violations, fmt.Errorf("%w: %q", ErrDuplicateColumnKey, config.Key))
			continue
		}
		keys[config.Key] = true
		column := t.columnCache[config]
		if column == nil {
			column = &Column{table: t, config: config}
		}
		cache[config] = column
		columns = append(columns, column)
	}
	if err := configErrorOrNil(violations); err != nil {
		return nil, err
	}
	t.columnCache = cache
	return columns, nil
}

// Rows returns one Row per current data item.
// A data item keeps its Row as long as it is returned by the data function.
func (t *Table) Rows() []*Row {
	var data []any
	if t.dataFunc != nil {
		data = t.dataFunc()
	}
	var (
		rows  = make([]*Row, len(data))
		cache = make(map[rowKey]*Row, len(data))
	)
	for i, datum := range data {
		key := rowKey{id: identityOf(datum, i)}
		for cache[key] != nil {
			key.n++
		}
		row := t.rowCache[key]
		if row == nil {
			row = &Row{table: t}
		}
		row.data = datum
		cache[key] = row
		rows[i] = row
	}
	t.rowCache = cache
	return rows
}

type rowKey struct {
	id any
	n  int
}

type refIdentity struct {
	typ reflect.Type
	ptr uintptr
	len int
}

type indexIdentity int

// identityOf returns a comparable identity for a data item.
// Reference types are identified by their address,
// other comparable values by themselves,
// everything else by its index in the data.
func identityOf(datum any, index int) any {
	v := reflect.ValueOf(datum)
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.UnsafePointer:
		return refIdentity{typ: v.Type(), ptr: v.Pointer()}
	case reflect.Slice:
		return refIdentity{typ: v.Type(), ptr: v.Pointer(), len: v.Len()}
	case reflect.Func:
		return indexIdentity(index)
	}
	if v.Comparable() {
		return datum
	}
	return indexIdentity(index)
}

// ScrollContainer returns the element the table is rendered in
// as registered by ContainerModifier.
func (t *Table) ScrollContainer() (Element, bool) {
	return t.scrollContainer, t.scrollContainer != nil
}

// ContainerModifier registers element as the container of the table
// and attaches the container behavior of all plugins to it.
func (t *Table) ContainerModifier(element Element) Destructor {
	t.containerGen++
	gen := t.containerGen
	t.scrollContainer = element

	destructors := []Destructor{func() {
		if t.containerGen == gen {
			t.scrollContainer = nil
		}
	}}
	for _, entry := range t.entries {
		if m, ok := entry.Instance.(ContainerModifier); ok {
			destructors = append(destructors, m.ModifyContainer(element, t))
		}
	}
	return composeDestructors(destructors)
}

// ColumnHeaderModifier attaches the header cell behavior
// of all plugins to the header cell element of column.
func (t *Table) ColumnHeaderModifier(element Element, column *Column) Destructor {
	var destructors []Destructor
	for _, entry := range t.entries {
		if m, ok := entry.Instance.(HeaderCellModifier); ok {
			destructors = append(destructors, m.ModifyHeaderCell(element, column))
		}
	}
	return composeDestructors(destructors)
}

// RowModifier attaches the row behavior of all plugins
// to the element of row.
func (t *Table) RowModifier(element Element, row *Row) Destructor {
	var destructors []Destructor
	for _, entry := range t.entries {
		if m, ok := entry.Instance.(RowModifier); ok {
			destructors = append(destructors, m.ModifyRow(element, row))
		}
	}
	return composeDestructors(destructors)
}

// ResetToDefaults resets every plugin implementing Resetter.
func (t *Table) ResetToDefaults() error {
	var errs []error
	for _, entry := range t.entries {
		if r, ok := entry.Instance.(Resetter); ok {
			if err := r.Reset(); err != nil {
				errs = append(errs, fmt.Errorf("reset plugin %s: %w", entry.name(), err))
			}
		}
	}
	return errors.Join(errs...)
}

// IsAtDefaults returns true if no preference deviates from its default.
func (t *Table) IsAtDefaults() bool {
	return t.preferences.IsAtDefault()
}

// Destroy releases the resources of all plugins.
// The table must not be used afterwards.
func (t *Table) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyPlugins(func(Plugin) bool { return true })
	t.destroyed = true
	t.logger.Debug("Table destroyed", slog.String("preferencesKey", t.preferences.Key()))
}

func (t *Table) destroyPlugins(filter func(Plugin) bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		p := t.entries[i].Instance
		if d, ok := p.(Destroyer); ok && filter(p) {
			d.Destroy()
		}
	}
}
