package headtable

import (
	"fmt"
	"slices"
	"strings"
)

// Feature tags of the capabilities the table core
// knows how to negotiate between plugins.
const (
	FeatureColumnVisibility = "columnVisibility"
	FeatureColumnOrder      = "columnOrder"
	FeatureColumnWidth      = "columnWidth"
)

// Plugin is a unit of table behavior.
// Exactly one instance of a plugin exists per Table
// and its Name must be unique within that table.
//
// A Plugin can implement any of the optional interfaces
// FeatureProvider, Requirer, TableMetaFactory, ColumnMetaFactory,
// RowMetaFactory, ColumnsProvider, Resetter, Destroyer,
// ContainerModifier, HeaderCellModifier and RowModifier.
type Plugin interface {
	Name() string
}

// FeatureProvider is implemented by plugins that provide
// instance level features. Instance features take precedence
// over the features declared on the plugin's Class.
type FeatureProvider interface {
	Features() []string
}

// Requirer is implemented by plugins that depend on
// features provided by other plugins.
type Requirer interface {
	Requires() []string
}

// TableMetaFactory creates the per table state of a plugin.
type TableMetaFactory interface {
	NewTableMeta(table *Table) any
}

// ColumnMetaFactory creates the per column state of a plugin.
type ColumnMetaFactory interface {
	NewColumnMeta(column *Column) any
}

// RowMetaFactory creates the per row state of a plugin.
type RowMetaFactory interface {
	NewRowMeta(row *Row) any
}

// ColumnsProvider is implemented by plugins that
// change which columns are perceived and in which order.
type ColumnsProvider interface {
	Columns() []*Column
}

// Resetter is implemented by plugins whose state
// can be returned to its defaults.
type Resetter interface {
	Reset() error
}

// Destroyer is implemented by plugins that hold
// resources that must be released with the table.
type Destroyer interface {
	Destroy()
}

// ContainerModifier is implemented by plugins that attach
// behavior to the element containing the table.
type ContainerModifier interface {
	ModifyContainer(element Element, table *Table) Destructor
}

// HeaderCellModifier is implemented by plugins that attach
// behavior to the header cell of a column.
type HeaderCellModifier interface {
	ModifyHeaderCell(element Element, column *Column) Destructor
}

// RowModifier is implemented by plugins that attach
// behavior to the element of a row.
type RowModifier interface {
	ModifyRow(element Element, row *Row) Destructor
}

// OptionsFunc returns the options of a plugin.
// It is called every time the options are read
// so it always returns the current values.
type OptionsFunc func() any

func noOptions() any { return nil }

// Class describes how to create a plugin for a table
// together with the features the plugin provides and requires.
type Class struct {
	name     string
	features []string
	requires []string
	newFunc  func(table *Table) Plugin
}

// NewClass returns a plugin class with the passed name.
// newFunc is called exactly once per table using the class.
func NewClass(name string, newFunc func(table *Table) Plugin) *Class {
	if name == "" {
		panic("plugin class name must not be empty")
	}
	if newFunc == nil {
		panic(fmt.Errorf("plugin class %q needs a constructor", name))
	}
	return &Class{name: name, newFunc: newFunc}
}

// WithFeatures adds features provided by plugins of the class.
func (c *Class) WithFeatures(features ...string) *Class {
	c.features = append(c.features, features...)
	return c
}

// WithRequires adds features required by plugins of the class.
func (c *Class) WithRequires(requirements ...string) *Class {
	c.requires = append(c.requires, requirements...)
	return c
}

func (c *Class) Name() string       { return c.name }
func (c *Class) Features() []string { return slices.Clone(c.features) }
func (c *Class) Requires() []string { return slices.Clone(c.requires) }

// Entry returns a plugin list entry for the class without options.
func (c *Class) Entry() PluginEntry {
	return PluginEntry{Class: c, Options: noOptions}
}

// With returns a plugin list entry for the class
// with table level options.
func (c *Class) With(options OptionsFunc) PluginEntry {
	if options == nil {
		options = noOptions
	}
	return PluginEntry{Class: c, Options: options}
}

// ForColumn returns column level options for plugins of the class
// to be added to ColumnConfig.PluginOptions.
func (c *Class) ForColumn(options OptionsFunc) ColumnPluginOption {
	if options == nil {
		options = noOptions
	}
	return ColumnPluginOption{Plugin: c.name, Options: options}
}

// PluginEntry is one element of the plugin list of a table.
// Either Class or Instance must be set.
type PluginEntry struct {
	Class    *Class
	Instance Plugin
	Options  OptionsFunc
}

// Instance returns a plugin list entry for an already created plugin.
func Instance(plugin Plugin) PluginEntry {
	return PluginEntry{Instance: plugin, Options: noOptions}
}

// InstanceWith returns a plugin list entry for an already
// created plugin with table level options.
func InstanceWith(plugin Plugin, options OptionsFunc) PluginEntry {
	if options == nil {
		options = noOptions
	}
	return PluginEntry{Instance: plugin, Options: options}
}

func (e PluginEntry) valid() bool {
	return e.Class != nil || e.Instance != nil
}

func (e PluginEntry) name() string {
	if e.Instance != nil {
		return e.Instance.Name()
	}
	return e.Class.name
}

// features returns the instance level features
// if the instance has any, else the class level features.
func (e PluginEntry) features() []string {
	if p, ok := e.Instance.(FeatureProvider); ok {
		if f := p.Features(); len(f) > 0 {
			return f
		}
	}
	if e.Class != nil {
		return e.Class.features
	}
	return nil
}

func (e PluginEntry) requires() []string {
	if p, ok := e.Instance.(Requirer); ok {
		if r := p.Requires(); len(r) > 0 {
			return r
		}
	}
	if e.Class != nil {
		return e.Class.requires
	}
	return nil
}

// ColumnPluginOption holds the options of one plugin for a column.
type ColumnPluginOption struct {
	Plugin  string
	Options OptionsFunc
}

// normalizePlugins returns the entries with default options filled in
// and one violation for every entry without a class or an instance.
func normalizePlugins(entries []PluginEntry) (normalized []PluginEntry, violations []error) {
	normalized = make([]PluginEntry, 0, len(entries))
	for i, entry := range entries {
		if !entry.valid() {
			violations = append(violations, fmt.Errorf("%w: entry at index %d", ErrInvalidPluginEntry, i))
			continue
		}
		if entry.Options == nil {
			entry.Options = noOptions
		}
		normalized = append(normalized, entry)
	}
	return normalized, violations
}

// verifyPlugins returns a violation for every duplicate plugin,
// every feature provided by more than one plugin
// and every requirement no plugin provides.
func verifyPlugins(entries []PluginEntry) []error {
	var (
		violations       []error
		names            = make(map[string]bool)
		featureOrder     []string
		providers        = make(map[string][]string)
		requirementOrder []string
		requesters       = make(map[string][]string)
	)
	for _, entry := range entries {
		name := entry.name()
		if names[name] {
			violations = append(violations, fmt.Errorf("%w: %s", ErrDuplicatePlugin, name))
		}
		names[name] = true

		for _, feature := range entry.features() {
			if _, ok := providers[feature]; !ok {
				featureOrder = append(featureOrder, feature)
			}
			providers[feature] = append(providers[feature], name)
		}
		for _, requirement := range entry.requires() {
			if _, ok := requesters[requirement]; !ok {
				requirementOrder = append(requirementOrder, requirement)
			}
			requesters[requirement] = append(requesters[requirement], name)
		}
	}

	for _, feature := range featureOrder {
		if names := providers[feature]; len(names) > 1 {
			violations = append(violations, fmt.Errorf(
				"%w: %s. Please remove one of %s",
				ErrDuplicateFeature, feature, strings.Join(names, ", "),
			))
		}
	}
	for _, requirement := range requirementOrder {
		if len(providers[requirement]) == 0 {
			violations = append(violations, fmt.Errorf(
				"%w: %s, and is requested by %s. Please add a plugin with the %s feature",
				ErrMissingRequirement, requirement, strings.Join(requesters[requirement], ", "), requirement,
			))
		}
	}
	return violations
}
