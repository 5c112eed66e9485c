package headtable

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"math"
)

// PreferencesDocument is the serializable form of all
// preferences of a table.
type PreferencesDocument struct {
	Plugins map[string]*PluginPreferences `json:"plugins" yaml:"plugins" toml:"plugins"`
}

// PluginPreferences holds the preferences of one plugin.
type PluginPreferences struct {
	Table   map[string]any            `json:"table" yaml:"table" toml:"table"`
	Columns map[string]map[string]any `json:"columns" yaml:"columns" toml:"columns"`
}

// PreferencesAdapter persists the preferences document of a table.
//
// Restore is called once while the table is constructed
// and must return a nil document without error
// if nothing was persisted for key.
type PreferencesAdapter interface {
	Persist(key string, doc *PreferencesDocument) error
	Restore(key string) (*PreferencesDocument, error)
}

// Preferences holds the user preferences of a table
// namespaced by plugin name and, for column preferences, column key.
// Namespaces are created on first write and removed
// when their last value is deleted.
type Preferences struct {
	key     string
	adapter PreferencesAdapter
	plugins map[string]*pluginBucket
	logger  *slog.Logger
}

type pluginBucket struct {
	table   map[string]any
	columns map[string]map[string]any
}

// NewPreferences returns the preferences persisted under key.
// If adapter is not nil, the preferences are restored
// from it and every change is persisted to it.
func NewPreferences(key string, adapter PreferencesAdapter) (*Preferences, error) {
	return newPreferences(key, adapter, DefaultLogger)
}

func newPreferences(key string, adapter PreferencesAdapter, logger *slog.Logger) (*Preferences, error) {
	p := &Preferences{
		key:     key,
		adapter: adapter,
		plugins: make(map[string]*pluginBucket),
		logger:  logger,
	}
	if adapter != nil {
		if err := p.Restore(adapter); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// SetLogger sets the logger for restore and persist events.
func (p *Preferences) SetLogger(logger *slog.Logger) {
	p.logger = logger
}

func (p *Preferences) Key() string { return p.key }

// peek returns the bucket of plugin without creating it.
func (p *Preferences) peek(plugin string) *pluginBucket {
	return p.plugins[plugin]
}

func (p *Preferences) getOrCreate(plugin string) *pluginBucket {
	bucket := p.plugins[plugin]
	if bucket == nil {
		bucket = &pluginBucket{
			table:   make(map[string]any),
			columns: make(map[string]map[string]any),
		}
		p.plugins[plugin] = bucket
	}
	return bucket
}

func (b *pluginBucket) isEmpty() bool {
	if len(b.table) > 0 {
		return false
	}
	for _, column := range b.columns {
		if len(column) > 0 {
			return false
		}
	}
	return true
}

// Get returns a table level preference of plugin.
func (p *Preferences) Get(plugin, key string) (any, bool) {
	bucket := p.peek(plugin)
	if bucket == nil {
		return nil, false
	}
	value, ok := bucket.table[key]
	return value, ok
}

// GetColumn returns a column level preference of plugin.
func (p *Preferences) GetColumn(plugin, column, key string) (any, bool) {
	bucket := p.peek(plugin)
	if bucket == nil {
		return nil, false
	}
	value, ok := bucket.columns[column][key]
	return value, ok
}

// Set sets a table level preference of plugin and persists the preferences.
func (p *Preferences) Set(plugin, key string, value any) error {
	p.getOrCreate(plugin).table[key] = value
	return p.Persist()
}

// SetColumn sets a column level preference of plugin and persists the preferences.
func (p *Preferences) SetColumn(plugin, column, key string, value any) error {
	p.setColumn(plugin, column, key, value)
	return p.Persist()
}

// SetForColumns sets the column level preference key of plugin
// for every column key in values and persists the preferences once.
func (p *Preferences) SetForColumns(plugin, key string, values map[string]any) error {
	for column, value := range values {
		p.setColumn(plugin, column, key, value)
	}
	return p.Persist()
}

func (p *Preferences) setColumn(plugin, column, key string, value any) {
	bucket := p.getOrCreate(plugin)
	values := bucket.columns[column]
	if values == nil {
		values = make(map[string]any)
		bucket.columns[column] = values
	}
	values[key] = value
}

// Delete deletes a table level preference of plugin and persists the preferences.
func (p *Preferences) Delete(plugin, key string) error {
	p.deleteKey(plugin, key)
	return p.Persist()
}

// DeleteColumn deletes a column level preference of plugin and persists the preferences.
func (p *Preferences) DeleteColumn(plugin, column, key string) error {
	p.deleteColumnKey(plugin, column, key)
	return p.Persist()
}

func (p *Preferences) deleteKey(plugin, key string) {
	bucket := p.peek(plugin)
	if bucket == nil {
		return
	}
	delete(bucket.table, key)
	p.collapse(plugin, bucket)
}

func (p *Preferences) deleteColumnKey(plugin, column, key string) {
	bucket := p.peek(plugin)
	if bucket == nil {
		return
	}
	if values, ok := bucket.columns[column]; ok {
		delete(values, key)
		if len(values) == 0 {
			delete(bucket.columns, column)
		}
	}
	p.collapse(plugin, bucket)
}

func (p *Preferences) collapse(plugin string, bucket *pluginBucket) {
	if bucket.isEmpty() {
		delete(p.plugins, plugin)
	}
}

// IsAtDefault returns true if no plugin has any preference set.
func (p *Preferences) IsAtDefault() bool {
	for _, bucket := range p.plugins {
		if !bucket.isEmpty() {
			return false
		}
	}
	return true
}

// Serialize returns a deep copy of all preferences.
// The Plugins map of the result is never nil.
func (p *Preferences) Serialize() *PreferencesDocument {
	doc := &PreferencesDocument{Plugins: make(map[string]*PluginPreferences, len(p.plugins))}
	for name, bucket := range p.plugins {
		prefs := &PluginPreferences{
			Table:   maps.Clone(bucket.table),
			Columns: make(map[string]map[string]any, len(bucket.columns)),
		}
		for column, values := range bucket.columns {
			prefs.Columns[column] = maps.Clone(values)
		}
		doc.Plugins[name] = prefs
	}
	return doc
}

// Persist passes the serialized preferences to the adapter.
// Without an adapter it does nothing.
func (p *Preferences) Persist() error {
	if p.adapter == nil {
		return nil
	}
	err := p.adapter.Persist(p.key, p.Serialize())
	if err != nil {
		p.logger.Warn("Failed to persist table preferences", slog.String("key", p.key), slog.Any("err", err))
		return fmt.Errorf("persist preferences %q: %w", p.key, err)
	}
	p.logger.Debug("Persisted table preferences", slog.String("key", p.key))
	return nil
}

// Restore replaces the preferences of every plugin
// contained in the document restored from adapter.
// Preferences of plugins not in the document are kept.
func (p *Preferences) Restore(adapter PreferencesAdapter) error {
	doc, err := adapter.Restore(p.key)
	if err != nil {
		return fmt.Errorf("restore preferences %q: %w", p.key, err)
	}
	p.RestoreDocument(doc)
	p.logger.Debug("Restored table preferences", slog.String("key", p.key), slog.Bool("found", doc != nil))
	return nil
}

// RestoreDocument replaces the preferences of every plugin
// contained in doc. A nil doc changes nothing.
func (p *Preferences) RestoreDocument(doc *PreferencesDocument) {
	if doc == nil {
		return
	}
	for name, prefs := range doc.Plugins {
		bucket := &pluginBucket{
			table:   make(map[string]any),
			columns: make(map[string]map[string]any),
		}
		if prefs != nil {
			maps.Copy(bucket.table, prefs.Table)
			for column, values := range prefs.Columns {
				bucket.columns[column] = maps.Clone(values)
				if bucket.columns[column] == nil {
					bucket.columns[column] = make(map[string]any)
				}
			}
		}
		p.plugins[name] = bucket
	}
}

// PreferenceScope reads and writes the preferences of one plugin
// either at table level or for one column.
type PreferenceScope struct {
	prefs     *Preferences
	plugin    string
	column    string
	forColumn bool
}

// PreferencesForTable returns the table level preferences of plugin.
func PreferencesForTable(table *Table, plugin string) PreferenceScope {
	return PreferenceScope{prefs: table.preferences, plugin: plugin}
}

// PreferencesForColumn returns the preferences of plugin for column.
func PreferencesForColumn(column *Column, plugin string) PreferenceScope {
	return PreferenceScope{prefs: column.table.preferences, plugin: plugin, column: column.Key(), forColumn: true}
}

func (s PreferenceScope) Get(key string) (any, bool) {
	if s.forColumn {
		return s.prefs.GetColumn(s.plugin, s.column, key)
	}
	return s.prefs.Get(s.plugin, key)
}

func (s PreferenceScope) Set(key string, value any) error {
	if s.forColumn {
		return s.prefs.SetColumn(s.plugin, s.column, key, value)
	}
	return s.prefs.Set(s.plugin, key, value)
}

func (s PreferenceScope) Delete(key string) error {
	if s.forColumn {
		return s.prefs.DeleteColumn(s.plugin, s.column, key)
	}
	return s.prefs.Delete(s.plugin, key)
}

// Bool returns a boolean preference.
func (s PreferenceScope) Bool(key string) (value, ok bool) {
	v, found := s.Get(key)
	if !found {
		return false, false
	}
	value, ok = v.(bool)
	return value, ok
}

// Float returns a numeric preference as float64.
// Numbers restored from JSON, YAML or TOML documents
// may be of any integer or float type.
func (s PreferenceScope) Float(key string) (float64, bool) {
	v, found := s.Get(key)
	if !found {
		return 0, false
	}
	return toFloat(v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// AllColumnsPreferenceScope deletes preferences of a plugin
// across all columns of a table.
type AllColumnsPreferenceScope struct {
	table  *Table
	plugin string
}

// PreferencesForAllColumns returns the column preferences
// of plugin for all columns of table.
func PreferencesForAllColumns(table *Table, plugin string) AllColumnsPreferenceScope {
	return AllColumnsPreferenceScope{table: table, plugin: plugin}
}

// Delete deletes key from the preferences of all raw columns
// and persists the preferences once.
func (s AllColumnsPreferenceScope) Delete(key string) error {
	prefs := s.table.preferences
	for _, column := range s.table.Columns() {
		prefs.deleteColumnKey(s.plugin, column.Key(), key)
	}
	return prefs.Persist()
}
