package headtable

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreferences_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		doc  *PreferencesDocument
	}{
		{
			name: "empty",
			doc:  &PreferencesDocument{Plugins: map[string]*PluginPreferences{}},
		},
		{
			name: "table and columns",
			doc: &PreferencesDocument{Plugins: map[string]*PluginPreferences{
				"column-visibility": {
					Table:   map[string]any{},
					Columns: map[string]map[string]any{"a": {"isVisible": false}},
				},
				"column-resizing": {
					Table:   map[string]any{"enabled": true},
					Columns: map[string]map[string]any{"a": {"width": 200.0}, "b": {"width": 150.0}},
				},
			}},
		},
		{
			name: "empty namespace",
			doc: &PreferencesDocument{Plugins: map[string]*PluginPreferences{
				"data-sorting": {Table: map[string]any{}, Columns: map[string]map[string]any{}},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := new(MemoryPreferencesAdapter)
			require.NoError(t, adapter.Persist("key", tt.doc))

			prefs, err := NewPreferences("key", adapter)
			require.NoError(t, err)
			require.Equal(t, tt.doc, prefs.Serialize())

			require.NoError(t, prefs.Restore(adapter), "restore is idempotent")
			require.Equal(t, tt.doc, prefs.Serialize())
		})
	}
}

func TestPreferences_IsAtDefault(t *testing.T) {
	adapter := new(MemoryPreferencesAdapter)
	table := MustNew(Config{
		Columns:     staticColumns(columnConfigs("a", "b")),
		Preferences: &PreferencesConfig{Key: "people", Adapter: adapter},
	})
	require.True(t, table.IsAtDefaults())
	require.Equal(t, "people", table.Preferences().Key())

	a := table.Columns()[0]
	columnPrefs := PreferencesForColumn(a, "plugin")
	tablePrefs := PreferencesForTable(table, "plugin")

	_, ok := columnPrefs.Get("width")
	require.False(t, ok)
	require.True(t, table.IsAtDefaults(), "reads must not create namespaces")

	require.NoError(t, columnPrefs.Set("width", 120))
	require.NoError(t, tablePrefs.Set("enabled", true))
	require.False(t, table.IsAtDefaults())
	require.Equal(t, 2, adapter.Persists())

	width, ok := columnPrefs.Float("width")
	require.True(t, ok)
	require.Equal(t, 120.0, width)
	enabled, ok := tablePrefs.Bool("enabled")
	require.True(t, ok)
	require.True(t, enabled)

	require.NoError(t, columnPrefs.Delete("width"))
	require.False(t, table.IsAtDefaults())
	require.NoError(t, tablePrefs.Delete("enabled"))
	require.True(t, table.IsAtDefaults())
	require.Empty(t, table.Preferences().Serialize().Plugins, "empty namespaces collapse")

	restored, err := adapter.Restore("people")
	require.NoError(t, err)
	require.Equal(t, &PreferencesDocument{Plugins: map[string]*PluginPreferences{}}, restored)
}

func TestPreferencesForAllColumns(t *testing.T) {
	adapter := new(MemoryPreferencesAdapter)
	table := MustNew(Config{
		Columns:     staticColumns(columnConfigs("a", "b", "c")),
		Preferences: &PreferencesConfig{Adapter: adapter},
	})
	for _, column := range table.Columns() {
		require.NoError(t, PreferencesForColumn(column, "plugin").Set("position", 1))
		require.NoError(t, PreferencesForColumn(column, "plugin").Set("other", 1))
	}
	persists := adapter.Persists()

	require.NoError(t, PreferencesForAllColumns(table, "plugin").Delete("position"))
	require.Equal(t, persists+1, adapter.Persists(), "persisted once")
	for _, column := range table.Columns() {
		_, ok := PreferencesForColumn(column, "plugin").Get("position")
		require.False(t, ok)
		_, ok = PreferencesForColumn(column, "plugin").Get("other")
		require.True(t, ok)
	}
}

type errorAdapter struct {
	restoreErr error
	persistErr error
}

func (a *errorAdapter) Persist(string, *PreferencesDocument) error   { return a.persistErr }
func (a *errorAdapter) Restore(string) (*PreferencesDocument, error) { return nil, a.restoreErr }

func TestPreferences_AdapterErrors(t *testing.T) {
	errRestore := errors.New("restore failed")
	_, err := New(Config{Preferences: &PreferencesConfig{Key: "k", Adapter: &errorAdapter{restoreErr: errRestore}}})
	require.ErrorIs(t, err, errRestore)

	errPersist := errors.New("persist failed")
	table := MustNew(Config{Preferences: &PreferencesConfig{Key: "k", Adapter: &errorAdapter{persistErr: errPersist}}})
	err = PreferencesForTable(table, "plugin").Set("x", 1)
	require.ErrorIs(t, err, errPersist)
	value, ok := PreferencesForTable(table, "plugin").Get("x")
	require.True(t, ok, "in memory state is kept")
	require.Equal(t, 1, value)
}

func TestPreferences_RandomKey(t *testing.T) {
	a := MustNew(Config{})
	b := MustNew(Config{})
	require.NotEmpty(t, a.Preferences().Key())
	require.NotEqual(t, a.Preferences().Key(), b.Preferences().Key())
}

func TestPreferenceScope_Float(t *testing.T) {
	prefs, err := NewPreferences("k", nil)
	require.NoError(t, err)
	for _, value := range []any{int64(3), float32(3), uint8(3), 3} {
		require.NoError(t, prefs.Set("p", "n", value))
		n, ok := PreferenceScope{prefs: prefs, plugin: "p"}.Float("n")
		require.True(t, ok)
		require.Equal(t, 3.0, n)
	}
	require.NoError(t, prefs.Set("p", "n", "3"))
	_, ok := PreferenceScope{prefs: prefs, plugin: "p"}.Float("n")
	require.False(t, ok)
}
