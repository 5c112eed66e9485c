package headtable

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// requirePanicsIs requires f to panic with an error wrapping target.
func requirePanicsIs(t *testing.T, target error, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected a panic wrapping %v", target)
		err, ok := r.(error)
		require.Truef(t, ok, "panic value %#v is not an error", r)
		require.ErrorIs(t, err, target)
	}()
	f()
}

type basicPlugin struct {
	name string
}

func (p *basicPlugin) Name() string { return p.name }

func basicClass(name string) *Class {
	return NewClass(name, func(*Table) Plugin { return &basicPlugin{name: name} })
}

type counterMeta struct {
	owner any
}

// metaPlugin creates a new counterMeta for every owner
// and counts the creations.
type metaPlugin struct {
	name          string
	tableCreated  int
	columnCreated int
	rowCreated    int
	resets        int
	destroyed     int
	events        *[]string
}

func (p *metaPlugin) Name() string { return p.name }

func (p *metaPlugin) NewTableMeta(table *Table) any {
	p.tableCreated++
	return &counterMeta{owner: table}
}

func (p *metaPlugin) NewColumnMeta(column *Column) any {
	p.columnCreated++
	return &counterMeta{owner: column}
}

func (p *metaPlugin) NewRowMeta(row *Row) any {
	p.rowCreated++
	return &counterMeta{owner: row}
}

func (p *metaPlugin) Reset() error {
	p.resets++
	return nil
}

func (p *metaPlugin) Destroy() {
	p.destroyed++
}

func (p *metaPlugin) ModifyContainer(element Element, table *Table) Destructor {
	*p.events = append(*p.events, p.name+" attach")
	return func() { *p.events = append(*p.events, p.name+" detach") }
}

type person struct {
	Name    string `col:"name"`
	Age     int
	Address *address `col:"address"`
	Secret  string   `col:"-"`
}

type address struct {
	City string `col:"city"`
}

func columnConfigs(keys ...string) []*ColumnConfig {
	configs := make([]*ColumnConfig, len(keys))
	for i, key := range keys {
		configs[i] = &ColumnConfig{Key: key, Name: SpacePascalCase(key)}
	}
	return configs
}

func staticColumns(configs []*ColumnConfig) func() []*ColumnConfig {
	return func() []*ColumnConfig { return configs }
}

func staticData(data ...any) func() []any {
	return func() []any { return data }
}
