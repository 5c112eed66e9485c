package headtable

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func configKeys(configs []*ColumnConfig) []string {
	keys := []string{}
	for _, config := range configs {
		keys = append(keys, config.Key)
	}
	return keys
}

func TestStructFieldNaming_ColumnConfigs(t *testing.T) {
	type StructWithFloat struct {
		Float float64 `col:"float"`
	}
	tests := []struct {
		name   string
		naming *StructFieldNaming
		strct  any
		want   []string
	}{
		{
			name:   "empty struct, nil naming",
			naming: nil,
			strct:  struct{}{},
			want:   []string{},
		},
		{
			name:   "exported and private names, nil naming",
			naming: nil,
			strct: struct {
				Int    int
				Bool   bool
				hidden string
			}{},
			want: []string{"Int", "Bool"},
		},
		{
			name:   "mixed, nil naming",
			naming: nil,
			strct: struct {
				Int int
				StructWithFloat
				Struct struct {
					Sub bool
				}
				hidden string
			}{},
			want: []string{"Int", "Float", "Struct"},
		},
		{
			name:   "exported and private names, DefaultStructFieldNaming",
			naming: &DefaultStructFieldNaming,
			strct: struct {
				Int        int  `col:"Integer"`
				Bool       bool `col:"-"`
				hidden     string
				HelloWorld string
			}{},
			want: []string{"Integer", "HelloWorld"},
		},
		{
			name:   "space pascal case keys",
			naming: &StructFieldNaming{Tag: "col", Ignore: "-", Untagged: SpacePascalCase},
			strct: struct {
				HelloWorld string
				Skip       string `col:"-"`
			}{},
			want: []string{"Hello World"},
		},
		{
			name:   "pointer type, DefaultStructFieldNaming",
			naming: &DefaultStructFieldNaming,
			strct:  &person{},
			want:   []string{"name", "Age", "address"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.naming.ColumnConfigs(reflect.TypeOf(tt.strct))
			require.Equal(t, tt.want, configKeys(got), "StructFieldNaming.ColumnConfigs()")
		})
	}
}

func TestColumnConfigsFor(t *testing.T) {
	configs := ColumnConfigsFor[person]()
	require.Len(t, configs, 3)
	require.Equal(t, "name", configs[0].Key)
	require.Equal(t, "Name", configs[0].Name)
	require.Equal(t, "Age", configs[1].Key)
	require.Equal(t, "address", configs[2].Key)

	table := MustNew(Config{
		Columns: staticColumns(configs),
		Data:    staticData(&person{Name: "Alice", Age: 3}),
	})
	row := table.Rows()[0]
	require.Equal(t, "Alice", table.Columns()[0].ValueForRow(row))
	require.Equal(t, 3, table.Columns()[1].ValueForRow(row))
	require.Equal(t, "--", table.Columns()[2].ValueForRow(row))
}

func TestSpacePascalCase(t *testing.T) {
	tests := []struct {
		testName string
		name     string
		want     string
	}{
		{testName: "", name: "", want: ""},
		{testName: "HelloWorld", name: "HelloWorld", want: "Hello World"},
		{testName: "_Hello_World", name: "_Hello_World", want: "Hello World"},
		{testName: "helloWorld", name: "helloWorld", want: "hello World"},
		{testName: "helloWorld_", name: "helloWorld_", want: "hello World"},
		{testName: "ThisHasMoreSpacesForSure", name: "ThisHasMoreSpacesForSure", want: "This Has More Spaces For Sure"},
		{testName: "ThisHasMore_Spaces__ForSure", name: "ThisHasMore_Spaces__ForSure", want: "This Has More Spaces For Sure"},
	}
	for _, tt := range tests {
		t.Run(tt.testName, func(t *testing.T) {
			if got := SpacePascalCase(tt.name); got != tt.want {
				t.Errorf("SpacePascalCase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValueIsNil(t *testing.T) {
	var nilPtr *person
	var nilMap map[string]any
	tests := []struct {
		name  string
		value any
		want  bool
	}{
		{name: "nil", value: nil, want: true},
		{name: "nil pointer", value: nilPtr, want: true},
		{name: "nil map", value: nilMap, want: true},
		{name: "empty struct", value: struct{}{}, want: true},
		{name: "zero int", value: 0, want: false},
		{name: "empty string", value: "", want: false},
		{name: "struct", value: person{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ValueIsNil(tt.value))
		})
	}
}
