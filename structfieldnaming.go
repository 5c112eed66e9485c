package headtable

import (
	"fmt"
	"reflect"
	"strings"
)

// StructFieldNaming defines how struct fields
// are mapped to column keys.
//
// nil is a valid value for *StructFieldNaming
// and is equal to the zero value
// which will use all exported struct fields
// with their field name as column key.
type StructFieldNaming struct {
	// Tag is the struct field tag to be used as column key.
	// If Tag is empty, then every struct field will be treated as untagged.
	Tag string
	// Ignore is the column key of fields
	// that are not mapped to any column.
	Ignore string
	// Untagged will be called with the struct field name to
	// return a column key in case the struct field has no tag named Tag.
	// If Untagged is nil, then the struct field name will be used.
	Untagged func(fieldName string) (column string)
}

// String implements the fmt.Stringer interface for StructFieldNaming.
func (n *StructFieldNaming) String() string {
	if n == nil {
		return `StructFieldNaming{Tag: "", Ignore: ""}`
	}
	return fmt.Sprintf("StructFieldNaming{Tag: %#v, Ignore: %#v}", n.Tag, n.Ignore)
}

// StructFieldColumn returns the column key for a struct field.
func (n *StructFieldNaming) StructFieldColumn(structField reflect.StructField) string {
	if n == nil {
		return structField.Name
	}
	if n.Tag != "" {
		if tag, ok := structField.Tag.Lookup(n.Tag); ok {
			if i := strings.IndexByte(tag, ','); i != -1 {
				tag = tag[:i]
			}
			if tag != "" {
				return tag
			}
		}
	}
	if n.Untagged == nil {
		return structField.Name
	}
	return n.Untagged(structField.Name)
}

// IsIgnored returns if the column key marks a field as not mapped.
func (n *StructFieldNaming) IsIgnored(column string) bool {
	return n != nil && n.Ignore != "" && column == n.Ignore
}

// ColumnStructFieldValue returns the field of strct
// mapped to column or an invalid reflect.Value.
func (n *StructFieldNaming) ColumnStructFieldValue(strct reflect.Value, column string) (found reflect.Value) {
	if n.IsIgnored(column) {
		return reflect.Value{}
	}
	visitStructFields(strct, func(field reflect.StructField, value reflect.Value) bool {
		if n.StructFieldColumn(field) == column {
			found = value
			return false
		}
		return true
	})
	return found
}

// ColumnConfigs returns a ColumnConfig for every mapped field
// of structType which may also be a pointer to a struct type.
// The column names are the SpacePascalCase field names.
func (n *StructFieldNaming) ColumnConfigs(structType reflect.Type) []*ColumnConfig {
	var configs []*ColumnConfig
	for _, field := range StructFieldTypes(structType) {
		key := n.StructFieldColumn(field)
		if n.IsIgnored(key) {
			continue
		}
		configs = append(configs, &ColumnConfig{
			Key:  key,
			Name: SpacePascalCase(field.Name),
		})
	}
	return configs
}

// ColumnConfigsFor returns the column configurations for the
// struct type of T using DefaultStructFieldNaming.
func ColumnConfigsFor[T any]() []*ColumnConfig {
	return DefaultStructFieldNaming.ColumnConfigs(reflect.TypeFor[T]())
}
