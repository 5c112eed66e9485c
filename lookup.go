package headtable

import (
	"reflect"
	"strings"
)

// LookupValue returns the value for key in data
// using DefaultStructFieldNaming for struct data.
//
// data can be a map with string keys, a struct,
// or a pointer or interface to one of those.
// If key is not found directly, a dotted key like "address.city"
// is resolved one level per dot.
// Nil is returned if the key can't be resolved.
func LookupValue(data any, key string) any {
	return DefaultStructFieldNaming.LookupValue(data, key)
}

// LookupValue returns the value for key in data
// using n to map struct fields to keys.
func (n *StructFieldNaming) LookupValue(data any, key string) any {
	val := n.lookup(reflect.ValueOf(data), key)
	if !val.IsValid() || !val.CanInterface() {
		return nil
	}
	return val.Interface()
}

func (n *StructFieldNaming) lookup(val reflect.Value, key string) reflect.Value {
	val = indirect(val)
	if !val.IsValid() {
		return val
	}
	if found := n.lookupKey(val, key); found.IsValid() {
		return found
	}
	head, tail, ok := strings.Cut(key, ".")
	if !ok {
		return reflect.Value{}
	}
	return n.lookup(n.lookupKey(val, head), tail)
}

func (n *StructFieldNaming) lookupKey(val reflect.Value, key string) reflect.Value {
	switch val.Kind() {
	case reflect.Map:
		keyType := val.Type().Key()
		if keyType.Kind() != reflect.String {
			return reflect.Value{}
		}
		return val.MapIndex(reflect.ValueOf(key).Convert(keyType))
	case reflect.Struct:
		return n.ColumnStructFieldValue(val, key)
	}
	return reflect.Value{}
}
