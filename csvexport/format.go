package csvexport

import (
	"context"
	"fmt"
	"reflect"

	"github.com/domonda/go-types/charset"
)

// Cell is passed to a Formatter.
type Cell struct {
	Row    int
	Col    int
	Column string
	Value  any
}

// Formatter formats the value of a cell.
type Formatter interface {
	FormatCSV(ctx context.Context, cell *Cell) (string, error)
}

// FormatterFunc implements the Formatter interface for a function.
type FormatterFunc func(ctx context.Context, cell *Cell) (string, error)

func (f FormatterFunc) FormatCSV(ctx context.Context, cell *Cell) (string, error) {
	return f(ctx, cell)
}

// RawFormatter is implemented by values that
// format themselves as CSV field without quoting.
type RawFormatter interface {
	RawCSV() string
}

// Encoder is an interface to encode byte strings.
type Encoder interface {
	Bytes([]byte) ([]byte, error)
}

// EncoderFunc implements the Encoder interface for a function.
type EncoderFunc func([]byte) ([]byte, error)

func (f EncoderFunc) Bytes(data []byte) ([]byte, error) {
	return f(data)
}

// CharsetEncoder returns an Encoder converting UTF-8
// to the named character set.
func CharsetEncoder(name string) (Encoder, error) {
	enc, err := charset.GetEncoding(name)
	if err != nil {
		return nil, err
	}
	return EncoderFunc(enc.Encode), nil
}

func formatValue(val any, nilValue string) string {
	if val == nil {
		return nilValue
	}
	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Map, reflect.Pointer, reflect.UnsafePointer, reflect.Interface, reflect.Slice:
		if v.IsNil() {
			return nilValue
		}
	}
	if _, ok := val.(fmt.Stringer); !ok && v.Kind() == reflect.Pointer {
		return fmt.Sprint(v.Elem().Interface())
	}
	return fmt.Sprint(val)
}
