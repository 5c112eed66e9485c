// Package csvexport writes tables as CSV
// with the columns as perceived by the user.
package csvexport

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"strings"

	headtable "github.com/domonda/go-headtable"
)

// Writer writes a headtable.View as CSV.
// The With methods return a modified copy of the Writer.
type Writer struct {
	columnFormatters map[string]Formatter
	typeFormatters   map[reflect.Type]Formatter
	headerRow        bool
	quoteAllFields   bool
	quoteEmptyFields bool
	escapeQuotes     string
	nilValue         string
	delimiter        rune
	newLine          string
	encoder          Encoder
}

// NewWriter returns a Writer using ';' as delimiter
// and "\r\n" as new line.
func NewWriter() *Writer {
	return &Writer{
		escapeQuotes: `""`,
		delimiter:    ';',
		newLine:      "\r\n",
	}
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WithColumnFormatter formats the cells of the column with the passed title.
func (w *Writer) WithColumnFormatter(title string, formatter Formatter) *Writer {
	c := w.clone()
	c.columnFormatters = make(map[string]Formatter, len(w.columnFormatters)+1)
	for k, f := range w.columnFormatters {
		c.columnFormatters[k] = f
	}
	c.columnFormatters[title] = formatter
	return c
}

// WithTypeFormatter formats cell values of type typ.
func (w *Writer) WithTypeFormatter(typ reflect.Type, formatter Formatter) *Writer {
	c := w.clone()
	c.typeFormatters = make(map[reflect.Type]Formatter, len(w.typeFormatters)+1)
	for k, f := range w.typeFormatters {
		c.typeFormatters[k] = f
	}
	c.typeFormatters[typ] = formatter
	return c
}

func (w *Writer) WithHeaderRow(headerRow bool) *Writer {
	c := w.clone()
	c.headerRow = headerRow
	return c
}

func (w *Writer) WithQuoteAllFields(quoteAllFields bool) *Writer {
	c := w.clone()
	c.quoteAllFields = quoteAllFields
	return c
}

func (w *Writer) WithQuoteEmptyFields(quoteEmptyFields bool) *Writer {
	c := w.clone()
	c.quoteEmptyFields = quoteEmptyFields
	return c
}

func (w *Writer) WithEscapeQuotes(escapeQuotes string) *Writer {
	c := w.clone()
	c.escapeQuotes = escapeQuotes
	return c
}

func (w *Writer) WithNilValue(nilValue string) *Writer {
	c := w.clone()
	c.nilValue = nilValue
	return c
}

func (w *Writer) WithDelimiter(delimiter rune) *Writer {
	c := w.clone()
	c.delimiter = delimiter
	return c
}

func (w *Writer) WithNewLine(newLine string) *Writer {
	c := w.clone()
	c.newLine = newLine
	return c
}

func (w *Writer) WithEncoder(encoder Encoder) *Writer {
	c := w.clone()
	c.encoder = encoder
	return c
}

func (w *Writer) Delimiter() rune { return w.delimiter }
func (w *Writer) NewLine() string { return w.newLine }

// WriteTable writes the rows of table with the columns
// returned by headtable.ColumnsFor for the user.
func (w *Writer) WriteTable(ctx context.Context, dest io.Writer, table *headtable.Table) error {
	return w.WriteView(ctx, dest, table.View(""))
}

func (w *Writer) WriteView(ctx context.Context, dest io.Writer, view headtable.View) error {
	var (
		rowBuf         = bytes.NewBuffer(make([]byte, 0, 1024))
		mustQuoteChars = "\n\"" + string(w.delimiter)
		columns        = view.Columns()
	)
	if w.headerRow {
		err := w.writeRow(ctx, dest, rowBuf, len(columns), mustQuoteChars, func(col int) (string, bool, error) {
			return columns[col], false, nil
		})
		if err != nil {
			return err
		}
	}
	for row := 0; row < view.NumRows(); row++ {
		err := w.writeRow(ctx, dest, rowBuf, len(columns), mustQuoteChars, func(col int) (string, bool, error) {
			val, err := view.Cell(row, col)
			if err != nil {
				return "", false, err
			}
			if raw, ok := val.(RawFormatter); ok {
				return raw.RawCSV(), true, nil
			}
			str, err := w.formatCell(ctx, &Cell{Row: row, Col: col, Column: columns[col], Value: val})
			return str, false, err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) formatCell(ctx context.Context, cell *Cell) (string, error) {
	if formatter, ok := w.columnFormatters[cell.Column]; ok {
		return formatter.FormatCSV(ctx, cell)
	}
	if cell.Value != nil {
		if formatter, ok := w.typeFormatters[reflect.TypeOf(cell.Value)]; ok {
			return formatter.FormatCSV(ctx, cell)
		}
	}
	return formatValue(cell.Value, w.nilValue), nil
}

func (w *Writer) writeRow(ctx context.Context, dest io.Writer, rowBuf *bytes.Buffer, numCols int, mustQuoteChars string, field func(col int) (str string, raw bool, err error)) (err error) {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	defer rowBuf.Reset()
	for col := 0; col < numCols; col++ {
		if col > 0 {
			rowBuf.WriteRune(w.delimiter)
		}
		str, raw, err := field(col)
		if err != nil {
			return err
		}
		if raw {
			rowBuf.WriteString(str)
			continue
		}
		// \n alone is valid within quotes
		str = strings.ReplaceAll(str, "\r", "")
		switch {
		case w.quoteAllFields || strings.ContainsAny(str, mustQuoteChars):
			rowBuf.WriteByte('"')
			rowBuf.WriteString(strings.ReplaceAll(str, `"`, w.escapeQuotes))
			rowBuf.WriteByte('"')
		case w.quoteEmptyFields && str == "":
			rowBuf.WriteString(`""`)
		default:
			rowBuf.WriteString(str)
		}
	}
	rowBuf.WriteString(w.newLine)
	rowBytes := rowBuf.Bytes()
	if w.encoder != nil {
		rowBytes, err = w.encoder.Bytes(rowBytes)
		if err != nil {
			return err
		}
	}
	_, err = dest.Write(rowBytes)
	return err
}
