package headtable

import (
	"slices"
	"strings"
)

// Destructor undoes what a modifier attached to an element.
type Destructor func()

func composeDestructors(destructors []Destructor) Destructor {
	return func() {
		for i := len(destructors) - 1; i >= 0; i-- {
			if destructors[i] != nil {
				destructors[i]()
			}
		}
	}
}

// Element is the rendering surface a modifier works on.
// Implementations forward to a DOM node, a terminal widget,
// or keep the state in memory like ElementState.
type Element interface {
	SetAttribute(name, value string)
	SetStyle(property, value string)
	RemoveStyle(property string)
	Style(property string) string
}

// Style is one CSS declaration.
type Style struct {
	Property string
	Value    string
}

// Styles is an ordered list of CSS declarations.
type Styles []Style

// Get returns the value of the last declaration of property.
func (s Styles) Get(property string) string {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].Property == property {
			return s[i].Value
		}
	}
	return ""
}

// Apply sets all declarations on element.
func (s Styles) Apply(element Element) {
	for _, style := range s {
		element.SetStyle(style.Property, style.Value)
	}
}

// String returns the declarations in inline style attribute syntax.
func (s Styles) String() string {
	var b strings.Builder
	for _, style := range s {
		b.WriteString(style.Property)
		b.WriteByte(':')
		b.WriteString(style.Value)
		b.WriteByte(';')
	}
	return b.String()
}

var _ Element = new(ElementState)

// ElementState is an in memory Element.
type ElementState struct {
	attributes map[string]string
	styles     Styles
}

func (e *ElementState) SetAttribute(name, value string) {
	if e.attributes == nil {
		e.attributes = make(map[string]string)
	}
	e.attributes[name] = value
}

// Attribute returns the value of the named attribute.
func (e *ElementState) Attribute(name string) (string, bool) {
	value, ok := e.attributes[name]
	return value, ok
}

func (e *ElementState) SetStyle(property, value string) {
	for i := range e.styles {
		if e.styles[i].Property == property {
			e.styles[i].Value = value
			return
		}
	}
	e.styles = append(e.styles, Style{Property: property, Value: value})
}

func (e *ElementState) RemoveStyle(property string) {
	e.styles = slices.DeleteFunc(e.styles, func(s Style) bool { return s.Property == property })
}

func (e *ElementState) Style(property string) string {
	return e.styles.Get(property)
}

// Styles returns a copy of the declarations in the order they were first set.
func (e *ElementState) Styles() Styles {
	return slices.Clone(e.styles)
}
