// Package shape infers the structural schema of dag values.  A Shape
// erases the values of a dag.Value and keeps its type and nesting
// structure.  Shapes are interned by a Context so that each unique shape
// corresponds to exactly one Shape pointer and shape equality is pointer
// comparison.  (Shapes from distinct Contexts do not have this property.)
package shape

import (
	"strconv"
	"strings"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindString
	KindBytes
	KindLink
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindLink:
		return "link"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

type Shape interface {
	Kind() Kind
	// ID returns a unique (per Context) identifier for this shape.
	// Primitive shapes have the same ID in every Context.
	ID() int
	String() string
}

const (
	IDNull = iota
	IDBool
	IDInteger
	IDFloat
	IDString
	IDBytes
	IDLink

	// IDComposite is the first ID assigned to list and map shapes.
	IDComposite
)

type Primitive struct {
	kind Kind
}

var (
	Null    = &Primitive{KindNull}
	Bool    = &Primitive{KindBool}
	Integer = &Primitive{KindInteger}
	Float   = &Primitive{KindFloat}
	String  = &Primitive{KindString}
	Bytes   = &Primitive{KindBytes}
	Link    = &Primitive{KindLink}
)

func (p *Primitive) Kind() Kind     { return p.kind }
func (p *Primitive) ID() int        { return int(p.kind) }
func (p *Primitive) String() string { return p.kind.String() }

// List is the shape of a list.  Elem is the shape of the list's first
// element, or Null for an empty list, so lists whose later elements
// differ in shape from the first are not distinguished.
type List struct {
	id   int
	Elem Shape
}

func (l *List) Kind() Kind { return KindList }
func (l *List) ID() int    { return l.id }

func (l *List) String() string {
	return "[" + l.Elem.String() + "]"
}

// Map is the shape of a map.  Fields are sorted by key.
type Map struct {
	id     int
	Fields []Field
}

type Field struct {
	Key   string
	Shape Shape
}

func (m *Map) Kind() Kind { return KindMap }
func (m *Map) ID() int    { return m.id }

func (m *Map) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for k, f := range m.Fields {
		if k > 0 {
			b.WriteByte(',')
		}
		b.WriteString(formatKey(f.Key))
		b.WriteByte(':')
		b.WriteString(f.Shape.String())
	}
	b.WriteByte('}')
	return b.String()
}

func formatKey(key string) string {
	if key == "" {
		return `""`
	}
	for _, r := range key {
		if !(r == '_' || r == '$' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return strconv.Quote(key)
		}
	}
	return key
}
