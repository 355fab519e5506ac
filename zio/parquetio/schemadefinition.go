package parquetio

import (
	"fmt"

	"github.com/apache/arrow/go/v11/parquet"
	"github.com/apache/arrow/go/v11/parquet/schema"
	"github.com/brimdata/car2pq/field"
	"github.com/brimdata/car2pq/pqe"
	"github.com/brimdata/car2pq/shape"
)

var (
	ErrEmptyMap   = pqe.ErrNotImplemented("empty map has no columnar representation")
	ErrNestedList = pqe.ErrNotImplemented("nested repetition (list inside list)")
)

// rootName is the name of the schema's root group.
const rootName = "schema"

// A Column describes one leaf of a Schema.  Path is the column's address in
// the whole-record shape, starting with one of the shape package's root
// field names.
type Column struct {
	Path   field.Path
	Type   parquet.Type
	MaxRep int16
	MaxDef int16
}

// Repeated reports whether the column's path crosses a list.
func (c Column) Repeated() bool {
	return c.MaxRep > 0
}

// A Schema is the columnar schema of one whole-record shape.  Columns are
// the leaves of Root in the order a parquet writer visits them.
type Schema struct {
	Root    *schema.GroupNode
	Columns []Column
}

// NewSchema translates a whole-record shape into a columnar schema.  Map
// shapes become groups whose children follow the map's sorted field order,
// list shapes mark their element REPEATED, and everything else is
// REQUIRED.  A list nested anywhere below another list yields ErrNestedList.
func NewSchema(s *shape.Map) (*Schema, error) {
	var t translator
	fields, err := t.newFields(field.NewRoot(), s, 0)
	if err != nil {
		return nil, err
	}
	root, err := schema.NewGroupNode(rootName, parquet.Repetitions.Required, fields, -1)
	if err != nil {
		return nil, err
	}
	return &Schema{Root: root, Columns: t.columns}, nil
}

// Column returns the column with the given dotted path.
func (s *Schema) Column(path string) (Column, bool) {
	p := field.Dotted(path)
	for _, c := range s.Columns {
		if c.Path.Equal(p) {
			return c, true
		}
	}
	return Column{}, false
}

type translator struct {
	columns []Column
}

func (t *translator) newFields(path field.Path, m *shape.Map, lv int16) (schema.FieldList, error) {
	if len(m.Fields) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyMap)
	}
	fields := make(schema.FieldList, 0, len(m.Fields))
	for _, f := range m.Fields {
		n, err := t.newNode(path.Append(f.Key), f.Shape, false, lv)
		if err != nil {
			return nil, err
		}
		fields = append(fields, n)
	}
	return fields, nil
}

// newNode translates s under the name path.Leaf().  lv counts the repeated
// nodes above path and so is both the repetition and definition level of
// the parent.
func (t *translator) newNode(path field.Path, s shape.Shape, repeated bool, lv int16) (schema.Node, error) {
	rep := parquet.Repetitions.Required
	if repeated {
		rep = parquet.Repetitions.Repeated
		lv++
	}
	switch s := s.(type) {
	case *shape.List:
		if lv > 0 {
			return nil, fmt.Errorf("%s: %w", path, ErrNestedList)
		}
		return t.newNode(path, s.Elem, true, lv)
	case *shape.Map:
		fields, err := t.newFields(path, s, lv)
		if err != nil {
			return nil, err
		}
		n, err := schema.NewGroupNode(path.Leaf(), rep, fields, -1)
		if err != nil {
			return nil, err
		}
		return n, nil
	case *shape.Primitive:
		n, err := newPrimitiveNode(path.Leaf(), rep, s)
		if err != nil {
			return nil, err
		}
		t.columns = append(t.columns, Column{
			Path:   path,
			Type:   n.PhysicalType(),
			MaxRep: lv,
			MaxDef: lv,
		})
		return n, nil
	default:
		panic(fmt.Sprintf("unknown shape type %T", s))
	}
}

// newPrimitiveNode declares the physical type of a scalar shape.  Null has
// no physical type of its own and is declared BOOLEAN as a placeholder.
func newPrimitiveNode(name string, rep parquet.Repetition, s *shape.Primitive) (*schema.PrimitiveNode, error) {
	switch s.Kind() {
	case shape.KindNull, shape.KindBool:
		return schema.NewPrimitiveNode(name, rep, parquet.Types.Boolean, -1, -1)
	case shape.KindInteger:
		return schema.NewPrimitiveNodeLogical(name, rep, schema.NewIntLogicalType(64, true), parquet.Types.Int64, -1, -1)
	case shape.KindFloat:
		return schema.NewPrimitiveNode(name, rep, parquet.Types.Double, -1, -1)
	case shape.KindString:
		return schema.NewPrimitiveNodeLogical(name, rep, schema.StringLogicalType{}, parquet.Types.ByteArray, -1, -1)
	case shape.KindBytes, shape.KindLink:
		return schema.NewPrimitiveNode(name, rep, parquet.Types.ByteArray, -1, -1)
	}
	return nil, fmt.Errorf("unknown primitive shape %s", s)
}
