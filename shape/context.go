package shape

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"github.com/brimdata/car2pq/dag"
)

// Field names of the whole-record shape.
const (
	CidField      = "cid"
	DataField     = "data"
	RawBytesField = "rawbytes"
)

// A Context manages the transitive closure of Shapes so that each unique
// shape corresponds to exactly one Shape pointer.
type Context struct {
	mu      sync.Mutex
	byID    []Shape
	toShape map[string]Shape
}

func NewContext() *Context {
	return &Context{
		byID:    make([]Shape, IDComposite, 2*IDComposite),
		toShape: make(map[string]Shape),
	}
}

// LookupList returns the list shape with the given element shape.  The
// element shape must be from this context.
func (c *Context) LookupList(elem Shape) *List {
	key := binary.AppendUvarint([]byte{'L'}, uint64(elem.ID()))
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.toShape[string(key)]; ok {
		return s.(*List)
	}
	l := &List{id: len(c.byID), Elem: elem}
	c.enterWithLock(key, l)
	return l
}

// LookupMap returns the map shape with the given fields, which are sorted
// by key so that maps that differ only in key order have the same shape.
// The field shapes must be from this context and the keys must be unique.
func (c *Context) LookupMap(fields []Field) *Map {
	sorted := make([]Field, len(fields))
	copy(sorted, fields)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Key < sorted[j].Key
	})
	key := binary.AppendUvarint([]byte{'M'}, uint64(len(sorted)))
	for k, f := range sorted {
		if k > 0 && sorted[k-1].Key == f.Key {
			panic(fmt.Sprintf("shape.LookupMap: duplicate key %q", f.Key))
		}
		key = binary.AppendUvarint(key, uint64(len(f.Key)))
		key = append(key, f.Key...)
		key = binary.AppendUvarint(key, uint64(f.Shape.ID()))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.toShape[string(key)]; ok {
		return s.(*Map)
	}
	m := &Map{id: len(c.byID), Fields: sorted}
	c.enterWithLock(key, m)
	return m
}

func (c *Context) enterWithLock(key []byte, s Shape) {
	c.toShape[string(key)] = s
	c.byID = append(c.byID, s)
}

// Infer returns the shape of val.  Lists take the shape of their first
// element (Null when empty) and map fields are sorted by key.
func (c *Context) Infer(val dag.Value) Shape {
	switch val := val.(type) {
	case dag.Null:
		return Null
	case dag.Bool:
		return Bool
	case dag.Int:
		return Integer
	case dag.Float:
		return Float
	case dag.String:
		return String
	case dag.Bytes:
		return Bytes
	case dag.Link:
		return Link
	case dag.List:
		if len(val) == 0 {
			return c.LookupList(Null)
		}
		return c.LookupList(c.Infer(val[0]))
	case dag.Map:
		fields := make([]Field, 0, len(val))
		for _, f := range val {
			fields = append(fields, Field{Key: f.Key, Shape: c.Infer(f.Value)})
		}
		return c.LookupMap(fields)
	}
	panic(fmt.Sprintf("unknown dag value type %T", val))
}

// Record returns the whole-record shape wrapping the shape of a record's
// decoded value: {cid:bytes,data:<data>} plus rawbytes:bytes when rawbytes
// is true.
func (c *Context) Record(data Shape, rawbytes bool) *Map {
	fields := []Field{
		{Key: CidField, Shape: Bytes},
		{Key: DataField, Shape: data},
	}
	if rawbytes {
		fields = append(fields, Field{Key: RawBytesField, Shape: Bytes})
	}
	return c.LookupMap(fields)
}
