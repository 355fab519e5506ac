// Package dag implements the dynamically typed value model of the
// records stored in content-addressed archives.  A Value is one of a closed
// set of concrete types (Null, Bool, Int, Float, String, Bytes, List, Map,
// and Link); consumers switch on the concrete type and treat any other type
// as a programming error.
package dag

import (
	"fmt"

	"github.com/ipfs/go-cid"
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindList
	KindMap
	KindLink
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindLink:
		return "link"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// A Value is a decoded structured value.  Values are immutable once
// built.  The unexported method seals the interface to this package.
type Value interface {
	Kind() Kind
	isValue()
}

type (
	Null   struct{}
	Bool   bool
	Int    int64
	Float  float64
	String string
	Bytes  []byte
	List   []Value
	// Map is a sequence of fields with unique keys in the order they
	// were decoded.
	Map  []Field
	Link struct {
		Cid cid.Cid
	}
)

type Field struct {
	Key   string
	Value Value
}

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }
func (Bytes) Kind() Kind  { return KindBytes }
func (List) Kind() Kind   { return KindList }
func (Map) Kind() Kind    { return KindMap }
func (Link) Kind() Kind   { return KindLink }

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (Int) isValue()    {}
func (Float) isValue()  {}
func (String) isValue() {}
func (Bytes) isValue()  {}
func (List) isValue()   {}
func (Map) isValue()    {}
func (Link) isValue()   {}

// Get returns the value of the field with the given key.
func (m Map) Get(key string) (Value, bool) {
	for _, f := range m {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// NewMap builds a Map from alternating keys and values, which is handy
// for literals, e.g., NewMap("x", Int(1), "y", String("a")).
func NewMap(kvs ...interface{}) Map {
	if len(kvs)%2 != 0 {
		panic("dag.NewMap: odd number of arguments")
	}
	m := make(Map, 0, len(kvs)/2)
	for k := 0; k < len(kvs); k += 2 {
		key, ok := kvs[k].(string)
		if !ok {
			panic(fmt.Sprintf("dag.NewMap: key %v is not a string", kvs[k]))
		}
		val, ok := kvs[k+1].(Value)
		if !ok {
			panic(fmt.Sprintf("dag.NewMap: value for %q is not a dag.Value", key))
		}
		m = append(m, Field{Key: key, Value: val})
	}
	return m
}
