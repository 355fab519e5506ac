package dag

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/brimdata/car2pq/pqe"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	"github.com/ipld/go-ipld-prime/codec/dagjson"
	"github.com/ipld/go-ipld-prime/datamodel"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/ipld/go-ipld-prime/node/basicnode"
)

// Decode decodes a DAG-CBOR encoded block into a Value.  Malformed input
// yields an error of kind pqe.Decode.
func Decode(b []byte) (Value, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := dagcbor.Decode(nb, bytes.NewReader(b)); err != nil {
		return nil, pqe.E(pqe.Decode, err)
	}
	val, err := FromNode(nb.Build())
	if err != nil {
		return nil, pqe.E(pqe.Decode, err)
	}
	return val, nil
}

// Encode returns the DAG-CBOR encoding of val.
func Encode(val Value) ([]byte, error) {
	n, err := ToNode(val)
	if err != nil {
		return nil, err
	}
	var b bytes.Buffer
	if err := dagcbor.Encode(n, &b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// FromNode converts an IPLD data model node into a Value.
func FromNode(n datamodel.Node) (Value, error) {
	switch n.Kind() {
	case datamodel.Kind_Null:
		return Null{}, nil
	case datamodel.Kind_Bool:
		b, err := n.AsBool()
		if err != nil {
			return nil, err
		}
		return Bool(b), nil
	case datamodel.Kind_Int:
		i, err := n.AsInt()
		if err != nil {
			return nil, err
		}
		return Int(i), nil
	case datamodel.Kind_Float:
		f, err := n.AsFloat()
		if err != nil {
			return nil, err
		}
		return Float(f), nil
	case datamodel.Kind_String:
		s, err := n.AsString()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case datamodel.Kind_Bytes:
		b, err := n.AsBytes()
		if err != nil {
			return nil, err
		}
		return Bytes(b), nil
	case datamodel.Kind_Link:
		l, err := n.AsLink()
		if err != nil {
			return nil, err
		}
		cl, ok := l.(cidlink.Link)
		if !ok {
			return nil, fmt.Errorf("unsupported link type %T", l)
		}
		return Link{Cid: cl.Cid}, nil
	case datamodel.Kind_List:
		list := make(List, 0, n.Length())
		for it := n.ListIterator(); !it.Done(); {
			_, elem, err := it.Next()
			if err != nil {
				return nil, err
			}
			val, err := FromNode(elem)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil
	case datamodel.Kind_Map:
		m := make(Map, 0, n.Length())
		for it := n.MapIterator(); !it.Done(); {
			k, elem, err := it.Next()
			if err != nil {
				return nil, err
			}
			key, err := k.AsString()
			if err != nil {
				return nil, err
			}
			val, err := FromNode(elem)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			m = append(m, Field{Key: key, Value: val})
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported node kind %s", n.Kind())
}

// ToNode converts val into an IPLD data model node.
func ToNode(val Value) (datamodel.Node, error) {
	nb := basicnode.Prototype.Any.NewBuilder()
	if err := assemble(nb, val); err != nil {
		return nil, err
	}
	return nb.Build(), nil
}

func assemble(na datamodel.NodeAssembler, val Value) error {
	switch val := val.(type) {
	case Null:
		return na.AssignNull()
	case Bool:
		return na.AssignBool(bool(val))
	case Int:
		return na.AssignInt(int64(val))
	case Float:
		return na.AssignFloat(float64(val))
	case String:
		return na.AssignString(string(val))
	case Bytes:
		return na.AssignBytes([]byte(val))
	case Link:
		return na.AssignLink(cidlink.Link{Cid: val.Cid})
	case List:
		la, err := na.BeginList(int64(len(val)))
		if err != nil {
			return err
		}
		for _, elem := range val {
			if err := assemble(la.AssembleValue(), elem); err != nil {
				return err
			}
		}
		return la.Finish()
	case Map:
		ma, err := na.BeginMap(int64(len(val)))
		if err != nil {
			return err
		}
		for _, f := range val {
			va, err := ma.AssembleEntry(f.Key)
			if err != nil {
				return err
			}
			if err := assemble(va, f.Value); err != nil {
				return err
			}
		}
		return ma.Finish()
	}
	return fmt.Errorf("unknown dag value type %T", val)
}

// Format returns the DAG-JSON text of val for use in diagnostics.
func Format(val Value) string {
	if val == nil {
		return "<nil>"
	}
	n, err := ToNode(val)
	if err != nil {
		return fmt.Sprintf("%v", val)
	}
	var b strings.Builder
	if err := dagjson.Encode(n, &b); err != nil {
		return fmt.Sprintf("%v", val)
	}
	return b.String()
}
