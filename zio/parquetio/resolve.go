package parquetio

import (
	"fmt"

	"github.com/brimdata/car2pq/dag"
	"github.com/brimdata/car2pq/field"
	"github.com/brimdata/car2pq/pqe"
	"github.com/brimdata/car2pq/shape"
)

// An Entry is one value of a column's flattened stream.  Rep is 0 when the
// entry starts a new record and the column's max repetition level when it
// continues the current record's list.  Def is the column's max definition
// level except for the entry standing in for an empty list, whose Def is one
// less so that readers see an empty list rather than a placeholder element.
type Entry struct {
	Value dag.Value
	Rep   int16
	Def   int16
}

// Resolve walks rec along col.Path and appends the column's entries for rec
// to dst.  The first path element selects the cid, data, or rawbytes root.
// A list on the path fans out to one entry per element.
func Resolve(dst []Entry, rec dag.Record, col Column) ([]Entry, error) {
	switch col.Path.Head() {
	case shape.CidField:
		return append(dst, Entry{Value: dag.Link{Cid: rec.Cid}, Def: col.MaxDef}), nil
	case shape.RawBytesField:
		return append(dst, Entry{Value: dag.Bytes(rec.Raw), Def: col.MaxDef}), nil
	case shape.DataField:
		r := resolver{col: col, dst: dst}
		if err := r.walk(rec.Value, col.Path.Tail(), 1); err != nil {
			return nil, err
		}
		return r.dst, nil
	}
	return nil, pqe.E(pqe.Mismatch, "unexpected root path %q", col.Path.Head())
}

type resolver struct {
	col     Column
	dst     []Entry
	started bool
	inList  bool
}

// walk resolves path in val.  depth is the length of the column path
// consumed so far, for error messages.
func (r *resolver) walk(val dag.Value, path field.Path, depth int) error {
	if list, ok := val.(dag.List); ok {
		return r.fanout(list, path, depth)
	}
	if len(path) == 0 {
		r.emit(val, r.col.MaxDef)
		return nil
	}
	m, ok := val.(dag.Map)
	if !ok {
		return pqe.E(pqe.Mismatch, "%s: expected map, found %s", r.col.Path[:depth], val.Kind())
	}
	child, ok := m.Get(path[0])
	if !ok {
		return pqe.E(pqe.Mismatch, "%s: missing key %q", r.col.Path[:depth], path[0])
	}
	return r.walk(child, path[1:], depth+1)
}

func (r *resolver) fanout(list dag.List, path field.Path, depth int) error {
	if !r.col.Repeated() {
		return pqe.E(pqe.Mismatch, "%s: list in non-repeated column", r.col.Path[:depth])
	}
	if r.inList {
		return fmt.Errorf("%s: %w", r.col.Path[:depth], ErrNestedList)
	}
	if len(list) == 0 {
		r.emit(dag.Null{}, r.col.MaxDef-1)
		return nil
	}
	r.inList = true
	defer func() { r.inList = false }()
	for _, elem := range list {
		if err := r.walk(elem, path, depth); err != nil {
			return err
		}
	}
	return nil
}

func (r *resolver) emit(val dag.Value, def int16) {
	var rep int16
	if r.started {
		rep = r.col.MaxRep
	}
	r.started = true
	r.dst = append(r.dst, Entry{Value: val, Rep: rep, Def: def})
}
