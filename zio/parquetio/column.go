package parquetio

import (
	"fmt"

	"github.com/apache/arrow/go/v11/parquet"
	"github.com/apache/arrow/go/v11/parquet/file"
	"github.com/brimdata/car2pq/dag"
	"github.com/brimdata/car2pq/pqe"
)

// writeColumn coerces the values of entries to the physical type of cw and
// writes them as one batch together with their levels.  Entries below the
// column's max definition level contribute levels only.
func writeColumn(cw file.ColumnChunkWriter, col Column, entries []Entry) error {
	def, rep := levels(col, entries)
	var err error
	switch cw := cw.(type) {
	case *file.BooleanColumnChunkWriter:
		err = writeBatch(cw.WriteBatch, col, entries, def, rep, toBool)
	case *file.Int32ColumnChunkWriter:
		err = writeBatch(cw.WriteBatch, col, entries, def, rep, toInt32)
	case *file.Int64ColumnChunkWriter:
		err = writeBatch(cw.WriteBatch, col, entries, def, rep, toInt64)
	case *file.Float32ColumnChunkWriter:
		err = writeBatch(cw.WriteBatch, col, entries, def, rep, toFloat32)
	case *file.Float64ColumnChunkWriter:
		err = writeBatch(cw.WriteBatch, col, entries, def, rep, toFloat64)
	case *file.ByteArrayColumnChunkWriter:
		err = writeBatch(cw.WriteBatch, col, entries, def, rep, toByteArray)
	case *file.Int96ColumnChunkWriter, *file.FixedLenByteArrayColumnChunkWriter:
		err = pqe.ErrNotImplemented("%s column", col.Type)
	default:
		err = fmt.Errorf("unknown column writer type %T", cw)
	}
	return err
}

// levels returns the definition and repetition levels of entries.  A
// level slice is nil when its max level is zero.
func levels(col Column, entries []Entry) ([]int16, []int16) {
	var def, rep []int16
	if col.MaxDef > 0 {
		def = make([]int16, len(entries))
		for k, e := range entries {
			def[k] = e.Def
		}
	}
	if col.Repeated() {
		rep = make([]int16, len(entries))
		for k, e := range entries {
			rep[k] = e.Rep
		}
	}
	return def, rep
}

func writeBatch[T any](write func([]T, []int16, []int16) (int64, error), col Column, entries []Entry, def, rep []int16, coerce func(dag.Value) (T, error)) error {
	vals := make([]T, 0, len(entries))
	for _, e := range entries {
		if e.Def < col.MaxDef {
			continue
		}
		v, err := coerce(e.Value)
		if err != nil {
			return err
		}
		vals = append(vals, v)
	}
	_, err := write(vals, def, rep)
	return err
}

func badType(val dag.Value, expected string) error {
	return pqe.E(pqe.BadType, "%s, expected %s", dag.Format(val), expected)
}

// Null is the placeholder shape of a BOOLEAN column and is written as
// false.
func toBool(val dag.Value) (bool, error) {
	switch val := val.(type) {
	case dag.Bool:
		return bool(val), nil
	case dag.Null:
		return false, nil
	}
	return false, badType(val, "boolean")
}

func toInt32(val dag.Value) (int32, error) {
	if v, ok := val.(dag.Int); ok {
		return int32(v), nil
	}
	return 0, badType(val, "integer")
}

func toInt64(val dag.Value) (int64, error) {
	if v, ok := val.(dag.Int); ok {
		return int64(v), nil
	}
	return 0, badType(val, "integer")
}

func toFloat32(val dag.Value) (float32, error) {
	if v, ok := val.(dag.Float); ok {
		return float32(v), nil
	}
	return 0, badType(val, "float")
}

func toFloat64(val dag.Value) (float64, error) {
	if v, ok := val.(dag.Float); ok {
		return float64(v), nil
	}
	return 0, badType(val, "float")
}

// Links are written in their binary CID form.  Null is written as a
// zero-length placeholder.
func toByteArray(val dag.Value) (parquet.ByteArray, error) {
	switch val := val.(type) {
	case dag.String:
		return parquet.ByteArray(val), nil
	case dag.Bytes:
		return parquet.ByteArray(val), nil
	case dag.Link:
		return parquet.ByteArray(val.Cid.Bytes()), nil
	case dag.Null:
		return parquet.ByteArray{}, nil
	}
	return nil, badType(val, "string, bytes or link")
}
