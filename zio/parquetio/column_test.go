package parquetio

import (
	"bytes"
	"testing"

	"github.com/apache/arrow/go/v11/parquet"
	"github.com/apache/arrow/go/v11/parquet/file"
	"github.com/apache/arrow/go/v11/parquet/schema"
	"github.com/brimdata/car2pq/dag"
	"github.com/brimdata/car2pq/field"
	"github.com/brimdata/car2pq/pqe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// narrowSchema returns a root group with one required leaf per type.
func narrowSchema(t *testing.T, names []string, types []parquet.Type) *schema.GroupNode {
	t.Helper()
	var fields schema.FieldList
	for k, name := range names {
		n, err := schema.NewPrimitiveNode(name, parquet.Repetitions.Required, types[k], -1, -1)
		require.NoError(t, err)
		fields = append(fields, n)
	}
	root, err := schema.NewGroupNode(rootName, parquet.Repetitions.Required, fields, -1)
	require.NoError(t, err)
	return root
}

func TestWriteNarrowColumns(t *testing.T) {
	root := narrowSchema(t, []string{"i", "f"}, []parquet.Type{parquet.Types.Int32, parquet.Types.Float})
	var buf bytes.Buffer
	fw := file.NewParquetWriter(&buf, root)
	rg := fw.AppendRowGroup()

	cw, err := rg.NextColumn()
	require.NoError(t, err)
	col := Column{Path: field.New("i"), Type: parquet.Types.Int32}
	entries := []Entry{{Value: dag.Int(1<<32 + 7)}, {Value: dag.Int(-3)}}
	require.NoError(t, writeColumn(cw, col, entries))

	cw, err = rg.NextColumn()
	require.NoError(t, err)
	col = Column{Path: field.New("f"), Type: parquet.Types.Float}
	entries = []Entry{{Value: dag.Float(1.1)}, {Value: dag.Float(-0.5)}}
	require.NoError(t, writeColumn(cw, col, entries))
	require.NoError(t, rg.Close())
	require.NoError(t, fw.Close())

	rdr, err := file.NewParquetReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer rdr.Close()
	require.EqualValues(t, 2, rdr.NumRows())

	cr, err := rdr.RowGroup(0).Column(0)
	require.NoError(t, err)
	ints := make([]int32, 2)
	_, n, err := cr.(*file.Int32ColumnChunkReader).ReadBatch(2, ints, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int32{7, -3}, ints)

	cr, err = rdr.RowGroup(0).Column(1)
	require.NoError(t, err)
	floats := make([]float32, 2)
	_, n, err = cr.(*file.Float32ColumnChunkReader).ReadBatch(2, floats, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []float32{float32(1.1), -0.5}, floats)
}

func TestWriteNarrowBadType(t *testing.T) {
	root := narrowSchema(t, []string{"i"}, []parquet.Type{parquet.Types.Int32})
	fw := file.NewParquetWriter(&bytes.Buffer{}, root)
	cw, err := fw.AppendRowGroup().NextColumn()
	require.NoError(t, err)
	col := Column{Path: field.New("i"), Type: parquet.Types.Int32}
	err = writeColumn(cw, col, []Entry{{Value: dag.Float(1.5)}})
	assert.True(t, pqe.IsKind(err, pqe.BadType), "%v", err)
}

func TestWriteInt96NotImplemented(t *testing.T) {
	root := narrowSchema(t, []string{"t"}, []parquet.Type{parquet.Types.Int96})
	fw := file.NewParquetWriter(&bytes.Buffer{}, root)
	cw, err := fw.AppendRowGroup().NextColumn()
	require.NoError(t, err)
	col := Column{Path: field.New("t"), Type: parquet.Types.Int96}
	err = writeColumn(cw, col, []Entry{{Value: dag.Int(1)}})
	assert.True(t, pqe.IsKind(err, pqe.NotImplemented), "%v", err)
	assert.ErrorContains(t, err, "INT96")
}
