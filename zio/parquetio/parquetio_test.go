package parquetio_test

import (
	"bytes"
	"testing"

	"github.com/apache/arrow/go/v11/parquet"
	"github.com/apache/arrow/go/v11/parquet/compress"
	"github.com/apache/arrow/go/v11/parquet/file"
	"github.com/brimdata/car2pq/dag"
	"github.com/brimdata/car2pq/pqe"
	"github.com/brimdata/car2pq/shape"
	"github.com/brimdata/car2pq/zio/parquetio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type buffer struct {
	bytes.Buffer
}

func (*buffer) Close() error { return nil }

func records(t *testing.T, vals ...dag.Value) []dag.Record {
	t.Helper()
	var recs []dag.Record
	for _, val := range vals {
		rec, err := dag.EncodeRecord(val)
		require.NoError(t, err)
		recs = append(recs, rec)
	}
	return recs
}

// bucket returns a single bucket holding recs under the shape of the first
// record.
func bucket(recs []dag.Record) *shape.Bucket {
	zctx := shape.NewContext()
	s := zctx.Record(zctx.Infer(recs[0].Value), false)
	return &shape.Bucket{Shape: s, Records: recs}
}

func write(t *testing.T, b *shape.Bucket, opts parquetio.WriterOpts) []byte {
	t.Helper()
	var buf buffer
	w := parquetio.NewWriter(&buf, opts)
	require.NoError(t, w.Write(b))
	require.NoError(t, w.Close())
	assert.Equal(t, b.Len(), w.Rows())
	return buf.Bytes()
}

func open(t *testing.T, b []byte) *file.Reader {
	t.Helper()
	rdr, err := file.NewParquetReader(bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { rdr.Close() })
	return rdr
}

type batchReader[T any] interface {
	ReadBatch(int64, []T, []int16, []int16) (int64, int, error)
}

func readColumn[T any](t *testing.T, rdr *file.Reader, i int) ([]T, []int16, []int16) {
	t.Helper()
	cr, err := rdr.RowGroup(0).Column(i)
	require.NoError(t, err)
	r, ok := cr.(batchReader[T])
	require.True(t, ok, "column %d has reader %T", i, cr)
	const n = 1024
	vals := make([]T, n)
	def := make([]int16, n)
	rep := make([]int16, n)
	total, read, err := r.ReadBatch(n, vals, def, rep)
	require.NoError(t, err)
	return vals[:read], def[:total], rep[:total]
}

func TestWriteSameShape(t *testing.T) {
	recs := records(t,
		dag.NewMap("x", dag.Int(1), "y", dag.String("a")),
		dag.NewMap("y", dag.String("b"), "x", dag.Int(2)),
	)
	buckets := shape.Group(shape.NewContext(), recs, false)
	require.Len(t, buckets, 1)
	rdr := open(t, write(t, buckets[0], parquetio.DefaultWriterOpts()))

	assert.EqualValues(t, 2, rdr.NumRows())
	require.Equal(t, 1, rdr.NumRowGroups())
	sch := rdr.MetaData().Schema
	require.Equal(t, 3, sch.NumColumns())
	assert.Equal(t, "cid", sch.Column(0).Path())
	assert.Equal(t, "data.x", sch.Column(1).Path())
	assert.Equal(t, "data.y", sch.Column(2).Path())

	cids, _, _ := readColumn[parquet.ByteArray](t, rdr, 0)
	assert.Equal(t, []parquet.ByteArray{recs[0].Cid.Bytes(), recs[1].Cid.Bytes()}, cids)
	xs, _, _ := readColumn[int64](t, rdr, 1)
	assert.Equal(t, []int64{1, 2}, xs)
	ys, _, _ := readColumn[parquet.ByteArray](t, rdr, 2)
	assert.Equal(t, []parquet.ByteArray{parquet.ByteArray("a"), parquet.ByteArray("b")}, ys)
}

func TestWriteScalarTypes(t *testing.T) {
	recs := records(t,
		dag.NewMap("b", dag.Bool(true), "f", dag.Float(1.5), "n", dag.Null{}, "raw", dag.Bytes{1, 2}),
		dag.NewMap("b", dag.Bool(false), "f", dag.Float(-2), "n", dag.Null{}, "raw", dag.Bytes{}),
	)
	rdr := open(t, write(t, bucket(recs), parquetio.DefaultWriterOpts()))
	bs, _, _ := readColumn[bool](t, rdr, 1)
	assert.Equal(t, []bool{true, false}, bs)
	fs, _, _ := readColumn[float64](t, rdr, 2)
	assert.Equal(t, []float64{1.5, -2}, fs)
	ns, _, _ := readColumn[bool](t, rdr, 3)
	assert.Equal(t, []bool{false, false}, ns)
	raw, _, _ := readColumn[parquet.ByteArray](t, rdr, 4)
	require.Len(t, raw, 2)
	assert.Equal(t, []byte{1, 2}, []byte(raw[0]))
	assert.Len(t, raw[1], 0)
}

func TestWriteList(t *testing.T) {
	recs := records(t,
		dag.NewMap("l", dag.List{dag.Int(1), dag.Int(2), dag.Int(3)}),
		dag.NewMap("l", dag.List{dag.Int(4)}),
	)
	rdr := open(t, write(t, bucket(recs), parquetio.DefaultWriterOpts()))
	assert.EqualValues(t, 2, rdr.NumRows())
	col := rdr.MetaData().Schema.Column(1)
	assert.Equal(t, "data.l", col.Path())
	assert.EqualValues(t, 1, col.MaxRepetitionLevel())
	vals, def, rep := readColumn[int64](t, rdr, 1)
	assert.Equal(t, []int64{1, 2, 3, 4}, vals)
	assert.Equal(t, []int16{1, 1, 1, 1}, def)
	assert.Equal(t, []int16{0, 1, 1, 0}, rep)
}

func TestWriteEmptyList(t *testing.T) {
	recs := records(t,
		dag.NewMap("l", dag.List{}),
		dag.NewMap("l", dag.List{}),
	)
	rdr := open(t, write(t, bucket(recs), parquetio.DefaultWriterOpts()))
	assert.EqualValues(t, 2, rdr.NumRows())
	vals, def, rep := readColumn[bool](t, rdr, 1)
	assert.Len(t, vals, 0)
	assert.Equal(t, []int16{0, 0}, def)
	assert.Equal(t, []int16{0, 0}, rep)
}

func TestWriteListOfMaps(t *testing.T) {
	recs := records(t,
		dag.NewMap("l", dag.List{dag.NewMap("a", dag.Int(1), "b", dag.String("x")), dag.NewMap("a", dag.Int(2), "b", dag.String("y"))}),
		dag.NewMap("l", dag.List{dag.NewMap("a", dag.Int(3), "b", dag.String("z"))}),
	)
	rdr := open(t, write(t, bucket(recs), parquetio.DefaultWriterOpts()))
	sch := rdr.MetaData().Schema
	assert.Equal(t, "data.l.a", sch.Column(1).Path())
	assert.Equal(t, "data.l.b", sch.Column(2).Path())
	as, _, rep := readColumn[int64](t, rdr, 1)
	assert.Equal(t, []int64{1, 2, 3}, as)
	assert.Equal(t, []int16{0, 1, 0}, rep)
	bs, _, rep := readColumn[parquet.ByteArray](t, rdr, 2)
	assert.Equal(t, []parquet.ByteArray{parquet.ByteArray("x"), parquet.ByteArray("y"), parquet.ByteArray("z")}, bs)
	assert.Equal(t, []int16{0, 1, 0}, rep)
}

func TestWriteBadType(t *testing.T) {
	good := records(t, dag.NewMap("x", dag.Int(1)))
	bad := records(t, dag.NewMap("x", dag.String("one")))
	b := bucket(good)
	b.Records = append(b.Records, bad...)
	w := parquetio.NewWriter(&buffer{}, parquetio.DefaultWriterOpts())
	err := w.Write(b)
	require.Error(t, err)
	assert.True(t, pqe.IsKind(err, pqe.BadType))
	assert.Contains(t, err.Error(), `"one", expected integer`)
}

// Lists are shaped by their first element, so a list with elements of
// mixed types groups with uniform lists and fails when written.
func TestWriteMixedList(t *testing.T) {
	recs := records(t, dag.NewMap("l", dag.List{dag.Int(1), dag.String("a")}))
	buckets := shape.Group(shape.NewContext(), recs, false)
	require.Len(t, buckets, 1)
	err := parquetio.NewWriter(&buffer{}, parquetio.DefaultWriterOpts()).Write(buckets[0])
	assert.True(t, pqe.IsKind(err, pqe.BadType))
}

func TestWriteNestedList(t *testing.T) {
	recs := records(t, dag.NewMap("l", dag.List{dag.List{dag.Int(1)}}))
	err := parquetio.NewWriter(&buffer{}, parquetio.DefaultWriterOpts()).Write(bucket(recs))
	assert.ErrorIs(t, err, parquetio.ErrNestedList)
	assert.True(t, pqe.IsKind(err, pqe.NotImplemented))
}

func TestWriteSingleBucket(t *testing.T) {
	recs := records(t, dag.Int(1))
	w := parquetio.NewWriter(&buffer{}, parquetio.DefaultWriterOpts())
	require.NoError(t, w.Write(bucket(recs)))
	assert.ErrorIs(t, w.Write(bucket(recs)), parquetio.ErrSingleBucket)
}

func TestWriteRawBytes(t *testing.T) {
	recs := records(t, dag.NewMap("x", dag.Int(1)))
	zctx := shape.NewContext()
	b := &shape.Bucket{
		Shape:   zctx.Record(zctx.Infer(recs[0].Value), true),
		Records: recs,
	}
	rdr := open(t, write(t, b, parquetio.DefaultWriterOpts()))
	sch := rdr.MetaData().Schema
	require.Equal(t, 3, sch.NumColumns())
	assert.Equal(t, "rawbytes", sch.Column(2).Path())
	raw, _, _ := readColumn[parquet.ByteArray](t, rdr, 2)
	assert.Equal(t, []parquet.ByteArray{recs[0].Raw}, raw)
}

func TestWriteCompression(t *testing.T) {
	recs := records(t, dag.NewMap("s", dag.String("compressed")))
	for name := range parquetio.Compressions {
		t.Run(name, func(t *testing.T) {
			c, err := parquetio.ParseCompression(name)
			require.NoError(t, err)
			rdr := open(t, write(t, bucket(recs), parquetio.WriterOpts{Compression: c}))
			vals, _, _ := readColumn[parquet.ByteArray](t, rdr, 1)
			assert.Equal(t, []parquet.ByteArray{parquet.ByteArray("compressed")}, vals)
		})
	}
}

func TestParseCompression(t *testing.T) {
	c, err := parquetio.ParseCompression("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, compress.Codecs.Zstd, c)
	_, err = parquetio.ParseCompression("lzo")
	assert.True(t, pqe.IsKind(err, pqe.Invalid))
}

func TestReader(t *testing.T) {
	recs := records(t,
		dag.NewMap("x", dag.Int(1), "y", dag.String("a")),
		dag.NewMap("x", dag.Int(2), "y", dag.String("b")),
	)
	b := write(t, bucket(recs), parquetio.DefaultWriterOpts())
	r, err := parquetio.NewReader(bytes.NewReader(b))
	require.NoError(t, err)
	assert.EqualValues(t, 2, r.NumRows())
	assert.Contains(t, r.Schema(), "message schema")
	for _, rec := range recs {
		row, err := r.Read()
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, rec.Cid.Bytes(), row["cid"])
		data, ok := row["data"].(map[string]interface{})
		require.True(t, ok)
		x, _ := rec.Value.(dag.Map).Get("x")
		assert.Equal(t, int64(x.(dag.Int)), data["x"])
	}
	row, err := r.Read()
	require.NoError(t, err)
	assert.Nil(t, row)
}
