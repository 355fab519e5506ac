package parquetio

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/apache/arrow/go/v11/parquet"
	"github.com/apache/arrow/go/v11/parquet/compress"
	"github.com/apache/arrow/go/v11/parquet/file"
	"github.com/brimdata/car2pq/pqe"
	"github.com/brimdata/car2pq/shape"
	"go.uber.org/multierr"
)

var ErrSingleBucket = errors.New("parquet writer holds a single bucket")

// Compressions maps the names accepted by ParseCompression to codecs.
var Compressions = map[string]compress.Compression{
	"uncompressed": compress.Codecs.Uncompressed,
	"snappy":       compress.Codecs.Snappy,
	"gzip":         compress.Codecs.Gzip,
	"brotli":       compress.Codecs.Brotli,
	"zstd":         compress.Codecs.Zstd,
}

func ParseCompression(s string) (compress.Compression, error) {
	c, ok := Compressions[strings.ToLower(s)]
	if !ok {
		return 0, pqe.ErrInvalid("unknown parquet compression %q", s)
	}
	return c, nil
}

type WriterOpts struct {
	Compression compress.Compression
}

func DefaultWriterOpts() WriterOpts {
	return WriterOpts{Compression: compress.Codecs.Snappy}
}

// Writer writes one bucket to a parquet file with a single row group.
type Writer struct {
	w    io.WriteCloser
	opts WriterOpts

	fw     *file.Writer
	schema *Schema
	rows   int
}

func NewWriter(w io.WriteCloser, opts WriterOpts) *Writer {
	return &Writer{w: w, opts: opts}
}

// Write declares the schema of b's shape, then resolves and writes every
// column of b's records in schema order.  After an error the output is
// incomplete and should be discarded without calling Close.
func (w *Writer) Write(b *shape.Bucket) error {
	if w.fw != nil {
		return ErrSingleBucket
	}
	sch, err := NewSchema(b.Shape)
	if err != nil {
		return err
	}
	w.schema = sch
	props := parquet.NewWriterProperties(parquet.WithCompression(w.opts.Compression))
	w.fw = file.NewParquetWriter(writerOnly{w.w}, sch.Root, file.WithWriterProps(props))
	rg := w.fw.AppendRowGroup()
	var entries []Entry
	for _, col := range sch.Columns {
		cw, err := rg.NextColumn()
		if err != nil {
			return err
		}
		entries = entries[:0]
		for _, rec := range b.Records {
			entries, err = Resolve(entries, rec, col)
			if err != nil {
				return fmt.Errorf("column %s: record %s: %w", col.Path, rec.Cid, err)
			}
		}
		if err := writeColumn(cw, col, entries); err != nil {
			return fmt.Errorf("column %s: %w", col.Path, err)
		}
	}
	if err := rg.Close(); err != nil {
		return err
	}
	w.rows = b.Len()
	return nil
}

// Schema returns the schema declared by Write or nil.
func (w *Writer) Schema() *Schema {
	return w.schema
}

// Rows returns the number of rows written.
func (w *Writer) Rows() int {
	return w.rows
}

// Close finishes the parquet file and closes the underlying writer.
func (w *Writer) Close() error {
	var err error
	if w.fw != nil {
		err = w.fw.Close()
	}
	return multierr.Append(err, w.w.Close())
}

// writerOnly hides the Close method of the underlying writer from the
// parquet file writer.
type writerOnly struct {
	io.Writer
}
