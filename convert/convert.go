// Package convert turns a CAR archive of DAG-CBOR blocks into one parquet
// file per distinct record shape.
//
// A conversion is a single pass over the archive.  Every block is decoded
// and grouped by shape in memory, then each group is written to
// schema_<i>.parquet under the output location, where i is the group's
// rank by population.  Any error aborts the run.  A parquet file is either
// fully written or not written at all.
package convert

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/brimdata/car2pq/dag"
	"github.com/brimdata/car2pq/pkg/storage"
	"github.com/brimdata/car2pq/shape"
	"github.com/brimdata/car2pq/zio/cario"
	"github.com/brimdata/car2pq/zio/parquetio"
	"github.com/pbnjay/memory"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const ManifestName = "manifest.yaml"

// FileName returns the name of the parquet file for the bucket of rank i.
func FileName(i int) string {
	return fmt.Sprintf("schema_%d.parquet", i)
}

type Config struct {
	// Output is the directory receiving the parquet files.
	Output     *storage.URI
	WriterOpts parquetio.WriterOpts
	// Rawbytes adds the raw block bytes as a rawbytes column.
	Rawbytes bool
	// Manifest writes a manifest.yaml describing the files written.
	Manifest bool
}

// Stats counts the progress of a running conversion.  It is safe to read
// while Run is in progress.
type Stats struct {
	Blocks  atomic.Int64
	Bytes   atomic.Int64
	Shapes  atomic.Int64
	Files   atomic.Int64
	Rows    atomic.Int64
	Writing atomic.Bool
}

type Converter struct {
	engine  storage.Engine
	logger  *zap.Logger
	conf    Config
	metrics *metrics
	stats   Stats
	// totalMemory is consulted for the memory warning.
	totalMemory func() uint64
}

// New returns a Converter writing through engine.  Metrics are registered
// with reg, which may be nil.
func New(engine storage.Engine, logger *zap.Logger, reg prometheus.Registerer, conf Config) *Converter {
	return &Converter{
		engine:      engine,
		logger:      logger,
		conf:        conf,
		metrics:     newMetrics(reg),
		totalMemory: memory.TotalMemory,
	}
}

func (c *Converter) Stats() *Stats {
	return &c.stats
}

// Run converts the archive read from r and returns a description of each
// file written, in the order written.
func (c *Converter) Run(ctx context.Context, r *cario.Reader) ([]File, error) {
	g, err := c.group(ctx, r)
	if err != nil {
		return nil, err
	}
	buckets := g.Buckets()
	c.logger.Info("Records grouped",
		zap.Int("blocks", g.Len()),
		zap.Int("shapes", len(buckets)))
	c.stats.Writing.Store(true)
	files := make([]File, 0, len(buckets))
	for i, b := range buckets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := c.writeBucket(ctx, FileName(i), b)
		if err != nil {
			c.logger.Error("Parquet file not written",
				zap.String("file", FileName(i)),
				zap.Stringer("shape", b.Shape),
				zap.Int("rows", b.Len()),
				zap.Error(err))
			return nil, fmt.Errorf("%s: %w", FileName(i), err)
		}
		files = append(files, f)
	}
	if c.conf.Manifest {
		if err := c.writeManifest(ctx, files); err != nil {
			return nil, err
		}
	}
	return files, nil
}

func (c *Converter) group(ctx context.Context, r *cario.Reader) (*shape.Grouper, error) {
	g := shape.NewGrouper(shape.NewContext(), c.conf.Rawbytes)
	var warned bool
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		blk, err := r.Read()
		if err != nil {
			return nil, err
		}
		if blk == nil {
			return g, nil
		}
		rec, err := dag.NewRecord(blk.Cid, blk.Data)
		if err != nil {
			return nil, err
		}
		if g.Add(rec).Len() == 1 {
			// First record of a new shape.
			c.stats.Shapes.Add(1)
			c.metrics.shapes.Inc()
		}
		c.stats.Blocks.Add(1)
		total := c.stats.Bytes.Add(int64(len(blk.Data)))
		c.metrics.blocks.Inc()
		c.metrics.bytes.Add(float64(len(blk.Data)))
		if !warned && c.overMemory(total) {
			warned = true
			c.logger.Warn("Archive content exceeds half of physical memory",
				zap.Int64("bytes", total),
				zap.Uint64("memory", c.totalMemory()))
		}
	}
}

func (c *Converter) overMemory(n int64) bool {
	total := c.totalMemory()
	return total > 0 && uint64(n) > total/2
}

func (c *Converter) writeBucket(ctx context.Context, name string, b *shape.Bucket) (File, error) {
	u := c.conf.Output.AppendPath(name)
	var sch *parquetio.Schema
	err := storage.Replace(ctx, c.engine, u, func(w io.Writer) error {
		pw := parquetio.NewWriter(nopCloser{w}, c.conf.WriterOpts)
		if err := pw.Write(b); err != nil {
			return err
		}
		sch = pw.Schema()
		return pw.Close()
	})
	if err != nil {
		return File{}, err
	}
	f := newFile(name, b, sch)
	c.stats.Files.Add(1)
	c.stats.Rows.Add(int64(f.Rows))
	c.metrics.files.Inc()
	c.metrics.rows.Add(float64(f.Rows))
	c.logger.Info("Parquet file written",
		zap.String("file", u.String()),
		zap.Stringer("shape", b.Shape),
		zap.Int("rows", f.Rows),
		zap.Int("columns", len(f.Columns)))
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
