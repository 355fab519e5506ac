package convert

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/brimdata/car2pq/cli/inputflags"
	"github.com/brimdata/car2pq/cli/outputflags"
	"github.com/brimdata/car2pq/cmd/car2pq/root"
	"github.com/brimdata/car2pq/convert"
	"github.com/brimdata/car2pq/pkg/charm"
	"github.com/brimdata/car2pq/pkg/display"
	"github.com/brimdata/car2pq/pkg/storage"
	"github.com/brimdata/car2pq/pkg/units"
	"github.com/paulbellamy/ratecounter"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/term"
)

var Cmd = &charm.Spec{
	Name:  "convert",
	Usage: "convert [options] file|S3-object|-",
	Short: "convert a CAR archive to parquet files",
	Long: `
The convert command reads a CAR archive of DAG-CBOR blocks and writes one
parquet file for each distinct shape of the blocks' data.  The archive may
be compressed with gzip, zstd, or lz4.

The files are written to the directory given by -o (default "out") and are
named schema_<i>.parquet, where i ranks the shape by the number of blocks
having it.  Each file holds a single row group.  A file appears only once it
is completely written.  Any error stops the conversion.

The -rawbytes flag adds a rawbytes column holding each block's encoded
bytes.  The -manifest flag writes manifest.yaml next to the parquet files
listing each file's shape, row count, and columns.  The -metrics flag dumps
conversion counters in the Prometheus text format to the given file.`,
	New: New,
}

type Command struct {
	*root.Command
	inputFlags  inputflags.Flags
	outputFlags outputflags.Flags
	rawbytes    bool
	manifest    bool
	metrics     string
	quiet       bool

	// status output
	ctx       context.Context
	input     *inputflags.StatsReader
	conv      *convert.Converter
	rate      *ratecounter.RateCounter
	totalRead int64
}

func New(parent charm.Command, f *flag.FlagSet) (charm.Command, error) {
	c := &Command{Command: parent.(*root.Command)}
	c.inputFlags.SetFlags(f)
	c.outputFlags.SetFlags(f)
	f.BoolVar(&c.rawbytes, "rawbytes", false, "add a rawbytes column holding each block's encoded bytes")
	f.BoolVar(&c.manifest, "manifest", false, "write manifest.yaml to the output directory")
	f.StringVar(&c.metrics, "metrics", "", "write conversion metrics in Prometheus text format to this file")
	f.BoolVar(&c.quiet, "q", false, "don't display progress or the summary")
	return c, nil
}

func (c *Command) Run(args []string) error {
	ctx, cleanup, err := c.Init(&c.inputFlags, &c.outputFlags)
	if err != nil {
		return err
	}
	defer cleanup()
	if len(args) != 1 {
		return errors.New("car2pq convert: a single archive must be specified (- for stdin)")
	}
	dir, err := c.outputFlags.Dir()
	if err != nil {
		return err
	}
	engine := storage.NewLocalEngine()
	c.input, err = c.inputFlags.Open(ctx, engine, args[0])
	if err != nil {
		return err
	}
	defer c.input.Close()
	reg := prometheus.NewRegistry()
	c.conv = convert.New(engine, c.Logger, reg, convert.Config{
		Output:     dir,
		WriterOpts: c.outputFlags.Options(),
		Rawbytes:   c.rawbytes,
		Manifest:   c.manifest,
	})
	var d *display.Display
	if !c.quiet && term.IsTerminal(int(os.Stderr.Fd())) {
		c.ctx = ctx
		c.rate = ratecounter.NewRateCounter(time.Second)
		d = display.New(c, time.Second/2, os.Stderr)
		go d.Run()
	}
	files, err := c.conv.Run(ctx, c.input.Reader)
	if d != nil {
		d.Close()
	}
	if err != nil {
		return err
	}
	if c.metrics != "" {
		if err := c.writeMetrics(ctx, engine, reg); err != nil {
			return err
		}
	}
	if !c.quiet {
		var rows int
		for _, f := range files {
			rows += f.Rows
		}
		fmt.Printf("%d rows written to %d files in %s\n", rows, len(files), dir)
	}
	return nil
}

func (c *Command) writeMetrics(ctx context.Context, engine storage.Engine, g prometheus.Gatherer) error {
	u, err := storage.ParseURI(c.metrics)
	if err != nil {
		return fmt.Errorf("-metrics option: %w", err)
	}
	return storage.Replace(ctx, engine, u, func(w io.Writer) error {
		return convert.WriteMetrics(w, g)
	})
}

// 1.2MB 300.0KB/s 1024 blocks 3 shapes
// 1.2MB 1024 blocks 3 shapes 2/3 files

func (c *Command) Display(w io.Writer) bool {
	stats := c.conv.Stats()
	readBytes := units.Bytes(c.input.BytesRead())
	shapes := stats.Shapes.Load()
	if stats.Writing.Load() {
		fmt.Fprintf(w, "%s %d blocks %d shapes %d/%d files\n", readBytes.Abbrev(), stats.Blocks.Load(), shapes, stats.Files.Load(), shapes)
	} else {
		rate := c.incrRate(readBytes)
		fmt.Fprintf(w, "%s %s/s %d blocks %d shapes\n", readBytes.Abbrev(), rate.Abbrev(), stats.Blocks.Load(), shapes)
	}
	return c.ctx.Err() == nil
}

func (c *Command) incrRate(readBytes units.Bytes) units.Bytes {
	c.rate.Incr(int64(readBytes) - c.totalRead)
	c.totalRead = int64(readBytes)
	return units.Bytes(c.rate.Rate())
}
