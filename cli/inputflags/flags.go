package inputflags

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/brimdata/car2pq/pkg/storage"
	"github.com/brimdata/car2pq/pkg/units"
	"github.com/brimdata/car2pq/zio/cario"
	"go.uber.org/multierr"
)

type Flags struct {
	maxBlockSize units.Bytes
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	f.maxBlockSize = units.Bytes(cario.DefaultMaxBlockSize)
	fs.Var(&f.maxBlockSize, "car.maxblock", "maximum size of a CAR section, as '8MiB' or '500KB', etc.")
}

// Init is called after flags have been parsed.
func (f *Flags) Init() error {
	if f.maxBlockSize <= 0 {
		return errors.New("-car.maxblock must be positive")
	}
	return nil
}

func (f *Flags) Options() cario.ReaderOpts {
	return cario.ReaderOpts{MaxBlockSize: uint64(f.maxBlockSize)}
}

// Open opens the archive at path, which is a file path, an S3 URI, or "-"
// for standard input.
func (f *Flags) Open(ctx context.Context, engine storage.Engine, path string) (*StatsReader, error) {
	u, err := storage.ParseURI(path)
	if err != nil {
		return nil, err
	}
	r, err := engine.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	sr := &StatsReader{r: r}
	cr, err := cario.NewReader(&countReader{r: r, n: &sr.bytesRead}, f.Options())
	if err != nil {
		r.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	sr.Reader = cr
	return sr, nil
}

// StatsReader is an archive reader that counts the bytes it consumes from
// storage, before any decompression.
type StatsReader struct {
	*cario.Reader
	r         io.Closer
	bytesRead atomic.Int64
}

// BytesRead is safe to call while another goroutine reads.
func (s *StatsReader) BytesRead() int64 {
	return s.bytesRead.Load()
}

func (s *StatsReader) Close() error {
	return multierr.Append(s.Reader.Close(), s.r.Close())
}

type countReader struct {
	r io.Reader
	n *atomic.Int64
}

func (c *countReader) Read(b []byte) (int, error) {
	n, err := c.r.Read(b)
	c.n.Add(int64(n))
	return n, err
}
