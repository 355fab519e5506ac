package outputflags

import (
	"flag"
	"fmt"

	"github.com/brimdata/car2pq/pkg/storage"
	"github.com/brimdata/car2pq/zio/parquetio"
)

type Flags struct {
	parquetio.WriterOpts
	dir         string
	compression string
}

func (f *Flags) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&f.dir, "o", "out", "directory (or S3 prefix) to receive the parquet files")
	fs.StringVar(&f.compression, "compression", "snappy", "parquet compression codec [uncompressed,snappy,gzip,brotli,zstd]")
}

func (f *Flags) Init() error {
	c, err := parquetio.ParseCompression(f.compression)
	if err != nil {
		return err
	}
	f.Compression = c
	return nil
}

func (f *Flags) Options() parquetio.WriterOpts {
	return f.WriterOpts
}

func (f *Flags) Dir() (*storage.URI, error) {
	u, err := storage.ParseURI(f.dir)
	if err != nil {
		return nil, fmt.Errorf("-o option: %w", err)
	}
	if u.HasScheme(storage.StdioScheme) {
		return nil, fmt.Errorf("-o option: %q is not a directory", f.dir)
	}
	return u, nil
}
