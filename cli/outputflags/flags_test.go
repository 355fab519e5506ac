package outputflags

import (
	"flag"
	"testing"

	"github.com/apache/arrow/go/v11/parquet/compress"
	"github.com/brimdata/car2pq/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) (*Flags, error) {
	t.Helper()
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return &f, f.Init()
}

func TestDefaults(t *testing.T) {
	f, err := parse(t)
	require.NoError(t, err)
	assert.Equal(t, compress.Codecs.Snappy, f.Options().Compression)
	u, err := f.Dir()
	require.NoError(t, err)
	assert.True(t, u.HasScheme(storage.FileScheme))
}

func TestCompression(t *testing.T) {
	f, err := parse(t, "-compression", "ZSTD")
	require.NoError(t, err)
	assert.Equal(t, compress.Codecs.Zstd, f.Options().Compression)
	_, err = parse(t, "-compression", "lzo")
	assert.Error(t, err)
}

func TestDir(t *testing.T) {
	f, err := parse(t, "-o", "s3://bucket/prefix")
	require.NoError(t, err)
	u, err := f.Dir()
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/prefix", u.String())
	f, err = parse(t, "-o", "stdout")
	require.NoError(t, err)
	_, err = f.Dir()
	assert.Error(t, err)
}
