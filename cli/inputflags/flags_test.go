package inputflags

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/brimdata/car2pq/dag"
	"github.com/brimdata/car2pq/pkg/storage"
	"github.com/brimdata/car2pq/zio/cario"
	"github.com/ipfs/go-cid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxBlockFlag(t *testing.T) {
	var f Flags
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	f.SetFlags(fs)
	assert.EqualValues(t, cario.DefaultMaxBlockSize, f.Options().MaxBlockSize)
	require.NoError(t, fs.Parse([]string{"-car.maxblock", "4MiB"}))
	require.NoError(t, f.Init())
	assert.EqualValues(t, 4<<20, f.Options().MaxBlockSize)
	require.NoError(t, fs.Parse([]string{"-car.maxblock", "0"}))
	assert.Error(t, f.Init())
}

func TestOpen(t *testing.T) {
	rec, err := dag.EncodeRecord(dag.NewMap("x", dag.Int(1)))
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "in.car")
	out, err := os.Create(path)
	require.NoError(t, err)
	w, err := cario.NewWriter(out, []cid.Cid{rec.Cid})
	require.NoError(t, err)
	require.NoError(t, w.Write(&cario.Block{Cid: rec.Cid, Data: rec.Raw}))
	require.NoError(t, out.Close())
	info, err := os.Stat(path)
	require.NoError(t, err)

	var f Flags
	f.SetFlags(flag.NewFlagSet("test", flag.ContinueOnError))
	r, err := f.Open(context.Background(), storage.NewLocalEngine(), path)
	require.NoError(t, err)
	blk, err := r.Read()
	require.NoError(t, err)
	assert.Equal(t, rec.Cid, blk.Cid)
	blk, err = r.Read()
	require.NoError(t, err)
	assert.Nil(t, blk)
	assert.Equal(t, info.Size(), r.BytesRead())
	assert.NoError(t, r.Close())
}

func TestOpenMissing(t *testing.T) {
	var f Flags
	f.SetFlags(flag.NewFlagSet("test", flag.ContinueOnError))
	_, err := f.Open(context.Background(), storage.NewLocalEngine(), filepath.Join(t.TempDir(), "nope.car"))
	assert.Error(t, err)
}
