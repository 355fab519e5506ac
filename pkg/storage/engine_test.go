package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brimdata/car2pq/pqe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	u, err := ParseURI("s3://bucket/out")
	require.NoError(t, err)
	assert.True(t, u.HasScheme(S3Scheme))
	assert.Equal(t, "s3://bucket/out/schema_0.parquet", u.AppendPath("schema_0.parquet").String())

	u, err = ParseURI("-")
	require.NoError(t, err)
	assert.Equal(t, Stdin, u.String())

	u, err = ParseURI("relative/out")
	require.NoError(t, err)
	assert.True(t, u.HasScheme(FileScheme))
	assert.True(t, filepath.IsAbs(u.Filepath()))

	u, err = ParseURI("")
	require.NoError(t, err)
	assert.True(t, u.IsZero())
}

func TestFilePutGet(t *testing.T) {
	ctx := context.Background()
	engine := NewLocalEngine()
	u := MustParseURI(filepath.Join(t.TempDir(), "sub", "file"))

	ok, err := engine.Exists(ctx, u)
	require.NoError(t, err)
	assert.False(t, ok)
	_, err = engine.Get(ctx, u)
	assert.True(t, pqe.IsKind(err, pqe.NotFound))

	require.NoError(t, Put(ctx, engine, u, strings.NewReader("content")))
	b, err := Get(ctx, engine, u)
	require.NoError(t, err)
	assert.Equal(t, "content", string(b))

	require.NoError(t, engine.Delete(ctx, u))
	ok, err = engine.Exists(ctx, u)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReplaceAbort(t *testing.T) {
	ctx := context.Background()
	engine := NewLocalEngine()
	dir := t.TempDir()
	u := MustParseURI(filepath.Join(dir, "file"))
	fakeErr := errors.New("fake error")
	err := Replace(ctx, engine, u, func(w io.Writer) error {
		_, err := w.Write([]byte("partial"))
		require.NoError(t, err)
		return fakeErr
	})
	require.ErrorIs(t, err, fakeErr)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 0)
}

func TestStdio(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	router := NewRouter()
	router.Enable(StdioScheme, &StdioEngine{stdin: strings.NewReader("in"), stdout: &out})

	b, err := Get(ctx, router, MustParseURI("stdin"))
	require.NoError(t, err)
	assert.Equal(t, "in", string(b))
	require.NoError(t, Put(ctx, router, MustParseURI("stdout"), strings.NewReader("out")))
	assert.Equal(t, "out", out.String())

	_, err = router.Get(ctx, MustParseURI(Stdout))
	assert.Error(t, err)
	_, err = router.Get(ctx, MustParseURI("s3://bucket/key"))
	assert.ErrorContains(t, err, "unsupported storage scheme")
}
