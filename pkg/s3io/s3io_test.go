package s3io

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath(t *testing.T) {
	bucket, key, err := parsePath("s3://bucket/dir/schema_0.parquet")
	require.NoError(t, err)
	assert.Equal(t, "bucket", bucket)
	assert.Equal(t, "dir/schema_0.parquet", key)
	_, _, err = parsePath("http://localhost/upload")
	assert.ErrorIs(t, err, ErrInvalidS3Path)
}

func TestWriteInvalidPath(t *testing.T) {
	_, err := NewWriter(context.Background(), "http://localhost/upload", nil)
	require.Equal(t, ErrInvalidS3Path, err)
}

func newTestWriter(t *testing.T, up mockUploader) *Writer {
	w, err := NewWriter(context.Background(), "s3://localhost/upload", nil)
	require.NoError(t, err)
	w.uploader = up
	return w
}

func TestWriteSimple(t *testing.T) {
	results := bytes.NewBuffer(nil)
	expected := []byte("some test data")
	w := newTestWriter(t, func(in *s3manager.UploadInput) (*s3manager.UploadOutput, error) {
		assert.Equal(t, "upload", aws.StringValue(in.Key))
		_, err := io.Copy(results, in.Body)
		return &s3manager.UploadOutput{}, err
	})
	_, err := w.Write(expected)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.Equal(t, expected, results.Bytes())
}

func TestWriteImmediateError(t *testing.T) {
	expected := errors.New("expected error")
	w := newTestWriter(t, func(in *s3manager.UploadInput) (*s3manager.UploadOutput, error) {
		return &s3manager.UploadOutput{}, expected
	})
	_, err := w.Write([]byte("test data"))
	assert.Equal(t, expected, err)
	assert.Equal(t, expected, w.Close())
}

func TestWriteAbort(t *testing.T) {
	w := newTestWriter(t, func(in *s3manager.UploadInput) (*s3manager.UploadOutput, error) {
		_, err := io.Copy(io.Discard, in.Body)
		return nil, err
	})
	_, err := w.Write([]byte("partial"))
	require.NoError(t, err)
	w.Abort()
	assert.ErrorIs(t, w.err, ErrAborted)
}

type mockUploader func(*s3manager.UploadInput) (*s3manager.UploadOutput, error)

func (m mockUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return m(in)
}
