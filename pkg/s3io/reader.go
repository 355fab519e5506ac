package s3io

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Reader reads an S3 object with ranged GETs.  It implements io.Seeker so
// that readers needing random access, like parquet's, can use it.
type Reader struct {
	ctx        context.Context
	downloader *s3manager.Downloader
	bucket     string
	key        string
	size       int64
	offset     int64
}

func NewReader(ctx context.Context, path string, client s3iface.S3API) (*Reader, error) {
	info, err := Stat(ctx, path, client)
	if err != nil {
		return nil, err
	}
	bucket, key, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	return &Reader{
		ctx:        ctx,
		downloader: s3manager.NewDownloaderWithClient(client),
		bucket:     bucket,
		key:        key,
		size:       aws.Int64Value(info.ContentLength),
	}, nil
}

func (r *Reader) Size() (int64, error) {
	return r.size, nil
}

func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += r.offset
	case io.SeekEnd:
		offset += r.size
	default:
		return 0, errors.New("s3io.Reader.Seek: invalid whence")
	}
	if offset < 0 {
		return 0, errors.New("s3io.Reader.Seek: negative position")
	}
	r.offset = offset
	return offset, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.ReadAt(p, r.offset)
	r.offset += int64(n)
	return n, err
}

func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	if off >= r.size {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}
	end := off + int64(len(p))
	if end > r.size {
		end = r.size
	}
	in := &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", off, end-1)),
	}
	buf := aws.NewWriteAtBuffer(p[:0])
	n, err := r.downloader.DownloadWithContext(r.ctx, buf, in)
	if err != nil {
		return 0, err
	}
	copy(p, buf.Bytes())
	if end == r.size && int(n) < len(p) {
		return int(n), io.EOF
	}
	return int(n), nil
}

func (r *Reader) Close() error {
	return nil
}
