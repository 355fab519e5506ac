package storage

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/brimdata/car2pq/pkg/s3io"
	"github.com/brimdata/car2pq/pqe"
)

// S3Engine stores objects in S3.  The client is created on first use so
// that configurations without AWS credentials can still use other
// engines.
type S3Engine struct {
	once   sync.Once
	client s3iface.S3API
}

var _ Engine = (*S3Engine)(nil)

func NewS3() *S3Engine {
	return &S3Engine{}
}

func NewS3WithClient(client s3iface.S3API) *S3Engine {
	s := &S3Engine{client: client}
	s.once.Do(func() {})
	return s
}

func (s *S3Engine) getClient() s3iface.S3API {
	s.once.Do(func() {
		s.client = s3io.NewClient(nil)
	})
	return s.client
}

func (s *S3Engine) Get(ctx context.Context, u *URI) (Reader, error) {
	r, err := s3io.NewReader(ctx, u.String(), s.getClient())
	if err != nil {
		return nil, wrapErr(u, err)
	}
	return r, nil
}

func (s *S3Engine) Put(ctx context.Context, u *URI) (Writer, error) {
	w, err := s3io.NewWriter(ctx, u.String(), s.getClient())
	if err != nil {
		return nil, wrapErr(u, err)
	}
	return w, nil
}

func (s *S3Engine) Delete(ctx context.Context, u *URI) error {
	return wrapErr(u, s3io.Remove(ctx, u.String(), s.getClient()))
}

func (s *S3Engine) Exists(ctx context.Context, u *URI) (bool, error) {
	ok, err := s3io.Exists(ctx, u.String(), s.getClient())
	return ok, wrapErr(u, err)
}

func wrapErr(u *URI, err error) error {
	var reqerr awserr.RequestFailure
	if errors.As(err, &reqerr) && reqerr.StatusCode() == http.StatusNotFound {
		return pqe.ErrNotFound(u.String())
	}
	return err
}
