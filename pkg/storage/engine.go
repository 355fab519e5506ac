package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/multierr"
)

var ErrNotSupported = errors.New("method call on storage engine not supported")

type Reader interface {
	io.Reader
	io.Closer
}

// A Writer is the output of Put.  Close commits the written object.  Abort
// discards it and leaves any previous object at the same URI untouched.
type Writer interface {
	io.WriteCloser
	Abort()
}

type Engine interface {
	Get(context.Context, *URI) (Reader, error)
	Put(context.Context, *URI) (Writer, error)
	Delete(context.Context, *URI) error
	Exists(context.Context, *URI) (bool, error)
}

// Router dispatches to an Engine by URI scheme.
type Router struct {
	engines map[Scheme]Engine
}

var _ Engine = (*Router)(nil)

func NewRouter() *Router {
	return &Router{engines: make(map[Scheme]Engine)}
}

// NewLocalEngine returns a Router for local files, stdio, and S3.
func NewLocalEngine() *Router {
	r := NewRouter()
	r.Enable(FileScheme, NewFileSystem())
	r.Enable(StdioScheme, NewStdio())
	r.Enable(S3Scheme, NewS3())
	return r
}

func (r *Router) Enable(scheme Scheme, engine Engine) {
	r.engines[scheme] = engine
}

func (r *Router) lookup(u *URI) (Engine, error) {
	if engine, ok := r.engines[Scheme(u.Scheme)]; ok {
		return engine, nil
	}
	return nil, fmt.Errorf("%s: unsupported storage scheme %q", u, u.Scheme)
}

func (r *Router) Get(ctx context.Context, u *URI) (Reader, error) {
	engine, err := r.lookup(u)
	if err != nil {
		return nil, err
	}
	return engine.Get(ctx, u)
}

func (r *Router) Put(ctx context.Context, u *URI) (Writer, error) {
	engine, err := r.lookup(u)
	if err != nil {
		return nil, err
	}
	return engine.Put(ctx, u)
}

func (r *Router) Delete(ctx context.Context, u *URI) error {
	engine, err := r.lookup(u)
	if err != nil {
		return err
	}
	return engine.Delete(ctx, u)
}

func (r *Router) Exists(ctx context.Context, u *URI) (bool, error) {
	engine, err := r.lookup(u)
	if err != nil {
		return false, err
	}
	return engine.Exists(ctx, u)
}

// Put writes the content of r to u.  The object appears only if the whole
// content was written.
func Put(ctx context.Context, engine Engine, u *URI, r io.Reader) error {
	return Replace(ctx, engine, u, func(w io.Writer) error {
		_, err := io.Copy(w, r)
		return err
	})
}

// Replace calls fn with a writer for u and commits the object if fn
// succeeds.  Otherwise the object is discarded and fn's error returned.
func Replace(ctx context.Context, engine Engine, u *URI, fn func(io.Writer) error) error {
	w, err := engine.Put(ctx, u)
	if err != nil {
		return err
	}
	if err := fn(w); err != nil {
		w.Abort()
		return err
	}
	return w.Close()
}

func Get(ctx context.Context, engine Engine, u *URI) ([]byte, error) {
	r, err := engine.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	b, err := io.ReadAll(r)
	return b, multierr.Append(err, r.Close())
}
