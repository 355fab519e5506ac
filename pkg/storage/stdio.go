package storage

import (
	"context"
	"fmt"
	"io"
	"os"
)

type StdioEngine struct {
	stdin  io.Reader
	stdout io.Writer
}

var _ Engine = (*StdioEngine)(nil)

func NewStdio() *StdioEngine {
	return &StdioEngine{stdin: os.Stdin, stdout: os.Stdout}
}

func (s *StdioEngine) Get(_ context.Context, u *URI) (Reader, error) {
	if u.Path != "/stdin" {
		return nil, fmt.Errorf("%s: cannot read from stdio path %q", u, u.Path)
	}
	return io.NopCloser(s.stdin), nil
}

// Put returns a writer to standard output.  Abort cannot take back what
// was written and only stops further writes.
func (s *StdioEngine) Put(_ context.Context, u *URI) (Writer, error) {
	if u.Path != "/stdout" {
		return nil, fmt.Errorf("%s: cannot write to stdio path %q", u, u.Path)
	}
	return &stdoutWriter{w: s.stdout}, nil
}

func (*StdioEngine) Delete(context.Context, *URI) error {
	return ErrNotSupported
}

func (*StdioEngine) Exists(_ context.Context, u *URI) (bool, error) {
	return u.Path == "/stdin" || u.Path == "/stdout", nil
}

type stdoutWriter struct {
	w       io.Writer
	aborted bool
}

func (s *stdoutWriter) Write(b []byte) (int, error) {
	if s.aborted {
		return 0, io.ErrClosedPipe
	}
	return s.w.Write(b)
}

func (s *stdoutWriter) Abort() {
	s.aborted = true
}

func (*stdoutWriter) Close() error {
	return nil
}
