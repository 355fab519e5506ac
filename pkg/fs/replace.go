package fs

import (
	"errors"
	"os"
	"path/filepath"
)

var ErrAborted = errors.New("replacer aborted")

// Replacer is an io.WriteCloser that atomically replaces the content of a
// file.  It writes to a temporary file in the target's directory.  Close
// renames the temporary file over the target unless a write failed, and
// Abort removes it and leaves the target as it was.  Either Close or Abort
// must be called.  Calls after the first have no effect.
type Replacer struct {
	f        *os.File
	err      error
	filename string
	perm     os.FileMode
	done     bool
}

func NewFileReplacer(filename string, perm os.FileMode) (*Replacer, error) {
	filename, err := filepath.Abs(filename)
	if err != nil {
		return nil, err
	}
	f, err := os.CreateTemp(filepath.Dir(filename), ".tmp-"+filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	return &Replacer{
		f:        f,
		filename: filename,
		perm:     perm,
	}, nil
}

func (r *Replacer) Write(b []byte) (int, error) {
	if r.done {
		return 0, os.ErrClosed
	}
	n, err := r.f.Write(b)
	if err != nil && r.err == nil {
		r.err = err
	}
	return n, err
}

func (r *Replacer) Abort() {
	if r.err == nil {
		r.err = ErrAborted
	}
	_ = r.close()
}

func (r *Replacer) Close() error {
	return r.close()
}

func (r *Replacer) close() (err error) {
	if r.done {
		return nil
	}
	r.done = true
	defer func() {
		if err != nil {
			os.Remove(r.f.Name())
		}
	}()
	if err := r.f.Close(); err != nil {
		return err
	}
	if r.err != nil {
		return r.err
	}
	if err := os.Chmod(r.f.Name(), r.perm); err != nil {
		return err
	}
	return os.Rename(r.f.Name(), r.filename)
}
