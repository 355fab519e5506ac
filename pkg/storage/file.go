package storage

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/brimdata/car2pq/pkg/fs"
	"github.com/brimdata/car2pq/pqe"
)

type FileSystem struct {
	perm os.FileMode

	mu     sync.Mutex
	exists map[string]struct{}
}

var _ Engine = (*FileSystem)(nil)

func NewFileSystem() *FileSystem {
	return &FileSystem{
		perm:   0666,
		exists: make(map[string]struct{}),
	}
}

func (f *FileSystem) Get(_ context.Context, u *URI) (Reader, error) {
	r, err := os.Open(u.Filepath())
	if err != nil {
		return nil, wrapfileError(u, err)
	}
	return r, nil
}

// Put writes to a temporary file in the target directory that replaces
// the target on Close.
func (f *FileSystem) Put(_ context.Context, u *URI) (Writer, error) {
	path := u.Filepath()
	if err := f.checkPath(path); err != nil {
		return nil, wrapfileError(u, err)
	}
	w, err := fs.NewFileReplacer(path, f.perm)
	if err != nil {
		return nil, wrapfileError(u, err)
	}
	return w, nil
}

func (f *FileSystem) Delete(_ context.Context, u *URI) error {
	return wrapfileError(u, os.Remove(u.Filepath()))
}

func (f *FileSystem) Exists(_ context.Context, u *URI) (bool, error) {
	_, err := os.Stat(u.Filepath())
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, wrapfileError(u, err)
	}
	return true, nil
}

func (f *FileSystem) checkPath(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.exists[dir]; ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f.exists[dir] = struct{}{}
	return nil
}

func wrapfileError(uri *URI, err error) error {
	if os.IsNotExist(err) {
		return pqe.ErrNotFound(uri.String())
	}
	return err
}
