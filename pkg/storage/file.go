package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/mydungeon/pkg/errors"
)

// FileStore writes artifacts into a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorageFailed, err, "resolve %s", dir)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorageFailed, err, "create %s", abs)
	}
	return &FileStore{dir: abs}, nil
}

// Dir returns the absolute output directory.
func (s *FileStore) Dir() string { return s.dir }

// Save writes data to Dir()/name and returns that path.
func (s *FileStore) Save(_ context.Context, name string, data []byte) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStorageFailed, err, "save %s", name)
	}
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr == nil {
		werr = cerr
	}
	if werr == nil {
		werr = os.Rename(tmp.Name(), path)
	}
	if werr != nil {
		os.Remove(tmp.Name())
		return "", errors.Wrap(errors.ErrCodeStorageFailed, werr, "save %s", name)
	}
	return path, nil
}

// Open opens Dir()/name.
func (s *FileStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "artifact %s not found", name)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorageFailed, err, "open %s", name)
	}
	return f, nil
}

func (s *FileStore) Close(context.Context) error { return nil }

var _ Store = (*FileStore)(nil)
