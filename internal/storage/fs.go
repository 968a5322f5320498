package storage

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/ficor/internal/apperr"
	"github.com/starford/ficor/internal/codec"
	"github.com/starford/ficor/internal/store"
)

// DefaultPath is the store file used when none is configured.
const DefaultPath = ".ficor"

// File implements Provider backed by one file on the local file system.
type File struct {
	path string
}

// NewFile returns a provider for the store file at path.
func NewFile(path string) *File {
	if path == "" {
		path = DefaultPath
	}
	return &File{path: path}
}

// Path returns the store file location.
func (f *File) Path() string {
	return f.path
}

// Init writes an empty store, overwriting whatever was there.
func (f *File) Init() error {
	return f.write(codec.EmptyStore())
}

// Load reads the store file. A missing file is reported as an error that
// matches both apperr.ErrIO and os.ErrNotExist.
func (f *File) Load() (*store.Store, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: could not open file %q: %w", apperr.ErrIO, f.path, err)
	}
	defer fh.Close()

	recs, err := codec.Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("storage: load %s: %w", f.path, err)
	}
	s, err := store.New(recs...)
	if err != nil {
		return nil, fmt.Errorf("%w: storage: load %s: %w", apperr.ErrFormat, f.path, err)
	}
	return s, nil
}

// Save encodes s in memory first, so an encoding failure never touches
// the existing file.
func (f *File) Save(s *store.Store) error {
	var buf bytes.Buffer
	if err := codec.Encode(&buf, s.Records()); err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}
	return f.write(buf.Bytes())
}

// write atomically replaces the file: tmp file → fsync → rename.
func (f *File) write(content []byte) error {
	dir := filepath.Dir(f.path)

	tmp, err := os.CreateTemp(dir, ".ficor-tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp in %s: %w", apperr.ErrIO, dir, err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(f.mode()); err != nil {
		return fmt.Errorf("%w: chmod temp: %w", apperr.ErrIO, err)
	}
	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("%w: write temp: %w", apperr.ErrIO, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("%w: fsync: %w", apperr.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp: %w", apperr.ErrIO, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("%w: replace %s: %w", apperr.ErrIO, f.path, err)
	}
	success = true
	return nil
}

// mode keeps the permissions of an existing store file.
func (f *File) mode() os.FileMode {
	if info, err := os.Stat(f.path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}

// IsNotExist reports whether err means the store file has not been
// initialized.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
