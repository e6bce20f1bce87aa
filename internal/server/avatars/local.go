package avatars

import (
	"context"
	"io"
	"path/filepath"

	"github.com/dmitrijs2005/orgbook/internal/filex"
)

// LocalStore keeps avatars as files in one directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir when missing.
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filex.EnsureSubdDir(dir)
	if err != nil {
		return nil, err
	}
	return &LocalStore{dir: abs}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) Save(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := filex.WriteFile(filepath.Join(s.dir, key), r)
	return err
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return filex.RemoveIfExists(filepath.Join(s.dir, key))
}
