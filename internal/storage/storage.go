package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store persists candidate images and resolves their public URLs.
type Store interface {
	Save(name string, r io.Reader) (string, error)
	Remove(name string) error
}

// LocalStore keeps files on disk under Dir; the router serves them at
// BaseURL + "/uploads/".
type LocalStore struct {
	Dir     string
	BaseURL string
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Save(name string, r io.Reader) (string, error) {
	f, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return s.BaseURL + "/uploads/" + name, nil
}

func (s *LocalStore) Remove(name string) error {
	return os.Remove(filepath.Join(s.Dir, name))
}
