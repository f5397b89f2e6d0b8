package filestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/presensi/core"
)

const fileMode = 0o600

// Store persists the token in a single file; a missing file means no token.
type Store struct {
	path  string
	mutex sync.Mutex
}

var _ core.TokenStore = (*Store)(nil)

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load(context.Context) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "reading token file")
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *Store) Save(_ context.Context, token string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "creating token dir")
	}
	// write then rename so a reader never sees a partial token
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token), fileMode); err != nil {
		return errors.Wrap(err, "writing token file")
	}
	return errors.Wrap(os.Rename(tmp, s.path), "replacing token file")
}

func (s *Store) Clear(context.Context) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing token file")
	}
	return nil
}
