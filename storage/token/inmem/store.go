package inmemstore

import (
	"context"
	"sync"

	"github.com/trezcool/presensi/core"
)

// Store keeps the token for the lifetime of the process.
type Store struct {
	mutex sync.RWMutex
	token string
}

var _ core.TokenStore = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Load(context.Context) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.token, nil
}

func (s *Store) Save(_ context.Context, token string) error {
	s.mutex.Lock()
	s.token = token
	s.mutex.Unlock()
	return nil
}

func (s *Store) Clear(context.Context) error {
	return s.Save(context.Background(), "")
}
