package redisstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/trezcool/presensi/core"
)

// Store keeps the token under one redis key, shared by every process pointing at the same server.
type Store struct {
	rdb *redis.Client
	key string
}

var _ core.TokenStore = (*Store)(nil)

func New(rdb *redis.Client, key string) *Store {
	return &Store{rdb: rdb, key: key}
}

// Open connects to addr and checks the connection.
func Open(ctx context.Context, addr, password, key string) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.Wrapf(err, "connecting to redis at %s", addr)
	}
	return New(rdb, key), nil
}

func (s *Store) Load(ctx context.Context) (string, error) {
	token, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "loading token")
	}
	return token, nil
}

func (s *Store) Save(ctx context.Context, token string) error {
	return errors.Wrap(s.rdb.Set(ctx, s.key, token, 0).Err(), "saving token")
}

func (s *Store) Clear(ctx context.Context) error {
	return errors.Wrap(s.rdb.Del(ctx, s.key).Err(), "clearing token")
}

func (s *Store) Close() error {
	return s.rdb.Close()
}
