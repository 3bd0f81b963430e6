package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"syscall"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"
)

// PebbleStore keeps payloads in a pebble database on local disk. Pebble locks
// its directory, so one process owns a data dir at a time; share state across
// processes with RedisStore instead.
type PebbleStore struct {
	mu   sync.RWMutex
	db   *pebble.DB
	path string
	log  *zap.Logger
}

// OpenPebble opens (or creates) a pebble database at path.
func OpenPebble(path string, log *zap.Logger) (*PebbleStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("opening_pebble_db", zap.String("path", path))
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		log.Error("pebble_open_failed", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("open pebble %q: %w", path, err)
	}
	log.Info("pebble_opened", zap.String("path", path))
	return &PebbleStore{db: db, path: path, log: log}, nil
}

func (s *PebbleStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return "", false, ErrClosed
	}
	v, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	// v is only valid until closer is closed.
	payload := string(v)
	if err := closer.Close(); err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return payload, true, nil
}

func (s *PebbleStore) Set(_ context.Context, key, payload string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}
	if err := s.db.Set([]byte(key), []byte(payload), pebble.Sync); err != nil {
		s.log.Error("pebble_set_failed", zap.String("key", key), zap.Error(err))
		if errors.Is(err, syscall.ENOSPC) {
			return capacityError(key, err)
		}
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *PebbleStore) Remove(_ context.Context, key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return ErrClosed
	}
	if err := s.db.Delete([]byte(key), pebble.Sync); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	return nil
}

// Close closes the database. Closing twice is a no-op.
func (s *PebbleStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	s.db = nil
	s.log.Info("pebble_closed", zap.String("path", s.path))
	return nil
}
