package utils

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cppla/fitvault/config"
	"github.com/cppla/fitvault/models"
	"github.com/cppla/fitvault/state"
	"github.com/cppla/fitvault/store"
)

// StateBackend is the store and broadcaster chosen by configuration.
type StateBackend struct {
	Store       *store.Quota
	Broadcaster state.Broadcaster

	redis *redis.Client
}

// OpenStateBackend opens the configured value store, wraps it in the storage
// quota (shared accounting for redis and mysql) and picks the change
// broadcaster. A redis client is shared between
// the redis store and the redis broadcaster.
func OpenStateBackend(ctx context.Context, cfg config.AppConfig, log *zap.Logger) (*StateBackend, error) {
	if log == nil {
		log = zap.NewNop()
	}
	b := &StateBackend{}

	needRedis := cfg.StoreBackend == config.BackendRedis || cfg.Broadcast == config.BroadcastRedis
	if needRedis {
		rc, err := NewRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		b.redis = rc
	}

	inner, err := b.openStore(cfg, log)
	if err != nil {
		b.closeRedis()
		return nil, err
	}

	newQuota := store.NewQuota
	if cfg.StoreBackend == config.BackendRedis || cfg.StoreBackend == config.BackendMySQL {
		// other processes write to the same keys
		newQuota = store.NewSharedQuota
	}
	q, err := newQuota(ctx, inner, cfg.StoreQuotaBytes, models.AllKeys...)
	if err != nil {
		_ = inner.Close()
		b.closeRedis()
		return nil, fmt.Errorf("prime storage quota: %w", err)
	}
	b.Store = q

	switch cfg.Broadcast {
	case config.BroadcastRedis:
		b.Broadcaster = state.NewRedisBroadcaster(b.redis, cfg.RedisChannel, log)
	case config.BroadcastLocal, "":
		b.Broadcaster = state.NewLocalBroadcaster()
	default:
		_ = b.Close()
		return nil, fmt.Errorf("unknown broadcast mode %q", cfg.Broadcast)
	}

	log.Info("state backend ready",
		zap.String("backend", cfg.StoreBackend),
		zap.String("broadcast", cfg.Broadcast),
		zap.Int64("quota_bytes", cfg.StoreQuotaBytes),
		zap.Bool("quota_shared", q.Shared()),
		zap.Int64("used_bytes", q.Used()))
	return b, nil
}

func (b *StateBackend) openStore(cfg config.AppConfig, log *zap.Logger) (store.ValueStore, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendPebble, "":
		return store.OpenPebble(filepath.Join(cfg.DataDir, "pebble"), log)
	case config.BackendRedis:
		return store.NewRedisStore(b.redis, cfg.RedisPrefix), nil
	case config.BackendMySQL:
		db, err := config.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return store.NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// Close closes the store and then the shared redis client.
func (b *StateBackend) Close() error {
	var errs []error
	if b.Store != nil {
		errs = append(errs, b.Store.Close())
	}
	errs = append(errs, b.closeRedis())
	return errors.Join(errs...)
}

func (b *StateBackend) closeRedis() error {
	if b.redis == nil {
		return nil
	}
	err := b.redis.Close()
	b.redis = nil
	return err
}
