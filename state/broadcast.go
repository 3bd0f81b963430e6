package state

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Change announces that Key was written or removed by the hub named Origin.
// It carries no payload; receivers re-read the store.
type Change struct {
	Key    string `json:"key"`
	Origin string `json:"origin"`
}

// Broadcaster carries Change events between hubs sharing one store.
// Delivery is best effort and eventually consistent.
type Broadcaster interface {
	Publish(ctx context.Context, c Change) error
	// Listen registers fn for every change published by any hub, including
	// the listener's own. The returned func detaches it.
	Listen(fn func(Change)) (stop func())
}

// LocalBroadcaster fans changes out to hubs in the same process.
type LocalBroadcaster struct {
	mu        sync.RWMutex
	listeners map[uint64]func(Change)
	next      uint64
}

func NewLocalBroadcaster() *LocalBroadcaster {
	return &LocalBroadcaster{listeners: map[uint64]func(Change){}}
}

func (b *LocalBroadcaster) Publish(_ context.Context, c Change) error {
	b.mu.RLock()
	fns := make([]func(Change), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()
	for _, fn := range fns {
		fn(c)
	}
	return nil
}

func (b *LocalBroadcaster) Listen(fn func(Change)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.listeners[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.listeners, id)
			b.mu.Unlock()
		})
	}
}

// DefaultRedisChannel is the pub/sub channel used when none is configured.
const DefaultRedisChannel = "fitvault:changes"

// RedisBroadcaster carries changes over Redis pub/sub so hubs in different
// processes see each other's writes.
type RedisBroadcaster struct {
	rc      *redis.Client
	channel string
	log     *zap.Logger
}

func NewRedisBroadcaster(rc *redis.Client, channel string, log *zap.Logger) *RedisBroadcaster {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisBroadcaster{rc: rc, channel: channel, log: log}
}

func (b *RedisBroadcaster) Publish(ctx context.Context, c Change) error {
	msg, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return b.rc.Publish(ctx, b.channel, msg).Err()
}

func (b *RedisBroadcaster) Listen(fn func(Change)) func() {
	ctx, cancel := context.WithCancel(context.Background())
	ps := b.rc.Subscribe(ctx, b.channel)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range ps.Channel() {
			var c Change
			if err := json.Unmarshal([]byte(msg.Payload), &c); err != nil {
				b.log.Warn("broadcast_decode_failed", zap.String("channel", b.channel), zap.Error(err))
				continue
			}
			fn(c)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			_ = ps.Close()
			<-done
		})
	}
}
