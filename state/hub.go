package state

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cppla/fitvault/store"
)

const publishTimeout = 2 * time.Second

// Hub is one consistent view of a ValueStore: a payload cache, per-key write
// locks, subscriber lists and a dispatcher goroutine. Close it when done; the
// store itself stays open and belongs to the caller.
type Hub struct {
	id    string
	store store.ValueStore
	log   *zap.Logger
	bc    Broadcaster

	cacheMu sync.Mutex
	cache   map[string]cachedPayload
	gen     map[string]uint64

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex

	subMu   sync.Mutex
	subs    []subscription
	nextSub uint64

	queueMu sync.Mutex
	queue   []string
	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}

	stopListen func()
	closeOnce  sync.Once
}

type cachedPayload struct {
	payload string
	ok      bool
}

type subscription struct {
	id     uint64
	key    string // empty matches every key
	fn     func(key string)
	active *atomic.Bool
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the logger used for warnings and delivery failures.
func WithLogger(log *zap.Logger) Option {
	return func(h *Hub) {
		if log != nil {
			h.log = log
		}
	}
}

// WithBroadcaster joins the hub to other hubs sharing the same store.
func WithBroadcaster(bc Broadcaster) Option {
	return func(h *Hub) { h.bc = bc }
}

// WithID overrides the generated origin id.
func WithID(id string) Option {
	return func(h *Hub) {
		if id != "" {
			h.id = id
		}
	}
}

// NewHub starts a hub over s.
func NewHub(s store.ValueStore, opts ...Option) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		store:   s,
		log:     zap.NewNop(),
		cache:   map[string]cachedPayload{},
		gen:     map[string]uint64{},
		locks:   map[string]*sync.Mutex{},
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.bc != nil {
		h.stopListen = h.bc.Listen(h.onRemoteChange)
	}
	go h.dispatch()
	return h
}

// ID is the origin id stamped on this hub's broadcasts.
func (h *Hub) ID() string {
	return h.id
}

// Close detaches from the broadcaster and stops delivering notifications.
// Pending notifications are dropped.
func (h *Hub) Close() error {
	h.closeOnce.Do(func() {
		if h.stopListen != nil {
			h.stopListen()
		}
		close(h.done)
		<-h.stopped
	})
	return nil
}

// SubscribeAll registers fn for changes to any key. fn receives the key.
// Once unsubscribe returns, fn is not called again; a call already running
// on the dispatcher may still finish.
func (h *Hub) SubscribeAll(fn func(key string)) (unsubscribe func()) {
	return h.subscribe("", fn)
}

func (h *Hub) subscribe(key string, fn func(key string)) func() {
	active := &atomic.Bool{}
	active.Store(true)

	h.subMu.Lock()
	id := h.nextSub
	h.nextSub++
	h.subs = append(h.subs, subscription{id: id, key: key, fn: fn, active: active})
	h.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			active.Store(false)
			h.subMu.Lock()
			defer h.subMu.Unlock()
			for i, s := range h.subs {
				if s.id == id {
					h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (h *Hub) keyLock(key string) *sync.Mutex {
	h.locksMu.Lock()
	defer h.locksMu.Unlock()
	l, ok := h.locks[key]
	if !ok {
		l = &sync.Mutex{}
		h.locks[key] = l
	}
	return l
}

// readRaw returns the payload for key, filling the cache on a miss. A fetch
// that races with an invalidation is returned but not cached.
func (h *Hub) readRaw(ctx context.Context, key string) (string, bool, error) {
	h.cacheMu.Lock()
	if c, hit := h.cache[key]; hit {
		h.cacheMu.Unlock()
		return c.payload, c.ok, nil
	}
	gen := h.gen[key]
	h.cacheMu.Unlock()

	payload, ok, err := h.store.Get(ctx, key)
	if err != nil {
		return "", false, err
	}

	h.cacheMu.Lock()
	if h.gen[key] == gen {
		h.cache[key] = cachedPayload{payload: payload, ok: ok}
	}
	h.cacheMu.Unlock()
	return payload, ok, nil
}

func (h *Hub) setCache(key string, c cachedPayload) {
	h.cacheMu.Lock()
	h.gen[key]++
	h.cache[key] = c
	h.cacheMu.Unlock()
}

func (h *Hub) invalidate(key string) {
	h.cacheMu.Lock()
	h.gen[key]++
	delete(h.cache, key)
	h.cacheMu.Unlock()
}

// writeRaw persists payload; the caller holds keyLock(key).
func (h *Hub) writeRaw(ctx context.Context, key, payload string) error {
	if err := h.store.Set(ctx, key, payload); err != nil {
		writeFailuresTotal.WithLabelValues(key).Inc()
		return fmt.Errorf("state: write %q: %w", key, err)
	}
	h.setCache(key, cachedPayload{payload: payload, ok: true})
	h.changed(ctx, key)
	return nil
}

// removeRaw deletes key; the caller holds keyLock(key).
func (h *Hub) removeRaw(ctx context.Context, key string) error {
	if err := h.store.Remove(ctx, key); err != nil {
		writeFailuresTotal.WithLabelValues(key).Inc()
		return fmt.Errorf("state: remove %q: %w", key, err)
	}
	h.setCache(key, cachedPayload{})
	h.changed(ctx, key)
	return nil
}

func (h *Hub) changed(ctx context.Context, key string) {
	writesTotal.WithLabelValues(key).Inc()
	h.enqueue(key)
	if h.bc == nil {
		return
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := h.bc.Publish(pctx, Change{Key: key, Origin: h.id}); err != nil {
		h.log.Warn("broadcast_publish_failed", zap.String("key", key), zap.Error(err))
	}
}

func (h *Hub) onRemoteChange(c Change) {
	if c.Origin == h.id {
		return
	}
	invalidationsTotal.WithLabelValues(c.Key).Inc()
	h.invalidate(c.Key)
	h.enqueue(c.Key)
}

func (h *Hub) enqueue(key string) {
	h.queueMu.Lock()
	h.queue = append(h.queue, key)
	h.queueMu.Unlock()
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

func (h *Hub) dispatch() {
	defer close(h.stopped)
	for {
		select {
		case <-h.done:
			return
		case <-h.wake:
		}
		for {
			h.queueMu.Lock()
			pending := h.queue
			h.queue = nil
			h.queueMu.Unlock()
			if len(pending) == 0 {
				break
			}
			for _, key := range pending {
				select {
				case <-h.done:
					return
				default:
				}
				h.deliver(key)
			}
		}
	}
}

func (h *Hub) deliver(key string) {
	h.subMu.Lock()
	targets := make([]subscription, 0, len(h.subs))
	for _, s := range h.subs {
		if s.key == "" || s.key == key {
			targets = append(targets, s)
		}
	}
	h.subMu.Unlock()

	for _, s := range targets {
		h.call(s, key)
	}
}

func (h *Hub) call(s subscription, key string) {
	if !s.active.Load() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("subscriber_panic", zap.String("key", key), zap.Any("panic", r))
		}
	}()
	s.fn(key)
	notificationsTotal.Inc()
}
