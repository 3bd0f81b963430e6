package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Channel is a typed read/write/subscribe handle on one key of a Hub.
type Channel[T any] struct {
	hub        *Hub
	key        string
	def        T
	defPayload []byte
}

// NewChannel binds key to type T. def is returned whenever the key is absent
// or its payload is unusable; every read gets its own copy of it.
func NewChannel[T any](hub *Hub, key string, def T) *Channel[T] {
	c := &Channel[T]{hub: hub, key: key, def: def}
	if b, err := json.Marshal(def); err == nil {
		c.defPayload = b
	}
	return c
}

// Key returns the storage key.
func (c *Channel[T]) Key() string {
	return c.key
}

// Default returns a fresh copy of the default value.
func (c *Channel[T]) Default() T {
	if c.defPayload == nil {
		return c.def
	}
	var v T
	if err := json.Unmarshal(c.defPayload, &v); err != nil {
		return c.def
	}
	return v
}

// Read returns the current value, or the default when the key is absent,
// corrupt or unreadable. It never fails; use Load to see why a default was used.
func (c *Channel[T]) Read(ctx context.Context) T {
	return c.Load(ctx).Value
}

// Load is Read with the outcome tagged.
func (c *Channel[T]) Load(ctx context.Context) Result[T] {
	res := c.load(ctx)
	readsTotal.WithLabelValues(c.key, res.Status.String()).Inc()
	if res.Degraded() {
		c.hub.log.Warn("state_read_degraded", zap.String("key", c.key), zap.Error(res.Cause))
	}
	return res
}

func (c *Channel[T]) load(ctx context.Context) Result[T] {
	payload, ok, err := c.hub.readRaw(ctx, c.key)
	if err != nil {
		return Result[T]{Value: c.Default(), Status: StatusDegraded, Cause: err}
	}
	if !ok || payload == "null" {
		return Result[T]{Value: c.Default(), Status: StatusAbsent}
	}
	var v T
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return Result[T]{Value: c.Default(), Status: StatusDegraded, Cause: &DecodeError{Key: c.key, Err: err}}
	}
	return Result[T]{Value: v, Status: StatusOK}
}

// Write replaces the stored value with next.
func (c *Channel[T]) Write(ctx context.Context, next T) error {
	payload, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", c.key, err)
	}
	l := c.hub.keyLock(c.key)
	l.Lock()
	defer l.Unlock()
	return c.hub.writeRaw(ctx, c.key, string(payload))
}

// current loads the value a mutation starts from. A corrupt payload yields the
// default so the write replaces it; a failed read is returned and nothing is
// written over the stored payload.
func (c *Channel[T]) current(ctx context.Context) (Result[T], error) {
	res := c.Load(ctx)
	var decodeErr *DecodeError
	if res.Degraded() && !errors.As(res.Cause, &decodeErr) {
		return res, fmt.Errorf("state: read %q: %w", c.key, res.Cause)
	}
	return res, nil
}

// Update replaces the stored value with fn(current). Updates through the same
// hub are serialised per key, so none is lost. A corrupt current value is
// passed to fn as the default. When the store cannot be read, fn is not
// called and the error is returned.
func (c *Channel[T]) Update(ctx context.Context, fn func(T) T) error {
	l := c.hub.keyLock(c.key)
	l.Lock()
	defer l.Unlock()

	cur, err := c.current(ctx)
	if err != nil {
		return err
	}
	next := fn(cur.Value)
	payload, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("state: encode %q: %w", c.key, err)
	}
	return c.hub.writeRaw(ctx, c.key, string(payload))
}

// Remove deletes the key entirely.
func (c *Channel[T]) Remove(ctx context.Context) error {
	l := c.hub.keyLock(c.key)
	l.Lock()
	defer l.Unlock()
	return c.hub.removeRaw(ctx, c.key)
}

// Subscribe calls listener after every change to the key made by this hub or
// broadcast by another. Listeners run on the hub's dispatcher goroutine and
// must re-read to see the new value. Once unsubscribe returns the listener is
// not called again, apart from a call that is already running.
func (c *Channel[T]) Subscribe(listener func()) (unsubscribe func()) {
	return c.hub.subscribe(c.key, func(string) { listener() })
}

// Mutate is Update for changes that may be refused or turn out to be no-ops.
// When fn returns an error, or changed is false, nothing is written and no
// notification fires. It reports whether a write happened.
func (c *Channel[T]) Mutate(ctx context.Context, fn func(T) (next T, changed bool, err error)) (bool, error) {
	l := c.hub.keyLock(c.key)
	l.Lock()
	defer l.Unlock()

	cur, err := c.current(ctx)
	if err != nil {
		return false, err
	}
	next, changed, err := fn(cur.Value)
	if err != nil || !changed {
		return false, err
	}
	payload, err := json.Marshal(next)
	if err != nil {
		return false, fmt.Errorf("state: encode %q: %w", c.key, err)
	}
	if err := c.hub.writeRaw(ctx, c.key, string(payload)); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveIf deletes the key when pred holds for the current value, checked
// under the same per-key lock as writes. It reports whether the key was removed.
func (c *Channel[T]) RemoveIf(ctx context.Context, pred func(T) bool) (bool, error) {
	l := c.hub.keyLock(c.key)
	l.Lock()
	defer l.Unlock()

	res, err := c.current(ctx)
	if err != nil {
		return false, err
	}
	if res.Status == StatusAbsent || !pred(res.Value) {
		return false, nil
	}
	if err := c.hub.removeRaw(ctx, c.key); err != nil {
		return false, err
	}
	return true, nil
}
