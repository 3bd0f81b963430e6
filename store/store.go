// Package store provides the durable key/value backends under the state layer.
//
// A ValueStore maps string keys to string payloads. Backends make no attempt to
// interpret payloads and offer no multi-key transactions. A write that fails
// because the backend is out of space returns an error wrapping
// ErrCapacityExceeded so callers can recover instead of crashing.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrCapacityExceeded reports that a write did not fit in the backing store.
var ErrCapacityExceeded = errors.New("store: capacity exceeded")

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store: closed")

// ValueStore is the origin-scoped key/value contract.
type ValueStore interface {
	// Get returns the payload for key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (payload string, ok bool, err error)
	Set(ctx context.Context, key, payload string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	Close() error
}

func capacityError(key string, cause error) error {
	if cause == nil {
		return fmt.Errorf("set %q: %w", key, ErrCapacityExceeded)
	}
	return fmt.Errorf("set %q: %w: %v", key, ErrCapacityExceeded, cause)
}
