package store

import (
	"context"
	"fmt"
	"sync"
)

// Quota caps the total size of a backend, counted as len(key)+len(payload)
// over every key it has seen. Keys written before the wrapper existed are only
// counted once they are primed or touched.
//
// A Quota built with NewQuota remembers each key's size and assumes it is the
// only writer. NewSharedQuota re-reads every tracked key before each write so
// processes sharing one backend see each other's usage. The check and the
// write are still two steps, so concurrent writers in different processes can
// overshoot the cap by at most one payload each.
type Quota struct {
	inner    ValueStore
	maxBytes int64
	shared   bool

	mu    sync.Mutex
	used  int64
	sizes map[string]int64
}

// NewQuota wraps inner with a byte budget and primes usage from the given keys.
// maxBytes <= 0 disables the limit.
func NewQuota(ctx context.Context, inner ValueStore, maxBytes int64, keys ...string) (*Quota, error) {
	return newQuota(ctx, inner, maxBytes, false, keys)
}

// NewSharedQuota is NewQuota for a backend other processes also write to,
// such as redis or mysql.
func NewSharedQuota(ctx context.Context, inner ValueStore, maxBytes int64, keys ...string) (*Quota, error) {
	return newQuota(ctx, inner, maxBytes, true, keys)
}

func newQuota(ctx context.Context, inner ValueStore, maxBytes int64, shared bool, keys []string) (*Quota, error) {
	q := &Quota{inner: inner, maxBytes: maxBytes, shared: shared, sizes: map[string]int64{}}
	for _, k := range keys {
		if _, err := q.sizeOf(ctx, k); err != nil {
			return nil, fmt.Errorf("prime quota for %q: %w", k, err)
		}
	}
	return q, nil
}

// Shared reports whether usage is re-read before every write.
func (q *Quota) Shared() bool {
	return q.shared
}

// refresh recounts every tracked key from the backend; q.mu must be held.
func (q *Quota) refresh(ctx context.Context) error {
	sizes := make(map[string]int64, len(q.sizes))
	var used int64
	for k := range q.sizes {
		v, ok, err := q.inner.Get(ctx, k)
		if err != nil {
			return fmt.Errorf("refresh quota for %q: %w", k, err)
		}
		var n int64
		if ok {
			n = int64(len(k) + len(v))
		}
		sizes[k] = n
		used += n
	}
	q.sizes, q.used = sizes, used
	return nil
}

// Used reports the bytes currently accounted for.
func (q *Quota) Used() int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.used
}

// sizeOf must be called with q.mu held or before q is shared.
func (q *Quota) sizeOf(ctx context.Context, key string) (int64, error) {
	if n, ok := q.sizes[key]; ok {
		return n, nil
	}
	v, ok, err := q.inner.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	var n int64
	if ok {
		n = int64(len(key) + len(v))
	}
	q.sizes[key] = n
	q.used += n
	return n, nil
}

func (q *Quota) Get(ctx context.Context, key string) (string, bool, error) {
	return q.inner.Get(ctx, key)
}

func (q *Quota) Set(ctx context.Context, key, payload string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.shared && q.maxBytes > 0 {
		if err := q.refresh(ctx); err != nil {
			return err
		}
	}
	old, err := q.sizeOf(ctx, key)
	if err != nil {
		return err
	}
	next := int64(len(key) + len(payload))
	if q.maxBytes > 0 && q.used-old+next > q.maxBytes {
		return capacityError(key, fmt.Errorf("quota %d bytes, in use %d, write needs %d", q.maxBytes, q.used-old, next))
	}
	if err := q.inner.Set(ctx, key, payload); err != nil {
		return err
	}
	q.used += next - old
	q.sizes[key] = next
	return nil
}

func (q *Quota) Remove(ctx context.Context, key string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.inner.Remove(ctx, key); err != nil {
		return err
	}
	q.used -= q.sizes[key]
	q.sizes[key] = 0
	return nil
}

func (q *Quota) Close() error {
	return q.inner.Close()
}
