package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/cppla/fitvault/state"
	"github.com/cppla/fitvault/store"
)

var fixedNow = time.Date(2024, 1, 10, 15, 4, 5, 0, time.UTC)

func clock() time.Time { return fixedNow }

func newTestTracker(t *testing.T) (*Tracker, store.ValueStore) {
	t.Helper()
	s := store.NewMemoryStore()
	hub := state.NewHub(s)
	t.Cleanup(func() { _ = hub.Close() })
	return New(hub, Options{Now: clock}), s
}

var bg = context.Background()
