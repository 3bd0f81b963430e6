package state

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/fitvault/store"
)

func TestSubscribeIsNotSynchronous(t *testing.T) {
	ctx := context.Background()
	hub := newTestHub(t, store.NewMemoryStore())
	ch := NewChannel(hub, "fw_friends", []int{})

	release := make(chan struct{})
	delivered := make(chan struct{})
	unsubscribe := ch.Subscribe(func() {
		<-release
		close(delivered)
	})
	defer unsubscribe()

	wrote := make(chan struct{})
	go func() {
		assert.NoError(t, ch.Write(ctx, []int{1}))
		close(wrote)
	}()
	waitFor(t, wrote, "write to return while its listener is blocked")

	close(release)
	waitFor(t, delivered, "notification")
}

func TestListenerMayWrite(t *testing.T) {
	ctx := context.Background()
	hub := newTestHub(t, store.NewMemoryStore())
	src := NewChannel(hub, "fw_meal_plan", []int{})
	dst := NewChannel(hub, "fw_friends", []int{})

	done := make(chan struct{})
	defer src.Subscribe(func() {
		assert.NoError(t, dst.Update(ctx, func(ids []int) []int { return append(ids, len(src.Read(ctx))) }))
	})()
	defer dst.Subscribe(func() { close(done) })()

	require.NoError(t, src.Write(ctx, []int{1, 2, 3}))
	waitFor(t, done, "chained write")
	assert.Equal(t, []int{3}, dst.Read(ctx))
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	ctx := context.Background()
	hub := newTestHub(t, store.NewMemoryStore())
	ch := NewChannel(hub, "fw_friends", []int{})

	var calls atomic.Int32
	unsubscribe := ch.Subscribe(func() { calls.Add(1) })

	barrier := make(chan struct{}, 4)
	defer ch.Subscribe(func() { barrier <- struct{}{} })()

	require.NoError(t, ch.Write(ctx, []int{1}))
	waitFor(t, barrier, "first notification")
	assert.EqualValues(t, 1, calls.Load())

	unsubscribe()
	unsubscribe()
	require.NoError(t, ch.Write(ctx, []int{2}))
	waitFor(t, barrier, "second notification")
	assert.EqualValues(t, 1, calls.Load())
}

func TestSubscribeAllReceivesKeys(t *testing.T) {
	ctx := context.Background()
	hub := newTestHub(t, store.NewMemoryStore())

	keys := make(chan string, 4)
	defer hub.SubscribeAll(func(key string) { keys <- key })()

	require.NoError(t, NewChannel(hub, "fw_friends", []int{}).Write(ctx, []int{1}))
	require.NoError(t, NewChannel(hub, "fw_bookings", []int{}).Remove(ctx))

	for _, want := range []string{"fw_friends", "fw_bookings"} {
		select {
		case got := <-keys:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("no notification for %s", want)
		}
	}
}

func TestPanickingListenerDoesNotStopDispatch(t *testing.T) {
	ctx := context.Background()
	hub := newTestHub(t, store.NewMemoryStore())
	ch := NewChannel(hub, "fw_friends", []int{})

	done := make(chan struct{}, 1)
	defer ch.Subscribe(func() { panic("boom") })()
	defer ch.Subscribe(func() { done <- struct{}{} })()

	require.NoError(t, ch.Write(ctx, []int{1}))
	waitFor(t, done, "listener after a panicking one")
	require.NoError(t, ch.Write(ctx, []int{2}))
	waitFor(t, done, "second delivery")
}

func TestCrossHubInvalidation(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	bc := NewLocalBroadcaster()
	tabA := newTestHub(t, s, WithBroadcaster(bc), WithID("tab-a"))
	tabB := newTestHub(t, s, WithBroadcaster(bc), WithID("tab-b"))

	a := NewChannel(tabA, "fw_friends", []int{})
	b := NewChannel(tabB, "fw_friends", []int{})

	// warm A's cache with the absent value
	assert.Equal(t, []int{}, a.Read(ctx))

	notified := make(chan struct{}, 4)
	defer a.Subscribe(func() { notified <- struct{}{} })()

	require.NoError(t, b.Write(ctx, []int{9}))
	waitFor(t, notified, "remote change")
	assert.Equal(t, []int{9}, a.Read(ctx))

	// last write wins, whichever hub made it
	require.NoError(t, a.Write(ctx, []int{1}))
	require.NoError(t, b.Write(ctx, []int{2}))
	waitFor(t, notified, "local write")
	waitFor(t, notified, "second remote change")
	assert.Equal(t, []int{2}, a.Read(ctx))
	assert.Equal(t, []int{2}, b.Read(ctx))
}

func TestHubIgnoresOwnBroadcast(t *testing.T) {
	ctx := context.Background()
	bc := NewLocalBroadcaster()
	hub := newTestHub(t, store.NewMemoryStore(), WithBroadcaster(bc))
	ch := NewChannel(hub, "fw_friends", []int{})

	var calls atomic.Int32
	barrier := make(chan struct{}, 4)
	defer ch.Subscribe(func() { calls.Add(1); barrier <- struct{}{} })()

	require.NoError(t, ch.Write(ctx, []int{1}))
	waitFor(t, barrier, "notification")

	// a marker change from another origin queues behind any duplicate
	require.NoError(t, bc.Publish(ctx, Change{Key: "fw_friends", Origin: "elsewhere"}))
	waitFor(t, barrier, "marker")
	select {
	case <-barrier:
		t.Fatal("own broadcast was delivered as a remote change")
	case <-time.After(50 * time.Millisecond):
	}
	assert.EqualValues(t, 2, calls.Load())
}

func TestCloseDetachesFromBroadcaster(t *testing.T) {
	bc := NewLocalBroadcaster()
	hub := NewHub(store.NewMemoryStore(), WithBroadcaster(bc))
	require.NoError(t, hub.Close())
	require.NoError(t, hub.Close())

	bc.mu.RLock()
	defer bc.mu.RUnlock()
	assert.Empty(t, bc.listeners)
}

func TestUnsubscribeDuringDeliverySkipsPendingCall(t *testing.T) {
	ctx := context.Background()
	hub := newTestHub(t, store.NewMemoryStore())
	ch := NewChannel(hub, "fw_friends", []int{})

	entered := make(chan struct{})
	release := make(chan struct{})
	var once atomic.Bool
	defer ch.Subscribe(func() {
		if once.CompareAndSwap(false, true) {
			close(entered)
			<-release
		}
	})()

	var late atomic.Int32
	unsubscribe := ch.Subscribe(func() { late.Add(1) })

	finished := make(chan struct{})
	defer ch.Subscribe(func() { close(finished) })()

	require.NoError(t, ch.Write(ctx, []int{1}))
	waitFor(t, entered, "first listener")

	// the delivery already holds its target list; the second listener is in it
	unsubscribe()
	close(release)
	waitFor(t, finished, "delivery to finish")
	assert.Zero(t, late.Load(), "no call after unsubscribe returned")
}
