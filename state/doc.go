// Package state layers typed, observable channels over a store.ValueStore.
//
// A Hub is one view of the backing store, the Go counterpart of a browser tab.
// It caches raw payloads, serialises writes per key, and delivers change
// notifications on its own dispatcher goroutine, never inside the call stack
// of the write that caused them. Hubs sharing a store are joined by a
// Broadcaster: a change published by one hub invalidates (never merges) the
// cached payload in every other hub and notifies their subscribers. Two hubs
// writing the same key concurrently end up last-write-wins.
//
// Channel[T] binds one key to one Go type:
//
//	profile := state.NewChannel(hub, models.KeyUserProfile, models.DefaultProfile())
//	p := profile.Read(ctx)              // default when absent or corrupt
//	res := profile.Load(ctx)            // same, but tagged OK/Absent/Degraded
//	err := profile.Update(ctx, func(p models.UserProfile) models.UserProfile { ... })
//	stop := profile.Subscribe(func() { ... re-read ... })
package state
