package tracker

import (
	"context"
	"slices"

	"github.com/cppla/fitvault/state"
	"github.com/cppla/fitvault/utils"
)

// ContainsID reports membership.
func ContainsID(ids []int, id int) bool {
	return slices.Contains(ids, id)
}

// AddID appends id when absent.
func AddID(ids []int, id int) ([]int, bool) {
	ids = utils.Unique(ids)
	if ContainsID(ids, id) {
		return ids, false
	}
	return append(ids, id), true
}

// RemoveID drops every occurrence of id.
func RemoveID(ids []int, id int) ([]int, bool) {
	if !ContainsID(ids, id) {
		return ids, false
	}
	next := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			next = append(next, v)
		}
	}
	return utils.Unique(next), true
}

// ToggleID adds id when absent and removes it when present. added reports
// which happened.
func ToggleID(ids []int, id int) (next []int, added bool) {
	if ContainsID(ids, id) {
		next, _ = RemoveID(ids, id)
		return next, false
	}
	next, _ = AddID(ids, id)
	return next, true
}

// IDSet is a membership set of catalog ids (favorites, friends).
type IDSet struct {
	ch *state.Channel[[]int]
}

// NewIDSet binds the id list stored under key.
func NewIDSet(hub *state.Hub, key string) *IDSet {
	return &IDSet{ch: state.NewChannel(hub, key, []int{})}
}

// Channel exposes the underlying channel for subscribers.
func (s *IDSet) Channel() *state.Channel[[]int] {
	return s.ch
}

// List returns the ids without duplicates.
func (s *IDSet) List(ctx context.Context) []int {
	return utils.Unique(s.ch.Read(ctx))
}

// Contains reports whether id is a member.
func (s *IDSet) Contains(ctx context.Context, id int) bool {
	return ContainsID(s.ch.Read(ctx), id)
}

// Toggle reports whether id is a member afterwards.
func (s *IDSet) Toggle(ctx context.Context, id int) (bool, error) {
	var added bool
	err := s.ch.Update(ctx, func(ids []int) []int {
		var next []int
		next, added = ToggleID(ids, id)
		return next
	})
	return added, err
}

// Add makes id a member. It reports false when it already was.
func (s *IDSet) Add(ctx context.Context, id int) (bool, error) {
	return s.ch.Mutate(ctx, func(ids []int) ([]int, bool, error) {
		next, added := AddID(ids, id)
		return next, added, nil
	})
}

// Remove drops id. It reports false when it was not a member.
func (s *IDSet) Remove(ctx context.Context, id int) (bool, error) {
	return s.ch.Mutate(ctx, func(ids []int) ([]int, bool, error) {
		next, removed := RemoveID(ids, id)
		return next, removed, nil
	})
}
