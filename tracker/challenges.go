package tracker

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/cppla/fitvault/models"
	"github.com/cppla/fitvault/state"
)

// StartChallenge creates a fresh entry for id. It refuses to overwrite an
// entry that already exists; use RestartChallenge for that.
func StartChallenge(m models.ChallengeProgressMap, id string, now time.Time) (models.ChallengeProgressMap, error) {
	if _, ok := m[id]; ok {
		return m, fmt.Errorf("%w: %s", ErrChallengeStarted, id)
	}
	return RestartChallenge(m, id, now), nil
}

// RestartChallenge creates or overwrites the entry for id.
func RestartChallenge(m models.ChallengeProgressMap, id string, now time.Time) models.ChallengeProgressMap {
	next := m.Clone()
	next[id] = models.ChallengeProgress{
		StartDate:     now.UTC(),
		CompletedDays: []int{},
		Streak:        0,
	}
	return next
}

// ToggleChallengeDay flips day in the completed set of id. It reports false
// and returns m untouched when id has no entry.
func ToggleChallengeDay(m models.ChallengeProgressMap, id string, day int) (models.ChallengeProgressMap, bool) {
	cur, ok := m[id]
	if !ok {
		return m, false
	}
	days := make([]int, 0, len(cur.CompletedDays)+1)
	found := false
	for _, d := range cur.CompletedDays {
		if d == day {
			found = true
			continue
		}
		if !slices.Contains(days, d) {
			days = append(days, d)
		}
	}
	if !found {
		days = append(days, day)
	}
	slices.Sort(days)

	next := m.Clone()
	cur.CompletedDays = days
	cur.Streak = trailingStreak(days)
	next[id] = cur
	return next, true
}

// ResetChallenge deletes the entry for id. It reports false when there was none.
func ResetChallenge(m models.ChallengeProgressMap, id string) (models.ChallengeProgressMap, bool) {
	if _, ok := m[id]; !ok {
		return m, false
	}
	next := m.Clone()
	delete(next, id)
	return next, true
}

// PercentComplete is round(completed/duration*100), 0 for a non-positive duration.
func PercentComplete(p models.ChallengeProgress, durationDays int) int {
	if durationDays <= 0 {
		return 0
	}
	return int(math.Round(float64(len(p.CompletedDays)) / float64(durationDays) * 100))
}

// trailingStreak counts consecutive days ending at the highest completed day.
// days must be sorted and unique.
func trailingStreak(days []int) int {
	if len(days) == 0 {
		return 0
	}
	streak := 1
	for i := len(days) - 1; i > 0; i-- {
		if days[i]-days[i-1] != 1 {
			break
		}
		streak++
	}
	return streak
}

// Challenges binds the challenge reducers to fw_challenge_progress.
type Challenges struct {
	ch      *state.Channel[models.ChallengeProgressMap]
	catalog Catalog
	now     func() time.Time
}

// NewChallenges uses DefaultChallenges when catalog is nil and time.Now when now is nil.
func NewChallenges(hub *state.Hub, catalog Catalog, now func() time.Time) *Challenges {
	if catalog == nil {
		catalog = DefaultChallenges()
	}
	if now == nil {
		now = time.Now
	}
	return &Challenges{
		ch:      state.NewChannel(hub, models.KeyChallengeProgress, models.ChallengeProgressMap{}),
		catalog: catalog,
		now:     now,
	}
}

// Channel exposes the underlying channel for subscribers.
func (c *Challenges) Channel() *state.Channel[models.ChallengeProgressMap] {
	return c.ch
}

// All returns every started challenge.
func (c *Challenges) All(ctx context.Context) models.ChallengeProgressMap {
	return c.ch.Read(ctx)
}

// Get returns the entry for id and whether it exists.
func (c *Challenges) Get(ctx context.Context, id string) (models.ChallengeProgress, bool) {
	p, ok := c.ch.Read(ctx)[id]
	return p, ok
}

// Start begins id today. It returns ErrChallengeStarted when id is already running.
func (c *Challenges) Start(ctx context.Context, id string) error {
	_, err := c.ch.Mutate(ctx, func(m models.ChallengeProgressMap) (models.ChallengeProgressMap, bool, error) {
		next, err := StartChallenge(m, id, c.now())
		return next, err == nil, err
	})
	return err
}

// Restart wipes any progress for id and begins it again today.
func (c *Challenges) Restart(ctx context.Context, id string) error {
	return c.ch.Update(ctx, func(m models.ChallengeProgressMap) models.ChallengeProgressMap {
		return RestartChallenge(m, id, c.now())
	})
}

// ToggleDay flips day for id. It is a silent no-op when id was never started.
func (c *Challenges) ToggleDay(ctx context.Context, id string, day int) (bool, error) {
	return c.ch.Mutate(ctx, func(m models.ChallengeProgressMap) (models.ChallengeProgressMap, bool, error) {
		next, ok := ToggleChallengeDay(m, id, day)
		return next, ok, nil
	})
}

// Reset deletes the progress for id. When no challenge is left the key is
// removed entirely.
func (c *Challenges) Reset(ctx context.Context, id string) (bool, error) {
	changed, err := c.ch.Mutate(ctx, func(m models.ChallengeProgressMap) (models.ChallengeProgressMap, bool, error) {
		next, ok := ResetChallenge(m, id)
		return next, ok, nil
	})
	if err != nil || !changed {
		return changed, err
	}
	if _, err := c.ch.RemoveIf(ctx, func(m models.ChallengeProgressMap) bool { return len(m) == 0 }); err != nil {
		return true, err
	}
	return true, nil
}

// Known reports whether id is in the catalog.
func (c *Challenges) Known(id string) bool {
	_, ok := c.catalog.DurationDays(id)
	return ok
}

// PercentComplete looks up the duration of id in the catalog.
func (c *Challenges) PercentComplete(ctx context.Context, id string) (int, error) {
	d, ok := c.catalog.DurationDays(id)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownChallenge, id)
	}
	p, started := c.Get(ctx, id)
	if !started {
		return 0, nil
	}
	return PercentComplete(p, d), nil
}
