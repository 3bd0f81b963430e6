package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/fitvault/models"
)

func TestChallengeLifecycle(t *testing.T) {
	tr, s := newTestTracker(t)
	c := tr.Challenges

	require.NoError(t, c.Start(bg, "pushup-30"))
	p, ok := c.Get(bg, "pushup-30")
	require.True(t, ok)
	assert.Equal(t, []int{}, p.CompletedDays)
	assert.Equal(t, 0, p.Streak)
	assert.True(t, p.StartDate.Equal(fixedNow))

	changed, err := c.ToggleDay(bg, "pushup-30", 1)
	require.NoError(t, err)
	assert.True(t, changed)
	p, _ = c.Get(bg, "pushup-30")
	assert.Equal(t, []int{1}, p.CompletedDays)

	pct, err := c.PercentComplete(bg, "pushup-30")
	require.NoError(t, err)
	assert.Equal(t, 3, pct)

	removed, err := c.Reset(bg, "pushup-30")
	require.NoError(t, err)
	assert.True(t, removed)
	_, ok = c.Get(bg, "pushup-30")
	assert.False(t, ok)
	_, stored, _ := s.Get(bg, models.KeyChallengeProgress)
	assert.False(t, stored, "an empty progress map removes the key")

	changed, err = c.ToggleDay(bg, "pushup-30", 2)
	require.NoError(t, err)
	assert.False(t, changed)
	_, ok = c.Get(bg, "pushup-30")
	assert.False(t, ok)
}

func TestChallengeStartTwiceIsRejected(t *testing.T) {
	tr, _ := newTestTracker(t)
	c := tr.Challenges

	require.NoError(t, c.Start(bg, "yoga-14"))
	_, err := c.ToggleDay(bg, "yoga-14", 1)
	require.NoError(t, err)

	assert.ErrorIs(t, c.Start(bg, "yoga-14"), ErrChallengeStarted)
	p, _ := c.Get(bg, "yoga-14")
	assert.Equal(t, []int{1}, p.CompletedDays, "progress survives a second start")

	require.NoError(t, c.Restart(bg, "yoga-14"))
	p, _ = c.Get(bg, "yoga-14")
	assert.Equal(t, []int{}, p.CompletedDays)
}

func TestResetKeepsOtherChallenges(t *testing.T) {
	tr, s := newTestTracker(t)
	c := tr.Challenges
	require.NoError(t, c.Start(bg, "abs-30"))
	require.NoError(t, c.Start(bg, "water-7"))

	removed, err := c.Reset(bg, "abs-30")
	require.NoError(t, err)
	assert.True(t, removed)
	_, ok, _ := s.Get(bg, models.KeyChallengeProgress)
	assert.True(t, ok)
	assert.Len(t, c.All(bg), 1)

	removed, err = c.Reset(bg, "abs-30")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestToggleDayInvolution(t *testing.T) {
	base := models.ChallengeProgressMap{
		"steps-21": {StartDate: fixedNow, CompletedDays: []int{1, 2, 5}, Streak: 1},
	}
	for _, day := range []int{1, 3, 5, 21} {
		once, ok := ToggleChallengeDay(base, "steps-21", day)
		require.True(t, ok)
		twice, ok := ToggleChallengeDay(once, "steps-21", day)
		require.True(t, ok)
		assert.Equal(t, base["steps-21"].CompletedDays, twice["steps-21"].CompletedDays, "day %d", day)
	}
	assert.Equal(t, []int{1, 2, 5}, base["steps-21"].CompletedDays, "input is never mutated")
}

func TestToggleDayStreak(t *testing.T) {
	m := RestartChallenge(nil, "sugar-10", fixedNow)
	for _, d := range []int{1, 2, 3} {
		m, _ = ToggleChallengeDay(m, "sugar-10", d)
	}
	assert.Equal(t, 3, m["sugar-10"].Streak)

	m, _ = ToggleChallengeDay(m, "sugar-10", 2)
	assert.Equal(t, []int{1, 3}, m["sugar-10"].CompletedDays)
	assert.Equal(t, 1, m["sugar-10"].Streak)

	m, _ = ToggleChallengeDay(m, "sugar-10", 3)
	assert.Equal(t, 1, m["sugar-10"].Streak)

	m, _ = ToggleChallengeDay(m, "sugar-10", 1)
	assert.Equal(t, 0, m["sugar-10"].Streak)
}

func TestPercentComplete(t *testing.T) {
	p := models.ChallengeProgress{CompletedDays: []int{1}}
	assert.Equal(t, 3, PercentComplete(p, 30))
	assert.Equal(t, 7, PercentComplete(p, 14))
	assert.Equal(t, 0, PercentComplete(p, 0))
	p.CompletedDays = []int{1, 2, 3, 4, 5, 6, 7}
	assert.Equal(t, 100, PercentComplete(p, 7))

	tr, _ := newTestTracker(t)
	_, err := tr.Challenges.PercentComplete(bg, "nope")
	assert.ErrorIs(t, err, ErrUnknownChallenge)
	pct, err := tr.Challenges.PercentComplete(bg, "water-7")
	require.NoError(t, err)
	assert.Equal(t, 0, pct, "not started")
}
