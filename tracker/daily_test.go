package tracker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/fitvault/models"
	"github.com/cppla/fitvault/state"
	"github.com/cppla/fitvault/store"
)

func TestAccumulateVersusReplace(t *testing.T) {
	tr, _ := newTestTracker(t)
	d := tr.Daily

	_, err := d.ApplyDelta(bg, "2024-01-01", FieldSteps, 100)
	require.NoError(t, err)
	s, err := d.ApplyDelta(bg, "2024-01-01", FieldSteps, 100)
	require.NoError(t, err)
	assert.Equal(t, 200.0, s.Steps)

	_, err = d.ApplyDelta(bg, "2024-01-01", FieldWeight, 70)
	require.NoError(t, err)
	s, err = d.ApplyDelta(bg, "2024-01-01", FieldWeight, 68)
	require.NoError(t, err)
	assert.Equal(t, 68.0, s.Weight)
	assert.Equal(t, 200.0, s.Steps)

	s, err = d.ApplyDelta(bg, "2024-01-01", FieldWater, -1)
	require.NoError(t, err)
	assert.Equal(t, -1.0, s.Water, "no floor is enforced")
}

func TestLogWorkoutScenario(t *testing.T) {
	tr, _ := newTestTracker(t)
	d := tr.Daily

	s, err := d.LogWorkout(bg, "2024-01-01", 7, 350)
	require.NoError(t, err)
	assert.Equal(t, 350.0, s.Calories)
	assert.Equal(t, []int{7}, s.WorkoutsLogged)

	s, err = d.LogWorkout(bg, "2024-01-01", 7, 350)
	require.NoError(t, err)
	assert.Equal(t, 700.0, s.Calories)
	assert.Equal(t, []int{7, 7}, s.WorkoutsLogged)

	got, err := d.Get(bg, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestDailyRejectsBadInput(t *testing.T) {
	tr, _ := newTestTracker(t)
	d := tr.Daily

	_, err := d.ApplyDelta(bg, "2024-1-01", FieldSteps, 1)
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = d.ApplyDelta(bg, "2024-01-01", Field("mood"), 1)
	assert.ErrorIs(t, err, ErrUnknownField)
	_, err = ParseField("mood")
	assert.ErrorIs(t, err, ErrUnknownField)

	m := models.DailyStatsMap{}
	_, err = ApplyDelta(m, MergePolicy{FieldSteps: Accumulate}, "2024-01-01", FieldWater, 1)
	assert.ErrorIs(t, err, ErrNoMergeStrategy)
	assert.Empty(t, m)
}

func TestRollingWindow(t *testing.T) {
	m := models.DailyStatsMap{
		"2024-01-03": {Steps: 3000, WorkoutsLogged: []int{2}},
		"2024-01-07": {Steps: 7000, WorkoutsLogged: []int{}},
		"2024-01-09": {Steps: 9000, WorkoutsLogged: []int{}},
	}
	end := time.Date(2024, 1, 7, 23, 0, 0, 0, time.UTC)
	seq := RollingWindow(m, end, 7)

	days := CollectWindow(seq)
	require.Len(t, days, 7)
	want := []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07"}
	for i, d := range days {
		assert.Equal(t, want[i], d.Date)
	}
	assert.Equal(t, 3000.0, days[2].Steps)
	assert.Equal(t, []int{2}, days[2].WorkoutsLogged)
	assert.Equal(t, models.EmptyDailyStats(), days[0].DailyStats)
	assert.Equal(t, 7000.0, days[6].Steps)

	// restartable and read-only
	assert.Equal(t, days, CollectWindow(seq))
	assert.Len(t, m, 3)

	// early stop
	n := 0
	for range seq {
		n++
		if n == 2 {
			break
		}
	}
	assert.Equal(t, 2, n)
}

func TestRollingWindowAcrossMonthEnd(t *testing.T) {
	days := CollectWindow(RollingWindow(nil, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), 3))
	require.Len(t, days, 3)
	assert.Equal(t, "2024-02-29", days[0].Date)
	assert.Equal(t, "2024-03-02", days[2].Date)
}

func TestDailyWindowFacade(t *testing.T) {
	tr, _ := newTestTracker(t)
	_, err := tr.Daily.LogWorkout(bg, tr.Daily.Today(), 3, 120)
	require.NoError(t, err)

	seq, err := tr.Daily.Window(bg, "2024-01-10", 7)
	require.NoError(t, err)
	days := CollectWindow(seq)
	require.Len(t, days, 7)
	assert.Equal(t, "2024-01-10", days[6].Date)
	assert.Equal(t, 120.0, days[6].Calories)

	_, err = tr.Daily.Window(bg, "10/01/2024", 7)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

type flakyStore struct {
	store.ValueStore
	down atomic.Bool
}

func (s *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.down.Load() {
		return "", false, errors.New("i/o timeout")
	}
	return s.ValueStore.Get(ctx, key)
}

func TestDailyHistorySurvivesReadFailure(t *testing.T) {
	s := &flakyStore{ValueStore: store.NewMemoryStore()}
	const history = `{"2024-01-01":{"steps":9000,"calories":0,"water":0,"weight":0,"workoutsLogged":[]}}`
	require.NoError(t, s.Set(bg, models.KeyTrackerData, history))

	hub := state.NewHub(s)
	t.Cleanup(func() { _ = hub.Close() })
	d := NewDailyStats(hub, nil, clock)

	s.down.Store(true)
	_, err := d.ApplyDelta(bg, "2024-01-02", FieldSteps, 10)
	require.Error(t, err)
	_, err = d.LogWorkout(bg, "2024-01-02", 3, 120)
	require.Error(t, err)

	s.down.Store(false)
	raw, ok, err := s.Get(bg, models.KeyTrackerData)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, history, raw)

	day, err := d.ApplyDelta(bg, "2024-01-02", FieldSteps, 10)
	require.NoError(t, err)
	assert.Equal(t, 10.0, day.Steps)
	old, err := d.Get(bg, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, 9000.0, old.Steps)
}
