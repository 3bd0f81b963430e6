package tracker

import (
	"context"
	"iter"
	"time"

	"github.com/cppla/fitvault/models"
	"github.com/cppla/fitvault/state"
)

// StatsFor returns the record for date, or the all-zero record.
func StatsFor(m models.DailyStatsMap, date string) models.DailyStats {
	s, ok := m[date]
	if !ok {
		return models.EmptyDailyStats()
	}
	s.WorkoutsLogged = append([]int{}, s.WorkoutsLogged...)
	return s
}

// ApplyDelta merges delta into field of the record for date.
func ApplyDelta(m models.DailyStatsMap, policy MergePolicy, date string, field Field, delta float64) (models.DailyStatsMap, error) {
	if _, err := ParseDate(date); err != nil {
		return m, err
	}
	s, err := policy.Merge(StatsFor(m, date), field, delta)
	if err != nil {
		return m, err
	}
	next := m.Clone()
	next[date] = s
	return next, nil
}

// LogWorkout adds caloriesEstimate to the day's calories and appends
// workoutID. Logging the same workout twice in a day is allowed.
func LogWorkout(m models.DailyStatsMap, policy MergePolicy, date string, workoutID int, caloriesEstimate float64) (models.DailyStatsMap, error) {
	next, err := ApplyDelta(m, policy, date, FieldCalories, caloriesEstimate)
	if err != nil {
		return m, err
	}
	s := next[date]
	s.WorkoutsLogged = append(s.WorkoutsLogged, workoutID)
	next[date] = s
	return next, nil
}

// RollingWindow yields days consecutive dates ending at end, oldest first,
// each with its record (zero-filled when absent). The sequence reads m lazily
// on every iteration and never writes to it.
func RollingWindow(m models.DailyStatsMap, end time.Time, days int) iter.Seq2[string, models.DailyStats] {
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return func(yield func(string, models.DailyStats) bool) {
		for i := days - 1; i >= 0; i-- {
			date := last.AddDate(0, 0, -i).Format(DateLayout)
			if !yield(date, StatsFor(m, date)) {
				return
			}
		}
	}
}

// DayStats pairs a date with its record.
type DayStats struct {
	Date string `json:"date"`
	models.DailyStats
}

// CollectWindow drains a window into a slice.
func CollectWindow(seq iter.Seq2[string, models.DailyStats]) []DayStats {
	var out []DayStats
	for date, s := range seq {
		out = append(out, DayStats{Date: date, DailyStats: s})
	}
	return out
}

// DailyStats binds the daily aggregation reducers to fw_tracker_data.
type DailyStats struct {
	ch     *state.Channel[models.DailyStatsMap]
	policy MergePolicy
	now    func() time.Time
}

// NewDailyStats uses DefaultMergePolicy when policy is nil.
func NewDailyStats(hub *state.Hub, policy MergePolicy, now func() time.Time) *DailyStats {
	if policy == nil {
		policy = DefaultMergePolicy()
	}
	if now == nil {
		now = time.Now
	}
	return &DailyStats{
		ch:     state.NewChannel(hub, models.KeyTrackerData, models.DailyStatsMap{}),
		policy: policy,
		now:    now,
	}
}

// Channel exposes the underlying channel for subscribers.
func (d *DailyStats) Channel() *state.Channel[models.DailyStatsMap] {
	return d.ch
}

// Today is the current UTC date key.
func (d *DailyStats) Today() string {
	return DateKey(d.now())
}

// Get returns the record for date, zero-filled when absent.
func (d *DailyStats) Get(ctx context.Context, date string) (models.DailyStats, error) {
	if _, err := ParseDate(date); err != nil {
		return models.DailyStats{}, err
	}
	return StatsFor(d.ch.Read(ctx), date), nil
}

// ApplyDelta merges delta into field for date and returns the updated record.
func (d *DailyStats) ApplyDelta(ctx context.Context, date string, field Field, delta float64) (models.DailyStats, error) {
	var out models.DailyStats
	_, err := d.ch.Mutate(ctx, func(m models.DailyStatsMap) (models.DailyStatsMap, bool, error) {
		next, err := ApplyDelta(m, d.policy, date, field, delta)
		if err != nil {
			return m, false, err
		}
		out = StatsFor(next, date)
		return next, true, nil
	})
	return out, err
}

// LogWorkout records workoutID on date and returns the updated record.
func (d *DailyStats) LogWorkout(ctx context.Context, date string, workoutID int, caloriesEstimate float64) (models.DailyStats, error) {
	var out models.DailyStats
	_, err := d.ch.Mutate(ctx, func(m models.DailyStatsMap) (models.DailyStatsMap, bool, error) {
		next, err := LogWorkout(m, d.policy, date, workoutID, caloriesEstimate)
		if err != nil {
			return m, false, err
		}
		out = StatsFor(next, date)
		return next, true, nil
	})
	return out, err
}

// Window snapshots the map once and returns a restartable window over it.
func (d *DailyStats) Window(ctx context.Context, end string, days int) (iter.Seq2[string, models.DailyStats], error) {
	t, err := ParseDate(end)
	if err != nil {
		return nil, err
	}
	return RollingWindow(d.ch.Read(ctx), t, days), nil
}
