// Package tracker holds the fitness reducers and binds them to state channels.
//
// Each feature has pure functions that take the current stored value and
// return the next one without mutating their input, plus a small facade that
// runs them through a state.Channel so read-compute-write happens under the
// channel's per-key lock.
package tracker

import (
	"time"

	"github.com/cppla/fitvault/models"
	"github.com/cppla/fitvault/state"
)

// Tracker groups every feature bound to one hub.
type Tracker struct {
	Profile          *Profile
	FavoriteWorkouts *IDSet
	FavoriteMeals    *IDSet
	Friends          *IDSet
	Challenges       *Challenges
	Daily            *DailyStats
	MealPlan         *MealPlan
	Bookings         *Bookings
}

// Options tune New. Zero values pick the defaults.
type Options struct {
	Catalog Catalog
	Policy  MergePolicy
	Now     func() time.Time
}

func New(hub *state.Hub, opts Options) *Tracker {
	return &Tracker{
		Profile:          NewProfile(hub),
		FavoriteWorkouts: NewIDSet(hub, models.KeyFavoritesWorkouts),
		FavoriteMeals:    NewIDSet(hub, models.KeyFavoritesMeals),
		Friends:          NewIDSet(hub, models.KeyFriends),
		Challenges:       NewChallenges(hub, opts.Catalog, opts.Now),
		Daily:            NewDailyStats(hub, opts.Policy, opts.Now),
		MealPlan:         NewMealPlan(hub),
		Bookings:         NewBookings(hub, opts.Now),
	}
}
