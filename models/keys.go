package models

// Storage keys. Each key owns exactly one entity.
const (
	KeyUserProfile       = "fw_user_profile"
	KeyFavoritesWorkouts = "fw_favorites_workouts"
	KeyFavoritesMeals    = "fw_favorites_meals"
	KeyChallengeProgress = "fw_challenge_progress"
	KeyTrackerData       = "fw_tracker_data"
	KeyMealPlan          = "fw_meal_plan"
	KeyFriends           = "fw_friends"
	KeyBookings          = "fw_bookings"
)

// AllKeys lists every persisted key in a stable order.
var AllKeys = []string{
	KeyUserProfile,
	KeyFavoritesWorkouts,
	KeyFavoritesMeals,
	KeyChallengeProgress,
	KeyTrackerData,
	KeyMealPlan,
	KeyFriends,
	KeyBookings,
}
