package models

// DailyStats accumulates one calendar day of activity.
type DailyStats struct {
	Steps          float64 `json:"steps"`
	Calories       float64 `json:"calories"`
	Water          float64 `json:"water"`
	Weight         float64 `json:"weight"`
	WorkoutsLogged []int   `json:"workoutsLogged"`
}

// EmptyDailyStats is the all-zero record used for days without activity.
func EmptyDailyStats() DailyStats {
	return DailyStats{WorkoutsLogged: []int{}}
}

// DailyStatsMap maps an ISO date (YYYY-MM-DD) to that day's record.
type DailyStatsMap map[string]DailyStats

// Clone returns a copy that shares no slices with m.
func (m DailyStatsMap) Clone() DailyStatsMap {
	out := make(DailyStatsMap, len(m))
	for date, s := range m {
		s.WorkoutsLogged = append([]int{}, s.WorkoutsLogged...)
		out[date] = s
	}
	return out
}
