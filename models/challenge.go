package models

import "time"

// ChallengeProgress tracks one started challenge. CompletedDays holds 1-based
// day indices, each at most once.
type ChallengeProgress struct {
	StartDate     time.Time `json:"startDate"`
	CompletedDays []int     `json:"completedDays"`
	Streak        int       `json:"streak"`
}

// ChallengeProgressMap maps challenge id to its progress entry.
type ChallengeProgressMap map[string]ChallengeProgress

// Clone returns a copy that shares no slices with m.
func (m ChallengeProgressMap) Clone() ChallengeProgressMap {
	out := make(ChallengeProgressMap, len(m))
	for id, p := range m {
		p.CompletedDays = append([]int{}, p.CompletedDays...)
		out[id] = p
	}
	return out
}
