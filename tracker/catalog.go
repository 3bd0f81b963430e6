package tracker

// Catalog resolves challenge lengths. The full challenge catalog lives with
// the UI; the state layer only needs durations.
type Catalog interface {
	DurationDays(id string) (int, bool)
}

// StaticCatalog maps challenge id to duration in days.
type StaticCatalog map[string]int

func (c StaticCatalog) DurationDays(id string) (int, bool) {
	d, ok := c[id]
	return d, ok
}

// DefaultChallenges is the built-in challenge lineup.
func DefaultChallenges() StaticCatalog {
	return StaticCatalog{
		"pushup-30": 30,
		"yoga-14":   14,
		"abs-30":    30,
		"water-7":   7,
		"steps-21":  21,
		"sugar-10":  10,
	}
}
