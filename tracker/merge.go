package tracker

import (
	"fmt"

	"github.com/cppla/fitvault/models"
)

// Field names a numeric daily stat.
type Field string

const (
	FieldSteps    Field = "steps"
	FieldCalories Field = "calories"
	FieldWater    Field = "water"
	FieldWeight   Field = "weight"
)

// ParseField validates a field name.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldSteps, FieldCalories, FieldWater, FieldWeight:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// MergeStrategy says how a delta combines with the stored value.
type MergeStrategy int

const (
	// Accumulate adds the delta to the stored value.
	Accumulate MergeStrategy = iota + 1
	// Replace overwrites the stored value with the delta.
	Replace
)

func (s MergeStrategy) String() string {
	switch s {
	case Accumulate:
		return "accumulate"
	case Replace:
		return "replace"
	default:
		return fmt.Sprintf("MergeStrategy(%d)", int(s))
	}
}

// MergePolicy assigns a strategy to each field.
type MergePolicy map[Field]MergeStrategy

// DefaultMergePolicy accumulates steps, calories and water and replaces weight.
func DefaultMergePolicy() MergePolicy {
	return MergePolicy{
		FieldSteps:    Accumulate,
		FieldCalories: Accumulate,
		FieldWater:    Accumulate,
		FieldWeight:   Replace,
	}
}

// Merge returns s with delta applied to f under the policy. No floor or
// ceiling is enforced; negative deltas are fine.
func (p MergePolicy) Merge(s models.DailyStats, f Field, delta float64) (models.DailyStats, error) {
	ptr, err := fieldPtr(&s, f)
	if err != nil {
		return s, err
	}
	switch p[f] {
	case Accumulate:
		*ptr += delta
	case Replace:
		*ptr = delta
	default:
		return s, fmt.Errorf("%w: %s", ErrNoMergeStrategy, f)
	}
	return s, nil
}

func fieldPtr(s *models.DailyStats, f Field) (*float64, error) {
	switch f {
	case FieldSteps:
		return &s.Steps, nil
	case FieldCalories:
		return &s.Calories, nil
	case FieldWater:
		return &s.Water, nil
	case FieldWeight:
		return &s.Weight, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, string(f))
}
