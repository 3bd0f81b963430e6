package tracker

import (
	"context"
	"fmt"
	"slices"

	"github.com/cppla/fitvault/models"
	"github.com/cppla/fitvault/state"
)

// AddMeal appends meal unless a meal with the same id is already planned.
func AddMeal(plan []models.Meal, meal models.Meal) ([]models.Meal, bool) {
	if slices.ContainsFunc(plan, func(m models.Meal) bool { return m.ID == meal.ID }) {
		return plan, false
	}
	next := make([]models.Meal, 0, len(plan)+1)
	next = append(next, plan...)
	return append(next, meal), true
}

// RemoveMeal drops the first meal with id.
func RemoveMeal(plan []models.Meal, id int) ([]models.Meal, bool) {
	i := slices.IndexFunc(plan, func(m models.Meal) bool { return m.ID == id })
	if i < 0 {
		return plan, false
	}
	next := make([]models.Meal, 0, len(plan)-1)
	next = append(next, plan[:i]...)
	return append(next, plan[i+1:]...), true
}

// MealTotals sums calories and macros over the plan.
func MealTotals(plan []models.Meal) models.MacroTotals {
	var t models.MacroTotals
	for _, m := range plan {
		t.Calories += m.Calories
		t.Protein += m.Macros.Protein
		t.Carbs += m.Macros.Carbs
		t.Fat += m.Macros.Fat
	}
	return t
}

// MealPlan binds the meal-plan reducers to fw_meal_plan.
type MealPlan struct {
	ch *state.Channel[[]models.Meal]
}

// NewMealPlan binds an empty plan as the default.
func NewMealPlan(hub *state.Hub) *MealPlan {
	return &MealPlan{ch: state.NewChannel(hub, models.KeyMealPlan, []models.Meal{})}
}

// Channel exposes the underlying channel for subscribers.
func (p *MealPlan) Channel() *state.Channel[[]models.Meal] {
	return p.ch
}

// List returns the planned meals in insertion order.
func (p *MealPlan) List(ctx context.Context) []models.Meal {
	return p.ch.Read(ctx)
}

// Add returns ErrMealPresent when the meal is already planned.
func (p *MealPlan) Add(ctx context.Context, meal models.Meal) error {
	_, err := p.ch.Mutate(ctx, func(plan []models.Meal) ([]models.Meal, bool, error) {
		next, added := AddMeal(plan, meal)
		if !added {
			return plan, false, fmt.Errorf("%w: %d", ErrMealPresent, meal.ID)
		}
		return next, true, nil
	})
	return err
}

// Remove drops meal id. Removing an absent meal is a no-op.
func (p *MealPlan) Remove(ctx context.Context, id int) (bool, error) {
	return p.ch.Mutate(ctx, func(plan []models.Meal) ([]models.Meal, bool, error) {
		next, removed := RemoveMeal(plan, id)
		return next, removed, nil
	})
}

// Totals is recomputed from the stored plan on every call.
func (p *MealPlan) Totals(ctx context.Context) models.MacroTotals {
	return MealTotals(p.List(ctx))
}
