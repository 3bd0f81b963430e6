package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/fitvault/models"
	"github.com/cppla/fitvault/tracker"
	"github.com/cppla/fitvault/utils"
)

// MealPlanController manages the planned meals and their totals.
type MealPlanController struct {
	plan *tracker.MealPlan
}

func NewMealPlanController(p *tracker.MealPlan) *MealPlanController {
	return &MealPlanController{plan: p}
}

func (m *MealPlanController) respondPlan(ctx *gin.Context) {
	meals := m.plan.List(ctx.Request.Context())
	utils.Success(ctx, gin.H{
		"meals":  meals,
		"totals": tracker.MealTotals(meals),
	})
}

// GetPlan returns the meals with their summed calories and macros.
func (m *MealPlanController) GetPlan(ctx *gin.Context) {
	m.respondPlan(ctx)
}

// AddMeal appends a meal. Adding a meal that is already planned is a conflict.
func (m *MealPlanController) AddMeal(ctx *gin.Context) {
	var req models.Meal
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid meal payload")
		return
	}
	if err := m.plan.Add(ctx.Request.Context(), req); err != nil {
		if errors.Is(err, tracker.ErrMealPresent) {
			utils.Error(ctx, http.StatusConflict, 40950, err.Error())
			return
		}
		respondWriteError(ctx, err, 50050)
		return
	}
	m.respondPlan(ctx)
}

// RemoveMeal drops :id. Removing an absent meal is not an error.
func (m *MealPlanController) RemoveMeal(ctx *gin.Context) {
	id, ok := intParam(ctx, "id")
	if !ok {
		return
	}
	if _, err := m.plan.Remove(ctx.Request.Context(), id); err != nil {
		respondWriteError(ctx, err, 50051)
		return
	}
	m.respondPlan(ctx)
}
