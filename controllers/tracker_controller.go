package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cppla/fitvault/tracker"
	"github.com/cppla/fitvault/utils"
)

const maxWindowDays = 366

// TrackerController serves per-day activity stats.
type TrackerController struct {
	daily *tracker.DailyStats
}

func NewTrackerController(d *tracker.DailyStats) *TrackerController {
	return &TrackerController{daily: d}
}

type deltaRequest struct {
	Field string  `json:"field" binding:"required"`
	Delta float64 `json:"delta"`
}

type workoutRequest struct {
	WorkoutID        int     `json:"workoutId" binding:"required"`
	CaloriesEstimate float64 `json:"caloriesEstimate"`
}

// GetWindow returns ?days= consecutive days ending at ?end=, oldest first.
// end defaults to today and days to 7.
func (t *TrackerController) GetWindow(ctx *gin.Context) {
	end := ctx.DefaultQuery("end", t.daily.Today())
	days, err := strconv.Atoi(ctx.DefaultQuery("days", "7"))
	if err != nil || days < 1 || days > maxWindowDays {
		utils.Error(ctx, http.StatusBadRequest, 40040, "days must be between 1 and 366")
		return
	}
	seq, err := t.daily.Window(ctx.Request.Context(), end, days)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, err.Error())
		return
	}
	utils.Success(ctx, tracker.CollectWindow(seq))
}

// GetDay returns the record for :date, zero-filled when absent.
func (t *TrackerController) GetDay(ctx *gin.Context) {
	s, err := t.daily.Get(ctx.Request.Context(), ctx.Param("date"))
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40041, err.Error())
		return
	}
	utils.Success(ctx, tracker.DayStats{Date: ctx.Param("date"), DailyStats: s})
}

// ApplyDelta merges one field delta into :date.
func (t *TrackerController) ApplyDelta(ctx *gin.Context) {
	var req deltaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40042, "invalid delta payload")
		return
	}
	field, err := tracker.ParseField(req.Field)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40043, err.Error())
		return
	}
	s, err := t.daily.ApplyDelta(ctx.Request.Context(), ctx.Param("date"), field, req.Delta)
	if err != nil {
		respondWriteError(ctx, err, 50040)
		return
	}
	utils.Success(ctx, tracker.DayStats{Date: ctx.Param("date"), DailyStats: s})
}

// LogWorkout records a workout on :date and adds its calories.
func (t *TrackerController) LogWorkout(ctx *gin.Context) {
	var req workoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40044, "invalid workout payload")
		return
	}
	s, err := t.daily.LogWorkout(ctx.Request.Context(), ctx.Param("date"), req.WorkoutID, req.CaloriesEstimate)
	if err != nil {
		respondWriteError(ctx, err, 50041)
		return
	}
	utils.Success(ctx, tracker.DayStats{Date: ctx.Param("date"), DailyStats: s})
}
