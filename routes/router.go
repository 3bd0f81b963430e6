package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cppla/fitvault/config"
	"github.com/cppla/fitvault/controllers"
	"github.com/cppla/fitvault/middleware"
	"github.com/cppla/fitvault/state"
	"github.com/cppla/fitvault/tracker"
	"github.com/cppla/fitvault/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(cfg config.AppConfig, hub *state.Hub, t *tracker.Tracker) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	if cfg.LoopbackOnly {
		r.Use(middleware.LoopbackOnly())
	}
	r.Use(middleware.RequestMetrics())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok", "hub": hub.ID()})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	profileController := controllers.NewProfileController(t.Profile)
	relationController := controllers.NewRelationController(t)
	challengeController := controllers.NewChallengeController(t.Challenges)
	trackerController := controllers.NewTrackerController(t.Daily)
	mealPlanController := controllers.NewMealPlanController(t.MealPlan)
	bookingController := controllers.NewBookingController(t.Bookings)
	eventsController := controllers.NewEventsController(hub)

	api := r.Group("/api/v1")
	// not rate limited: one request per open stream
	api.GET("/events", eventsController.Stream)

	limited := api.Group("")
	limited.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute))

	limited.GET("/profile", profileController.GetProfile)
	limited.PUT("/profile", profileController.SaveProfile)

	limited.GET("/favorites/:kind", relationController.ListFavorites)
	limited.POST("/favorites/:kind/:id/toggle", relationController.ToggleFavorite)
	limited.GET("/friends", relationController.ListFriends)
	limited.POST("/friends/:id/toggle", relationController.ToggleFriend)

	limited.GET("/challenges", challengeController.ListChallenges)
	limited.GET("/challenges/:id", challengeController.GetChallenge)
	limited.POST("/challenges/:id/start", challengeController.StartChallenge)
	limited.POST("/challenges/:id/restart", challengeController.RestartChallenge)
	limited.POST("/challenges/:id/days/:day/toggle", challengeController.ToggleDay)
	limited.DELETE("/challenges/:id", challengeController.ResetChallenge)

	limited.GET("/tracker/window", trackerController.GetWindow)
	limited.GET("/tracker/days/:date", trackerController.GetDay)
	limited.POST("/tracker/days/:date/delta", trackerController.ApplyDelta)
	limited.POST("/tracker/days/:date/workouts", trackerController.LogWorkout)

	limited.GET("/meal-plan", mealPlanController.GetPlan)
	limited.POST("/meal-plan", mealPlanController.AddMeal)
	limited.DELETE("/meal-plan/:id", mealPlanController.RemoveMeal)

	limited.GET("/bookings", bookingController.ListBookings)
	limited.POST("/bookings", bookingController.CreateBooking)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "api route not found")
	})

	return r
}
