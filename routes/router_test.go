package routes

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/fitvault/config"
	"github.com/cppla/fitvault/models"
	"github.com/cppla/fitvault/state"
	"github.com/cppla/fitvault/store"
	"github.com/cppla/fitvault/tracker"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	t       *testing.T
	engine  *gin.Engine
	hub     *state.Hub
	tracker *tracker.Tracker
}

func newTestApp(t *testing.T, s store.ValueStore) *testApp {
	t.Helper()
	cfg := config.AppConfig{
		GinMode:            "test",
		RateLimitPerMinute: 100000,
		AllowedOrigins:     []string{"*"},
		LoopbackOnly:       true,
	}
	hub := state.NewHub(s)
	t.Cleanup(func() { _ = hub.Close() })
	now := func() time.Time { return time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC) }
	tr := tracker.New(hub, tracker.Options{Now: now})
	return &testApp{t: t, engine: SetupRouter(cfg, hub, tr), hub: hub, tracker: tr}
}

func (a *testApp) do(method, path string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "127.0.0.1:40000"
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, store.NewMemoryStore())
	code, env := app.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, env.Code)
}

func TestLoopbackGuard(t *testing.T) {
	app := newTestApp(t, store.NewMemoryStore())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.RemoteAddr = "198.51.100.7:1234"
	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProfileEndpoints(t *testing.T) {
	app := newTestApp(t, store.NewMemoryStore())

	code, env := app.do(http.MethodGet, "/api/v1/profile", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.DefaultProfile(), decode[models.UserProfile](t, env.Data))

	code, env = app.do(http.MethodPut, "/api/v1/profile", models.UserProfile{Name: "<b>Kai</b>", About: "hi", Weight: 80})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Kai", decode[models.UserProfile](t, env.Data).Name)

	code, _ = app.do(http.MethodPut, "/api/v1/profile", models.UserProfile{Name: "Kai", AvatarDataURL: "https://example.com/a.png"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Kai", app.tracker.Profile.Get(context.Background()).Name)
}

func TestFavoritesAndFriends(t *testing.T) {
	app := newTestApp(t, store.NewMemoryStore())

	code, env := app.do(http.MethodPost, "/api/v1/favorites/workouts/12/toggle", nil)
	require.Equal(t, http.StatusOK, code)
	res := decode[struct {
		Member bool  `json:"member"`
		IDs    []int `json:"ids"`
	}](t, env.Data)
	assert.True(t, res.Member)
	assert.Equal(t, []int{12}, res.IDs)

	_, env = app.do(http.MethodGet, "/api/v1/favorites/meals", nil)
	assert.Equal(t, []int{}, decode[[]int](t, env.Data))

	code, _ = app.do(http.MethodGet, "/api/v1/favorites/songs", nil)
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = app.do(http.MethodPost, "/api/v1/friends/abc/toggle", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	app.do(http.MethodPost, "/api/v1/friends/3/toggle", nil)
	_, env = app.do(http.MethodGet, "/api/v1/friends", nil)
	assert.Equal(t, []int{3}, decode[[]int](t, env.Data))
}

type challengeBody struct {
	ID            string `json:"id"`
	Started       bool   `json:"started"`
	Percent       int    `json:"percent"`
	CompletedDays []int  `json:"completedDays"`
	Streak        int    `json:"streak"`
}

func TestChallengeEndpoints(t *testing.T) {
	app := newTestApp(t, store.NewMemoryStore())

	code, env := app.do(http.MethodPost, "/api/v1/challenges/pushup-30/start", nil)
	require.Equal(t, http.StatusOK, code)
	c := decode[challengeBody](t, env.Data)
	assert.True(t, c.Started)
	assert.Equal(t, []int{}, c.CompletedDays)

	code, _ = app.do(http.MethodPost, "/api/v1/challenges/pushup-30/start", nil)
	assert.Equal(t, http.StatusConflict, code)

	_, env = app.do(http.MethodPost, "/api/v1/challenges/pushup-30/days/1/toggle", nil)
	c = decode[challengeBody](t, env.Data)
	assert.Equal(t, []int{1}, c.CompletedDays)
	assert.Equal(t, 3, c.Percent)
	assert.Equal(t, 1, c.Streak)

	_, env = app.do(http.MethodGet, "/api/v1/challenges", nil)
	list := decode[[]challengeBody](t, env.Data)
	require.Len(t, list, 1)
	assert.Equal(t, "pushup-30", list[0].ID)

	code, _ = app.do(http.MethodDelete, "/api/v1/challenges/pushup-30", nil)
	assert.Equal(t, http.StatusOK, code)
	_, env = app.do(http.MethodGet, "/api/v1/challenges/pushup-30", nil)
	assert.False(t, decode[challengeBody](t, env.Data).Started)

	code, _ = app.do(http.MethodPost, "/api/v1/challenges/juggling-5/start", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestTrackerEndpoints(t *testing.T) {
	app := newTestApp(t, store.NewMemoryStore())

	code, _ := app.do(http.MethodPost, "/api/v1/tracker/days/2024-01-09/delta", map[string]any{"field": "steps", "delta": 2500})
	require.Equal(t, http.StatusOK, code)
	code, env := app.do(http.MethodPost, "/api/v1/tracker/days/2024-01-09/workouts", map[string]any{"workoutId": 7, "caloriesEstimate": 350})
	require.Equal(t, http.StatusOK, code)
	day := decode[tracker.DayStats](t, env.Data)
	assert.Equal(t, 350.0, day.Calories)
	assert.Equal(t, []int{7}, day.WorkoutsLogged)

	_, env = app.do(http.MethodGet, "/api/v1/tracker/window", nil)
	window := decode[[]tracker.DayStats](t, env.Data)
	require.Len(t, window, 7)
	assert.Equal(t, "2024-01-04", window[0].Date)
	assert.Equal(t, "2024-01-10", window[6].Date)
	assert.Equal(t, 2500.0, window[5].Steps)

	code, _ = app.do(http.MethodPost, "/api/v1/tracker/days/2024-01-09/delta", map[string]any{"field": "mood", "delta": 1})
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = app.do(http.MethodGet, "/api/v1/tracker/days/yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	code, _ = app.do(http.MethodGet, "/api/v1/tracker/window?days=0", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestMealPlanEndpoints(t *testing.T) {
	app := newTestApp(t, store.NewMemoryStore())
	m := models.Meal{ID: 1, Title: "Oats", Calories: 300, Macros: models.Macros{Protein: 10, Carbs: 50, Fat: 6}}

	code, env := app.do(http.MethodPost, "/api/v1/meal-plan", m)
	require.Equal(t, http.StatusOK, code)
	plan := decode[struct {
		Meals  []models.Meal      `json:"meals"`
		Totals models.MacroTotals `json:"totals"`
	}](t, env.Data)
	assert.Len(t, plan.Meals, 1)
	assert.Equal(t, 300.0, plan.Totals.Calories)

	code, _ = app.do(http.MethodPost, "/api/v1/meal-plan", m)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = app.do(http.MethodDelete, "/api/v1/meal-plan/1", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, app.tracker.MealPlan.List(context.Background()))
}

func TestBookingEndpoints(t *testing.T) {
	app := newTestApp(t, store.NewMemoryStore())

	code, env := app.do(http.MethodPost, "/api/v1/bookings", map[string]any{"trainerId": 2, "trainerName": "Lee"})
	require.Equal(t, http.StatusCreated, code)
	b := decode[models.Booking](t, env.Data)
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "10:00 AM", b.Time)

	code, _ = app.do(http.MethodPost, "/api/v1/bookings", map[string]any{"trainerName": "Lee"})
	assert.Equal(t, http.StatusBadRequest, code)

	_, env = app.do(http.MethodGet, "/api/v1/bookings", nil)
	assert.Len(t, decode[[]models.Booking](t, env.Data), 1)
}

func TestCapacityExceededIs507(t *testing.T) {
	q, err := store.NewQuota(context.Background(), store.NewMemoryStore(), 64)
	require.NoError(t, err)
	app := newTestApp(t, q)

	code, env := app.do(http.MethodPut, "/api/v1/profile", models.UserProfile{Name: strings.Repeat("x", 100)})
	assert.Equal(t, http.StatusInsufficientStorage, code)
	assert.Equal(t, 50701, env.Code)
	assert.Equal(t, models.DefaultProfile(), app.tracker.Profile.Get(context.Background()))
}

func TestEventsStream(t *testing.T) {
	app := newTestApp(t, store.NewMemoryStore())
	srv := httptest.NewServer(app.engine)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/events", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	lines := bufio.NewScanner(resp.Body)
	next := func() string {
		for lines.Scan() {
			if l := lines.Text(); strings.HasPrefix(l, "event:") {
				return strings.TrimPrefix(l, "event:")
			}
		}
		return ""
	}
	require.Equal(t, "ready", next())

	_, err = app.tracker.Friends.Toggle(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, models.KeyFriends, next())
}
