package controllers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/cppla/fitvault/models"
	"github.com/cppla/fitvault/tracker"
	"github.com/cppla/fitvault/utils"
)

// ChallengeController exposes the challenge lifecycle.
type ChallengeController struct {
	challenges *tracker.Challenges
}

func NewChallengeController(c *tracker.Challenges) *ChallengeController {
	return &ChallengeController{challenges: c}
}

type challengeView struct {
	ID      string `json:"id"`
	Started bool   `json:"started"`
	Percent int    `json:"percent"`
	models.ChallengeProgress
}

func (c *ChallengeController) view(ctx *gin.Context, id string) (challengeView, error) {
	p, started := c.challenges.Get(ctx.Request.Context(), id)
	pct, err := c.challenges.PercentComplete(ctx.Request.Context(), id)
	if err != nil {
		return challengeView{}, err
	}
	return challengeView{ID: id, Started: started, Percent: pct, ChallengeProgress: p}, nil
}

// ListChallenges returns every started challenge with its percent, ordered by id.
func (c *ChallengeController) ListChallenges(ctx *gin.Context) {
	all := c.challenges.All(ctx.Request.Context())
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]challengeView, 0, len(ids))
	for _, id := range ids {
		v, err := c.view(ctx, id)
		if err != nil {
			// progress for a challenge the catalog no longer knows
			v = challengeView{ID: id, Started: true, ChallengeProgress: all[id]}
		}
		out = append(out, v)
	}
	utils.Success(ctx, out)
}

// GetChallenge returns progress and percent for :id.
func (c *ChallengeController) GetChallenge(ctx *gin.Context) {
	v, err := c.view(ctx, ctx.Param("id"))
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, err.Error())
		return
	}
	utils.Success(ctx, v)
}

// StartChallenge begins :id today.
func (c *ChallengeController) StartChallenge(ctx *gin.Context) {
	if !c.known(ctx) {
		return
	}
	if err := c.challenges.Start(ctx.Request.Context(), ctx.Param("id")); err != nil {
		if isValidation(err) {
			utils.Error(ctx, http.StatusConflict, 40930, err.Error())
			return
		}
		respondWriteError(ctx, err, 50030)
		return
	}
	c.GetChallenge(ctx)
}

// RestartChallenge wipes :id and begins it again today.
func (c *ChallengeController) RestartChallenge(ctx *gin.Context) {
	if !c.known(ctx) {
		return
	}
	if err := c.challenges.Restart(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondWriteError(ctx, err, 50031)
		return
	}
	c.GetChallenge(ctx)
}

// ToggleDay flips :day. Toggling a challenge that was never started changes nothing.
func (c *ChallengeController) ToggleDay(ctx *gin.Context) {
	if !c.known(ctx) {
		return
	}
	day, ok := intParam(ctx, "day")
	if !ok {
		return
	}
	if _, err := c.challenges.ToggleDay(ctx.Request.Context(), ctx.Param("id"), day); err != nil {
		respondWriteError(ctx, err, 50032)
		return
	}
	c.GetChallenge(ctx)
}

// ResetChallenge drops all progress for :id.
func (c *ChallengeController) ResetChallenge(ctx *gin.Context) {
	removed, err := c.challenges.Reset(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondWriteError(ctx, err, 50033)
		return
	}
	utils.Success(ctx, gin.H{"id": ctx.Param("id"), "removed": removed})
}

func (c *ChallengeController) known(ctx *gin.Context) bool {
	if !c.challenges.Known(ctx.Param("id")) {
		utils.Error(ctx, http.StatusNotFound, 40430, "unknown challenge")
		return false
	}
	return true
}
