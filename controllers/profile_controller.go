package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/fitvault/models"
	"github.com/cppla/fitvault/tracker"
	"github.com/cppla/fitvault/utils"
)

// ProfileController reads and saves the user profile.
type ProfileController struct {
	profile *tracker.Profile
}

func NewProfileController(p *tracker.Profile) *ProfileController {
	return &ProfileController{profile: p}
}

// GetProfile returns the saved profile, or the default one.
func (p *ProfileController) GetProfile(ctx *gin.Context) {
	utils.Success(ctx, p.profile.Get(ctx.Request.Context()))
}

// SaveProfile replaces the whole profile.
func (p *ProfileController) SaveProfile(ctx *gin.Context) {
	var req models.UserProfile
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid profile payload")
		return
	}
	saved, err := p.profile.Save(ctx.Request.Context(), req)
	if err != nil {
		respondWriteError(ctx, err, 50010)
		return
	}
	utils.Success(ctx, saved)
}
