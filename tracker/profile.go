package tracker

import (
	"context"
	"strings"

	"github.com/cppla/fitvault/models"
	"github.com/cppla/fitvault/state"
	"github.com/cppla/fitvault/utils"
)

// Profile binds the user profile to fw_user_profile.
type Profile struct {
	ch *state.Channel[models.UserProfile]
}

// NewProfile binds the profile with DefaultProfile as the fallback.
func NewProfile(hub *state.Hub) *Profile {
	return &Profile{ch: state.NewChannel(hub, models.KeyUserProfile, models.DefaultProfile())}
}

// Channel exposes the underlying channel for subscribers.
func (p *Profile) Channel() *state.Channel[models.UserProfile] {
	return p.ch
}

// Get returns the saved profile or the default one.
func (p *Profile) Get(ctx context.Context) models.UserProfile {
	return p.ch.Read(ctx)
}

// Save cleans the text fields and replaces the stored profile.
func (p *Profile) Save(ctx context.Context, profile models.UserProfile) (models.UserProfile, error) {
	clean, err := CleanProfile(profile)
	if err != nil {
		return profile, err
	}
	if err := p.ch.Write(ctx, clean); err != nil {
		return profile, err
	}
	return clean, nil
}

// CleanProfile strips markup from free text and checks the avatar.
func CleanProfile(p models.UserProfile) (models.UserProfile, error) {
	p.Name = utils.SanitizeText(p.Name)
	p.About = utils.SanitizeText(p.About)
	p.Goal = utils.SanitizeText(p.Goal)
	p.AvatarDataURL = strings.TrimSpace(p.AvatarDataURL)
	if p.AvatarDataURL != "" && !strings.HasPrefix(p.AvatarDataURL, "data:image/") {
		return p, ErrInvalidAvatar
	}
	return p, nil
}
