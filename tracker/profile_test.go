package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/fitvault/models"
)

func TestProfileDefaultAndSave(t *testing.T) {
	tr, _ := newTestTracker(t)
	assert.Equal(t, models.DefaultProfile(), tr.Profile.Get(bg))

	saved, err := tr.Profile.Save(bg, models.UserProfile{
		Name:          "  <b>Ada</b> ",
		About:         `Runner <script>alert(1)</script>& climber`,
		AvatarDataURL: "data:image/png;base64,iVBORw0KGgo=",
		Goal:          "Run a marathon",
		Weight:        61,
		Height:        168,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", saved.Name)
	assert.Equal(t, "Runner & climber", saved.About)
	assert.Equal(t, saved, tr.Profile.Get(bg))
}

func TestProfileRejectsNonImageAvatar(t *testing.T) {
	tr, _ := newTestTracker(t)
	_, err := tr.Profile.Save(bg, models.UserProfile{Name: "x", AvatarDataURL: "javascript:alert(1)"})
	assert.ErrorIs(t, err, ErrInvalidAvatar)
	assert.Equal(t, models.DefaultProfile(), tr.Profile.Get(bg))
}
