package models

// UserProfile is the singleton profile shown on the profile page.
// AvatarDataURL holds an encoded image as a data URL.
type UserProfile struct {
	Name          string `json:"name"`
	About         string `json:"about"`
	AvatarDataURL string `json:"avatarDataUrl"`
	Goal          string `json:"goal,omitempty"`
	Weight        int    `json:"weight,omitempty"`
	Height        int    `json:"height,omitempty"`
}

// DefaultProfile is returned until the user saves a profile.
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:   "Guest User",
		About:  "I'm on a journey to get fit!",
		Goal:   "Get Stronger",
		Weight: 70,
		Height: 175,
	}
}
