// README: Profile of a student rider.
package profile

import (
	"time"

	"hopper/internal/types"
)

type Profile struct {
	ID              types.ID
	Name            string
	TrustScore      float64
	PhoneVerified   bool
	ProfileComplete bool
	NoShowCount     int
	ScoreVersion    int
	CreatedAt       time.Time
}

type View struct {
	ID              types.ID `json:"id"`
	Name            string   `json:"name"`
	TrustScore      float64  `json:"trust_score"`
	PhoneVerified   bool     `json:"phone_verified"`
	ProfileComplete bool     `json:"profile_complete"`
}

func NewView(p *Profile) View {
	return View{
		ID:              p.ID,
		Name:            p.Name,
		TrustScore:      p.TrustScore,
		PhoneVerified:   p.PhoneVerified,
		ProfileComplete: p.ProfileComplete,
	}
}
