// README: Badge catalog and the stats it is evaluated against.
package badge

type Category string

const (
	CategoryRides       Category = "rides"
	CategoryTrust       Category = "trust"
	CategoryReferral    Category = "referral"
	CategoryReliability Category = "reliability"
)

type Badge struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Category    Category `json:"category"`
	// Requirement is a ride count, referral count or trust score depending on Category.
	Requirement float64 `json:"requirement"`
}

var Catalog = []Badge{
	{ID: "first_split", Name: "First Split", Description: "Completed your first shared ride", Icon: "🎉", Category: CategoryRides, Requirement: 1},
	{ID: "10_rides", Name: "Road Tripper", Description: "Completed 10 rides", Icon: "🚗", Category: CategoryRides, Requirement: 10},
	{ID: "50_rides", Name: "Travel Master", Description: "Completed 50 rides", Icon: "🌍", Category: CategoryRides, Requirement: 50},
	{ID: "trusted_user", Name: "Trusted User", Description: "Reached 4.5+ trust score", Icon: "⭐", Category: CategoryTrust, Requirement: 4.5},
	{ID: "referral_king", Name: "Referral King", Description: "Successfully referred 5 friends", Icon: "👑", Category: CategoryReferral, Requirement: 5},
	{ID: "reliable_rider", Name: "Reliable Rider", Description: "Zero no-shows in 20 rides", Icon: "✅", Category: CategoryReliability, Requirement: 20},
}

type Stats struct {
	CompletedRides     int
	TrustScore         float64
	CompletedReferrals int
	NoShows            int
}
