// README: Fare split result for a shared ride.
package fare

import "hopper/internal/types"

// Split is how a fare divides between riders, compared with each rider paying
// the whole fare alone.
type Split struct {
	Total          types.Money `json:"total"`
	Riders         int         `json:"riders"`
	PerPerson      types.Money `json:"per_person"`
	SavedPerPerson types.Money `json:"saved_per_person"`
	TotalSaved     types.Money `json:"total_saved"`
}
