// README: Match evaluation inputs shared by the evaluator and the service.
package matching

import (
	"hopper/internal/modules/ride"
	"hopper/internal/types"
)

// Proposal is a ride someone is about to create, checked against existing rides.
type Proposal struct {
	ProposerID types.ID
	Draft      ride.Draft
}
