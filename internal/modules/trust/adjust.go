// README: Trust score arithmetic.
package trust

import "math"

const (
	Floor = 1.0

	DeltaCompletion = 1.0
	DeltaLateCancel = -2.0
	DeltaNoShow     = -5.0
)

// Adjust applies delta and clamps the result at Floor. It does not know why the
// delta is applied.
func Adjust(old, delta float64) float64 {
	return math.Max(Floor, old+delta)
}
