// README: Fare splitting between the host and accepted members.
package fare

import (
	"errors"

	"hopper/internal/types"
)

var ErrBadRequest = errors.New("bad request")

// SplitEvenly shares total between riders, rounding each share half up.
func SplitEvenly(total types.Money, riders int) (Split, error) {
	if riders < 1 || total.Amount < 0 {
		return Split{}, ErrBadRequest
	}
	cur := total.Currency
	if cur == "" {
		cur = types.DefaultCurrency
	}
	per := (total.Amount + int64(riders)/2) / int64(riders)
	saved := total.Amount - per
	if saved < 0 {
		saved = 0
	}
	return Split{
		Total:          types.Money{Amount: total.Amount, Currency: cur},
		Riders:         riders,
		PerPerson:      types.Money{Amount: per, Currency: cur},
		SavedPerPerson: types.Money{Amount: saved, Currency: cur},
		TotalSaved:     types.Money{Amount: saved * int64(riders), Currency: cur},
	}, nil
}
