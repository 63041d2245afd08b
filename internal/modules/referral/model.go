// README: Referral model, codes and status definitions.
package referral

import (
	"encoding/base64"
	"errors"
	"time"

	"hopper/internal/types"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Credit is paid to the referrer for each completed referral.
var Credit = types.Money{Amount: 50, Currency: types.DefaultCurrency}

var ErrInvalidCode = errors.New("invalid referral code")

type Referral struct {
	ID           types.ID    `json:"id"`
	ReferrerID   types.ID    `json:"referrer_id"`
	RefereeID    types.ID    `json:"referee_id"`
	CreditAmount types.Money `json:"credit_amount"`
	Status       Status      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	CompletedAt  *time.Time  `json:"completed_at,omitempty"`
}

type Stats struct {
	Code      string      `json:"code"`
	Total     int         `json:"total_referrals"`
	Completed int         `json:"completed_referrals"`
	Pending   int         `json:"pending_referrals"`
	Earned    types.Money `json:"total_earned"`
}

type Leader struct {
	ReferrerID types.ID `json:"referrer_id"`
	Count      int      `json:"count"`
}

// Code is the shareable form of a user id. It round-trips through Decode.
func Code(userID types.ID) string {
	return base64.RawURLEncoding.EncodeToString([]byte(userID))
}

// Decode accepts codes with or without padding.
func Decode(code string) (types.ID, error) {
	raw, err := base64.RawURLEncoding.DecodeString(trimPadding(code))
	if err != nil || len(raw) == 0 {
		return "", ErrInvalidCode
	}
	return types.ID(raw), nil
}

func trimPadding(s string) string {
	for len(s) > 0 && s[len(s)-1] == '=' {
		s = s[:len(s)-1]
	}
	return s
}
