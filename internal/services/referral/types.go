package referral

import "fmt"

type UserSnapshot struct {
	UserID        int64
	Username      *string
	Balance       int64
	ReferralCount int
	IsCreditable  bool
	ReferrerID    *int64
	ReferralLink  string
	InviteLink    *string
}

// CreditResult reports what a creditable event did. Credited is false when
// the event was a replay for an already-creditable user.
type CreditResult struct {
	Credited          bool
	CreditedAncestors []int64
}

type WithdrawResult struct {
	// Amount is the full balance that was withdrawn, minor units.
	Amount int64
}

type Dashboard struct {
	Balance       int64
	ReferralCount int
	ReferralLink  string
	InviteLink    *string
}

// FormatMinor renders minor units as a 2-decimal string ("4.00").
func FormatMinor(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}
