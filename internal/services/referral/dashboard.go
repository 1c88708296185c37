package referral

import (
	"context"
	"fmt"

	"github.com/fastprodman/refledger/internal/repos/transactions"
	"github.com/fastprodman/refledger/internal/repos/users"
)

func (s *Service) Dashboard(ctx context.Context, userID int64) (Dashboard, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return Dashboard{}, fmt.Errorf("get user: %w", err)
	}

	return Dashboard{
		Balance:       u.Balance,
		ReferralCount: u.ReferralCount,
		ReferralLink:  s.referralLink(u),
		InviteLink:    u.InviteLink,
	}, nil
}

func (s *Service) AdminStats(ctx context.Context) (users.Stats, error) {
	st, err := s.users.Stats(ctx)
	if err != nil {
		return users.Stats{}, fmt.Errorf("stats: %w", err)
	}

	return st, nil
}

// Transactions returns a chronological page of the user's ledger.
func (s *Service) Transactions(ctx context.Context, userID int64, limit, offset int) ([]transactions.Transaction, error) {
	// Ensure the id refers to a registered user so an empty page and an
	// unknown user are distinguishable.
	_, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	list, err := s.txns.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	return list, nil
}

// SetInviteLink stores the platform-specific chat invite link created by the
// front-end for this user.
func (s *Service) SetInviteLink(ctx context.Context, userID int64, link string) error {
	err := s.users.SetInviteLink(ctx, userID, link)
	if err != nil {
		return fmt.Errorf("set invite link: %w", err)
	}

	return nil
}
