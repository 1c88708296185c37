package referral

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fastprodman/refledger/internal/infra/metrics"
	"github.com/fastprodman/refledger/internal/infra/pgutils"
	"github.com/fastprodman/refledger/internal/repos/users"
)

// RegisterUser creates the node on first contact and, when a valid referrer
// is supplied, pins it. A user naming themself as referrer (or any
// cycle-forming assignment) is registered with no referrer — the referral is
// dropped, not surfaced as an error.
func (s *Service) RegisterUser(ctx context.Context, userID int64, username *string, referrerID *int64) (UserSnapshot, error) {
	wantReferrer := referrerID != nil && *referrerID != userID

	if wantReferrer {
		// The referrer may not have talked to us yet; create the node so
		// the edge has somewhere to point.
		_, err := s.users.GetOrCreate(ctx, *referrerID, nil)
		if err != nil {
			return UserSnapshot{}, fmt.Errorf("ensure referrer: %w", err)
		}
	}

	u, err := s.users.GetOrCreate(ctx, userID, username)
	if err != nil {
		return UserSnapshot{}, fmt.Errorf("get or create user: %w", err)
	}

	if wantReferrer && u.ReferrerID == nil {
		err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
			_, lerr := s.users.LockForUpdate(tx, userID)
			if lerr != nil {
				return fmt.Errorf("lock user: %w", lerr)
			}

			return s.users.SetReferrer(tx, userID, *referrerID)
		})
		if err != nil {
			if !errors.Is(err, users.ErrInvalidReferrer) {
				return UserSnapshot{}, fmt.Errorf("set referrer: %w", err)
			}

			slog.Warn("referral ignored",
				"user_id", userID, "referrer_id", *referrerID, "reason", err)
		}

		u, err = s.users.Get(ctx, userID)
		if err != nil {
			return UserSnapshot{}, fmt.Errorf("reload user: %w", err)
		}
	}

	metrics.UsersRegisteredTotal.Inc()

	return s.snapshot(u), nil
}

func (s *Service) snapshot(u users.User) UserSnapshot {
	return UserSnapshot{
		UserID:        u.ID,
		Username:      u.Username,
		Balance:       u.Balance,
		ReferralCount: u.ReferralCount,
		IsCreditable:  u.IsCreditable,
		ReferrerID:    u.ReferrerID,
		ReferralLink:  s.referralLink(u),
		InviteLink:    u.InviteLink,
	}
}

// referralLink is non-empty only once the user is creditable.
func (s *Service) referralLink(u users.User) string {
	if !u.IsCreditable || u.ReferralCode == nil {
		return ""
	}

	bot := s.settings.Snapshot().BotUsername

	return fmt.Sprintf("https://t.me/%s?start=%d", bot, u.ID)
}
