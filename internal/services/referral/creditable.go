package referral

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fastprodman/refledger/internal/infra/metrics"
	"github.com/fastprodman/refledger/internal/infra/pgutils"
	"github.com/fastprodman/refledger/internal/repos/transactions"
)

// HandleCreditableEvent runs the Registered -> Creditable transition.
//
// The is_creditable flag is checked and flipped under the subject's row
// lock, so a given user triggers propagation at most once no matter how
// many times the qualifying event is re-reported (repeated subscription
// checks, button mashing, crash retries).
func (s *Service) HandleCreditableEvent(ctx context.Context, userID int64, eventID string) (CreditResult, error) {
	if eventID == "" {
		eventID = uuid.NewString()
	}

	var firstTime bool

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		u, err := s.users.LockForUpdate(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		if u.IsCreditable {
			return nil
		}

		firstTime = true

		err = s.users.MarkCreditable(tx, userID, uuid.NewString())
		if err != nil {
			return fmt.Errorf("mark creditable: %w", err)
		}

		return nil
	})
	if err != nil {
		return CreditResult{}, fmt.Errorf("creditable gate: %w", err)
	}

	if !firstTime {
		metrics.CreditableEventsTotal.WithLabelValues("false").Inc()

		return CreditResult{Credited: false}, nil
	}

	credited, err := s.propagate(ctx, userID, eventID)
	if err != nil {
		// The flag is already committed; a retry of the same eventID
		// resumes where this attempt stopped (per-ancestor entries are
		// keyed by the event).
		return CreditResult{Credited: true, CreditedAncestors: credited},
			fmt.Errorf("propagate: %w", err)
	}

	metrics.CreditableEventsTotal.WithLabelValues("true").Inc()

	return CreditResult{Credited: true, CreditedAncestors: credited}, nil
}

// propagate credits BonusAmount to each ancestor of subjectID, nearest
// first, at most MaxLevels deep. One DB transaction per ancestor: at no
// point are two user locks held, so overlapping chains cannot deadlock.
func (s *Service) propagate(ctx context.Context, subjectID int64, eventID string) ([]int64, error) {
	chain, err := s.users.AncestorChain(ctx, subjectID, s.cfg.MaxLevels)
	if err != nil {
		return nil, fmt.Errorf("ancestor chain: %w", err)
	}

	var credited []int64

	for _, ancestor := range chain {
		err = s.creditAncestor(ctx, ancestor.ID, eventID)
		if err != nil {
			if errors.Is(err, transactions.ErrDuplicateTransaction) {
				// Already credited for this event on an earlier attempt.
				continue
			}

			return credited, fmt.Errorf("credit ancestor %d: %w", ancestor.ID, err)
		}

		credited = append(credited, ancestor.ID)

		metrics.BonusesCreditedTotal.Inc()

		s.notifyBestEffort(ctx, ancestor.ID, fmt.Sprintf(
			"You have been credited <strong>%s %s</strong> for a new referral.",
			FormatMinor(s.cfg.BonusAmount), s.cfg.Currency))
	}

	return credited, nil
}

func (s *Service) creditAncestor(ctx context.Context, ancestorID int64, eventID string) error {
	return pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := s.users.LockForUpdate(tx, ancestorID)
		if err != nil {
			return fmt.Errorf("lock ancestor: %w", err)
		}

		_, err = s.txns.Insert(tx, transactions.Transaction{
			UserID:  ancestorID,
			Amount:  s.cfg.BonusAmount,
			Kind:    transactions.KindReferralBonus,
			EventID: &eventID,
		})
		if err != nil {
			return err
		}

		err = s.users.IncreaseBalance(tx, ancestorID, s.cfg.BonusAmount)
		if err != nil {
			return fmt.Errorf("increase balance: %w", err)
		}

		err = s.users.IncrementReferralCount(tx, ancestorID)
		if err != nil {
			return fmt.Errorf("increment referral count: %w", err)
		}

		return nil
	})
}

func (s *Service) notifyBestEffort(ctx context.Context, userID int64, message string) {
	err := s.notifier.Notify(ctx, userID, message)
	if err != nil {
		slog.Warn("notification failed", "user_id", userID, "error", err)
	}
}
