package referral

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fastprodman/refledger/internal/infra/metrics"
	"github.com/fastprodman/refledger/internal/infra/pgutils"
	"github.com/fastprodman/refledger/internal/repos/transactions"
	"github.com/fastprodman/refledger/internal/repos/users"
)

// RequestWithdrawal settles the user's entire balance: the threshold check,
// the debit entry and the balance zeroing happen under one row lock, so a
// propagation crediting the same user concurrently can only land before or
// after the whole settlement, never inside it.
func (s *Service) RequestWithdrawal(ctx context.Context, userID int64, payoutDetails string) (WithdrawResult, error) {
	var amount int64

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		u, err := s.users.LockForUpdate(tx, userID)
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		if u.Balance < s.cfg.WithdrawThreshold {
			return users.ErrInsufficientFunds
		}

		amount = u.Balance

		_, err = s.txns.Insert(tx, transactions.Transaction{
			UserID: userID,
			Amount: -amount,
			Kind:   transactions.KindWithdrawal,
		})
		if err != nil {
			return fmt.Errorf("insert withdrawal: %w", err)
		}

		err = s.users.DecreaseBalance(tx, userID, amount)
		if err != nil {
			return fmt.Errorf("zero balance: %w", err)
		}

		return nil
	})
	if err != nil {
		return WithdrawResult{}, fmt.Errorf("request withdrawal: %w", err)
	}

	metrics.WithdrawalsTotal.Inc()

	adminMsg := fmt.Sprintf(
		"User <strong>%d</strong> requested a payout.\nAmount: %s %s\nDetails: %s",
		userID, FormatMinor(amount), s.cfg.Currency, payoutDetails)

	// Best-effort; the ledger entry is the source of truth.
	nerr := s.notifier.NotifyAdmin(ctx, adminMsg)
	if nerr != nil {
		slog.Warn("admin notification failed", "user_id", userID, "error", nerr)
	}

	s.notifyBestEffort(ctx, userID, "Your withdrawal request was sent to the administrator.")

	return WithdrawResult{Amount: amount}, nil
}
