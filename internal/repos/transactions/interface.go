package transactions

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrDuplicateTransaction = errors.New("duplicate transaction")

// Kind tags a ledger entry with what produced it.
type Kind string

const (
	KindReferralBonus       Kind = "referral_bonus"
	KindWithdrawal          Kind = "withdrawal"
	KindSubscriptionPayment Kind = "subscription_payment"
)

// Transaction is an immutable ledger entry. Amount is a signed delta in
// minor units. EventID, when set, is the idempotency key of the physical
// event that produced the entry; (user_id, event_id) is unique.
type Transaction struct {
	ID        int64
	UserID    int64
	Amount    int64
	Kind      Kind
	EventID   *string
	CreatedAt time.Time
}

type Transactions interface {
	// Insert appends an entry. A repeated (user, event) pair fails with
	// ErrDuplicateTransaction and writes nothing.
	Insert(tx *sql.Tx, entry Transaction) (Transaction, error)

	// ListByUser returns the user's entries in chronological order
	// (ascending id — stable and restartable via offset).
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Transaction, error)

	// SumByUser returns the signed sum over all of the user's entries.
	SumByUser(ctx context.Context, userID int64) (int64, error)
}
