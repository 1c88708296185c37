package users

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidReferrer   = errors.New("invalid referrer")
)

// User is a node of the referral forest. Balance is minor units and is a
// materialized cache of the user's ledger sum; the repo only moves it inside
// the same DB transaction as the matching ledger insert.
type User struct {
	ID            int64
	Username      *string
	Balance       int64
	ReferralCount int
	ReferralCode  *string
	IsCreditable  bool
	ReferrerID    *int64
	InviteLink    *string
	CreatedAt     time.Time
}

// Stats are the admin counters over the whole user table.
type Stats struct {
	TotalUsers    int64
	WithReferrer  int64
	Creditable    int64
	NotCreditable int64
}

type Users interface {
	// GetOrCreate returns the existing node or inserts a fresh one
	// (zero balance, not creditable, no referrer). Idempotent.
	GetOrCreate(ctx context.Context, userID int64, username *string) (User, error)

	// Get returns the node or ErrUserNotFound.
	Get(ctx context.Context, userID int64) (User, error)

	// LockForUpdate locks the user's row for the duration of tx and
	// returns its current state. This is the per-user exclusive section.
	LockForUpdate(tx *sql.Tx, userID int64) (User, error)

	// SetReferrer assigns referrer_id if it is currently NULL; an
	// already-set referrer is a silent no-op (first assignment wins).
	// Self-reference and cycle-forming assignments fail with
	// ErrInvalidReferrer and leave the node untouched.
	SetReferrer(tx *sql.Tx, userID, referrerID int64) error

	// MarkCreditable flips is_creditable and assigns referralCode if the
	// node has none yet. Idempotent.
	MarkCreditable(tx *sql.Tx, userID int64, referralCode string) error

	// AncestorChain follows referrer_id links upward from userID,
	// nearest ancestor first, stopping at a missing referrer or at
	// maxDepth, whichever comes first.
	AncestorChain(ctx context.Context, userID int64, maxDepth int) ([]User, error)

	IncreaseBalance(tx *sql.Tx, userID int64, amount int64) error
	DecreaseBalance(tx *sql.Tx, userID int64, amount int64) error
	IncrementReferralCount(tx *sql.Tx, userID int64) error

	GetBalance(ctx context.Context, userID int64) (int64, error)
	SetInviteLink(ctx context.Context, userID int64, link string) error
	Stats(ctx context.Context) (Stats, error)
}
