package users

import (
	"database/sql"

	"github.com/fastprodman/refledger/internal/repos/users"
)

var _ users.Users = (*usersRepo)(nil)

type usersRepo struct{ db *sql.DB }

func New(db *sql.DB) *usersRepo {
	return &usersRepo{db: db}
}

const userColumns = `id, username, balance, referral_count, referral_code,
	is_creditable, referrer_id, invite_link, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (users.User, error) {
	var u users.User

	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Balance,
		&u.ReferralCount,
		&u.ReferralCode,
		&u.IsCreditable,
		&u.ReferrerID,
		&u.InviteLink,
		&u.CreatedAt,
	)
	if err != nil {
		return users.User{}, err
	}

	return u, nil
}
