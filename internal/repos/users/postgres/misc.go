package users

import (
	"context"
	"fmt"

	"github.com/fastprodman/refledger/internal/repos/users"
)

func (r *usersRepo) SetInviteLink(ctx context.Context, userID int64, link string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET invite_link = $2
		WHERE id = $1
	`, userID, link)
	if err != nil {
		return fmt.Errorf("set invite link: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrUserNotFound
	}

	return nil
}

func (r *usersRepo) Stats(ctx context.Context) (users.Stats, error) {
	var s users.Stats

	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE referrer_id IS NOT NULL),
			COUNT(*) FILTER (WHERE is_creditable),
			COUNT(*) FILTER (WHERE NOT is_creditable)
		FROM users
	`).Scan(&s.TotalUsers, &s.WithReferrer, &s.Creditable, &s.NotCreditable)
	if err != nil {
		return users.Stats{}, fmt.Errorf("user stats: %w", err)
	}

	return s, nil
}
