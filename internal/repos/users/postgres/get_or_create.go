package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/refledger/internal/repos/users"
)

// GetOrCreate inserts the node on first contact; the DO NOTHING + re-select
// makes concurrent first contacts converge on one row.
func (r *usersRepo) GetOrCreate(ctx context.Context, userID int64, username *string) (users.User, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, username)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`, userID, username)
	if err != nil {
		return users.User{}, fmt.Errorf("insert user: %w", err)
	}

	u, err := r.Get(ctx, userID)
	if err != nil {
		return users.User{}, fmt.Errorf("reload user: %w", err)
	}

	// Backfill the username for nodes created earlier as bare referrer
	// placeholders.
	if u.Username == nil && username != nil {
		_, err = r.db.ExecContext(ctx, `
			UPDATE users SET username = $2
			WHERE id = $1 AND username IS NULL
		`, userID, username)
		if err != nil {
			return users.User{}, fmt.Errorf("backfill username: %w", err)
		}

		u.Username = username
	}

	return u, nil
}

func (r *usersRepo) Get(ctx context.Context, userID int64) (users.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, userID)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrUserNotFound
		}

		return users.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}
