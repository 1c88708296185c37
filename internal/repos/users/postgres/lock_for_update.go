package users

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/refledger/internal/repos/users"
)

// LockForUpdate serializes all read-modify-write flows on one user: the row
// lock is held until the surrounding transaction commits or rolls back.
func (r *usersRepo) LockForUpdate(tx *sql.Tx, userID int64) (users.User, error) {
	row := tx.QueryRow(`
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, userID)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrUserNotFound
		}

		return users.User{}, fmt.Errorf("lock user: %w", err)
	}

	return u, nil
}
