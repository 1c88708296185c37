package users

import (
	"database/sql"
	"fmt"

	"github.com/fastprodman/refledger/internal/repos/users"
)

// cycleWalkCap bounds the ancestor walk of the cycle check. In a forest
// built by set-once assignment a cycle can only enter through the node
// itself, so any real chain is far shorter than this.
const cycleWalkCap = 1000

func (r *usersRepo) SetReferrer(tx *sql.Tx, userID, referrerID int64) error {
	if userID == referrerID {
		return fmt.Errorf("self-reference: %w", users.ErrInvalidReferrer)
	}

	reaches, err := chainReaches(tx, referrerID, userID)
	if err != nil {
		return fmt.Errorf("cycle check: %w", err)
	}

	if reaches {
		return fmt.Errorf("cycle: %w", users.ErrInvalidReferrer)
	}

	// First assignment wins; an already-set referrer is a silent no-op.
	_, err = tx.Exec(`
		UPDATE users
		SET referrer_id = $2
		WHERE id = $1
		  AND referrer_id IS NULL
	`, userID, referrerID)
	if err != nil {
		return fmt.Errorf("set referrer: %w", err)
	}

	return nil
}

// chainReaches reports whether target appears on the referrer chain starting
// at (and including) from. The walk is bounded, never recursive.
func chainReaches(tx *sql.Tx, from, target int64) (bool, error) {
	var found bool

	err := tx.QueryRow(`
		WITH RECURSIVE chain(id, referrer_id, depth) AS (
			SELECT u.id, u.referrer_id, 1
			FROM users u
			WHERE u.id = $1
			UNION ALL
			SELECT u.id, u.referrer_id, c.depth + 1
			FROM users u
			JOIN chain c ON u.id = c.referrer_id
			WHERE c.depth < $3
		)
		SELECT EXISTS (SELECT 1 FROM chain WHERE id = $2)
	`, from, target, cycleWalkCap).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("walk chain: %w", err)
	}

	return found, nil
}
