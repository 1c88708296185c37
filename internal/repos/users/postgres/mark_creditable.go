package users

import (
	"database/sql"
	"fmt"
)

// MarkCreditable is idempotent: repeat calls leave the flag set and keep the
// first assigned referral code.
func (r *usersRepo) MarkCreditable(tx *sql.Tx, userID int64, referralCode string) error {
	_, err := tx.Exec(`
		UPDATE users
		SET is_creditable = TRUE,
		    referral_code = COALESCE(referral_code, $2)
		WHERE id = $1
	`, userID, referralCode)
	if err != nil {
		return fmt.Errorf("mark creditable: %w", err)
	}

	return nil
}
