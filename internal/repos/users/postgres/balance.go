package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/refledger/internal/repos/users"
)

func (r *usersRepo) GetBalance(ctx context.Context, userID int64) (int64, error) {
	var balance int64

	err := r.db.QueryRowContext(ctx, `
		SELECT balance
		FROM users
		WHERE id = $1
	`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, users.ErrUserNotFound
		}

		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

func (r *usersRepo) IncreaseBalance(tx *sql.Tx, userID int64, amount int64) error {
	_, err := tx.Exec(`
		UPDATE users
		SET balance = balance + $2
		WHERE id = $1
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("increase balance: %w", err)
	}

	return nil
}

func (r *usersRepo) DecreaseBalance(tx *sql.Tx, userID int64, amount int64) error {
	res, err := tx.Exec(`
		UPDATE users
		SET balance = balance - $2
		WHERE id = $1
		  AND balance >= $2
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("decrease balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrInsufficientFunds
	}

	return nil
}

func (r *usersRepo) IncrementReferralCount(tx *sql.Tx, userID int64) error {
	_, err := tx.Exec(`
		UPDATE users
		SET referral_count = referral_count + 1
		WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("increment referral count: %w", err)
	}

	return nil
}
