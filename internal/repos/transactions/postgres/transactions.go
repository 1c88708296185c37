package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastprodman/refledger/internal/repos/transactions"
)

var _ transactions.Transactions = (*transactionsRepo)(nil)

type transactionsRepo struct{ db *sql.DB }

func New(db *sql.DB) *transactionsRepo {
	return &transactionsRepo{db: db}
}

func (r *transactionsRepo) Insert(tx *sql.Tx, entry transactions.Transaction) (transactions.Transaction, error) {
	row := tx.QueryRow(`
		INSERT INTO transactions (user_id, amount, kind, event_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, entry.UserID, entry.Amount, entry.Kind, entry.EventID)

	err := row.Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // unique_violation
				return transactions.Transaction{}, transactions.ErrDuplicateTransaction
			}
		}

		return transactions.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	return entry, nil
}

func (r *transactionsRepo) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]transactions.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount, kind, event_id, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY id
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []transactions.Transaction

	for rows.Next() {
		var t transactions.Transaction

		err = rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Kind, &t.EventID, &t.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}

		out = append(out, t)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return out, nil
}

func (r *transactionsRepo) SumByUser(ctx context.Context, userID int64) (int64, error) {
	var sum int64

	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
	`, userID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum transactions: %w", err)
	}

	return sum, nil
}
