package users

import (
	"context"
	"fmt"

	"github.com/fastprodman/refledger/internal/repos/users"
)

// AncestorChain returns up to maxDepth ancestors of userID, nearest first.
// The recursive CTE is bounded by depth, so cost tracks the returned chain
// length, not table size, and a malformed over-long chain cannot run away.
func (r *usersRepo) AncestorChain(ctx context.Context, userID int64, maxDepth int) ([]users.User, error) {
	if maxDepth <= 0 {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		WITH RECURSIVE chain AS (
			SELECT u.*, 1 AS depth
			FROM users u
			WHERE u.id = (SELECT referrer_id FROM users WHERE id = $1)
			UNION ALL
			SELECT u.*, c.depth + 1
			FROM users u
			JOIN chain c ON u.id = c.referrer_id
			WHERE c.depth < $2
		)
		SELECT `+userColumns+`
		FROM chain
		ORDER BY depth
	`, userID, maxDepth)
	if err != nil {
		return nil, fmt.Errorf("query ancestor chain: %w", err)
	}
	defer rows.Close()

	var chain []users.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ancestor: %w", err)
		}

		chain = append(chain, u)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate ancestors: %w", err)
	}

	return chain, nil
}
