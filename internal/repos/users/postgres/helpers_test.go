package users

import (
	"database/sql"
	"testing"
)

// seedUser inserts a node, optionally with a referrer edge.
func seedUser(t *testing.T, db *sql.DB, id int64, referrerID *int64) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO users (id, referrer_id) VALUES ($1, $2)
	`, id, referrerID)
	if err != nil {
		t.Fatalf("seed user(%d): %v", id, err)
	}
}

// seedChain creates ids[0] <- ids[1] <- ... (each user referred by the
// previous one).
func seedChain(t *testing.T, db *sql.DB, ids ...int64) {
	t.Helper()

	for i, id := range ids {
		if i == 0 {
			seedUser(t, db, id, nil)
			continue
		}

		ref := ids[i-1]
		seedUser(t, db, id, &ref)
	}
}

func ptr[T any](v T) *T { return &v }
