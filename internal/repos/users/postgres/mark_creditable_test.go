package users

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/fastprodman/refledger/internal/infra/pgtestutil"
)

func TestUsers_MarkCreditable_IdempotentKeepsFirstCode(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	seedUser(t, db, 40, nil)

	repo := New(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	mark := func(code string) {
		t.Helper()

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			t.Fatalf("begin tx: %v", err)
		}
		defer func(tx *sql.Tx) { _ = tx.Rollback() }(tx)

		err = repo.MarkCreditable(tx, 40, code)
		if err != nil {
			t.Fatalf("mark creditable: %v", err)
		}

		err = tx.Commit()
		if err != nil {
			t.Fatalf("commit: %v", err)
		}
	}

	mark("code-first")
	mark("code-second")

	u, err := repo.Get(ctx, 40)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if !u.IsCreditable {
		t.Fatalf("expected creditable after mark")
	}
	if u.ReferralCode == nil || *u.ReferralCode != "code-first" {
		t.Fatalf("referral code: want code-first, got %v", u.ReferralCode)
	}
}
