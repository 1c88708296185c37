package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fastprodman/refledger/internal/infra/pgtestutil"
	"github.com/fastprodman/refledger/internal/repos/users"
)

func TestUsers_Stats(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	// 1 <- 2 <- 3, plus a loner; mark 1 and 2 creditable.
	seedChain(t, db, 1, 2, 3)
	seedUser(t, db, 9, nil)

	_, err := db.Exec(`UPDATE users SET is_creditable = TRUE WHERE id IN (1, 2)`)
	if err != nil {
		t.Fatalf("seed creditable: %v", err)
	}

	repo := New(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	want := users.Stats{TotalUsers: 4, WithReferrer: 2, Creditable: 2, NotCreditable: 2}
	if st != want {
		t.Fatalf("stats mismatch: want %+v, got %+v", want, st)
	}
}

func TestUsers_SetInviteLink(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	seedUser(t, db, 50, nil)

	repo := New(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := repo.SetInviteLink(ctx, 50, "https://t.me/+abcdef")
	if err != nil {
		t.Fatalf("set invite link: %v", err)
	}

	u, err := repo.Get(ctx, 50)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}

	if u.InviteLink == nil || *u.InviteLink != "https://t.me/+abcdef" {
		t.Fatalf("invite link: got %v", u.InviteLink)
	}

	err = repo.SetInviteLink(ctx, 51, "x")
	if !errors.Is(err, users.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for unknown user, got %v", err)
	}
}
