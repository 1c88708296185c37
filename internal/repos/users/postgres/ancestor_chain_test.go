package users

import (
	"context"
	"testing"
	"time"

	"github.com/fastprodman/refledger/internal/infra/pgtestutil"
)

func TestUsers_AncestorChain(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	// 1 <- 2 <- 3 <- 4 (4 is the newest, referred by 3, and so on up).
	seedChain(t, db, 1, 2, 3, 4)
	seedUser(t, db, 99, nil) // loner

	repo := New(db)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tests := []struct {
		name     string
		userID   int64
		maxDepth int
		want     []int64 // nearest first
	}{
		{name: "full_chain_within_cap", userID: 4, maxDepth: 5, want: []int64{3, 2, 1}},
		{name: "cap_truncates_chain", userID: 4, maxDepth: 2, want: []int64{3, 2}},
		{name: "cap_of_one", userID: 4, maxDepth: 1, want: []int64{3}},
		{name: "root_has_no_ancestors", userID: 1, maxDepth: 5, want: nil},
		{name: "loner_has_no_ancestors", userID: 99, maxDepth: 5, want: nil},
		{name: "zero_depth_returns_nothing", userID: 4, maxDepth: 0, want: nil},
	}

	for _, tt := range tests {
		tt := tt
		// Subtests share one seeded database, so they run sequentially.
		t.Run(tt.name, func(t *testing.T) {
			chain, err := repo.AncestorChain(ctx, tt.userID, tt.maxDepth)
			if err != nil {
				t.Fatalf("ancestor chain: %v", err)
			}

			if len(chain) != len(tt.want) {
				t.Fatalf("chain length: want %d, got %d", len(tt.want), len(chain))
			}

			for i, want := range tt.want {
				if chain[i].ID != want {
					t.Fatalf("position %d: want %d, got %d", i, want, chain[i].ID)
				}
			}
		})
	}
}
