package referral

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastprodman/refledger/internal/repos/transactions"
)

// Chain 1 <- 2 <- 3 <- 4 (4 is the newest). 4 becoming creditable credits
// 3, 2, 1 — nearest first, 4.00 each; 4's own balance stays 0.
func TestHandleCreditableEvent_CreditsChainNearestFirst(t *testing.T) {
	t.Parallel()

	svc, notifier, cleanup := newTestService(t, defaultTestConfig())
	defer cleanup()

	ctx := context.Background()

	registerChain(t, svc, 1, 2, 3, 4)

	res, err := svc.HandleCreditableEvent(ctx, 4, "evt-sub-4")
	require.NoError(t, err)
	require.True(t, res.Credited)
	require.Equal(t, []int64{3, 2, 1}, res.CreditedAncestors)

	for _, id := range []int64{1, 2, 3} {
		require.Equal(t, int64(400), balanceOf(t, svc, id))

		list, err := svc.txns.ListByUser(ctx, id, 10, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, transactions.KindReferralBonus, list[0].Kind)
		require.Equal(t, int64(400), list[0].Amount)
	}

	require.Equal(t, int64(0), balanceOf(t, svc, 4), "subject must never credit itself")

	requireLedgerConsistent(t, svc, 1, 2, 3, 4)

	msgs := notifier.userMessages()
	require.Len(t, msgs, 3)
	require.Equal(t, int64(3), msgs[0].UserID)
	require.Contains(t, msgs[0].Message, "4.00 UAH")
}

func TestHandleCreditableEvent_DepthCapTruncates(t *testing.T) {
	t.Parallel()

	cfg := defaultTestConfig()
	cfg.MaxLevels = 2

	svc, _, cleanup := newTestService(t, cfg)
	defer cleanup()

	ctx := context.Background()

	registerChain(t, svc, 1, 2, 3, 4)

	res, err := svc.HandleCreditableEvent(ctx, 4, "evt-sub-4")
	require.NoError(t, err)
	require.Equal(t, []int64{3, 2}, res.CreditedAncestors)

	require.Equal(t, int64(400), balanceOf(t, svc, 3))
	require.Equal(t, int64(400), balanceOf(t, svc, 2))
	require.Equal(t, int64(0), balanceOf(t, svc, 1), "ancestor beyond the cap must not be credited")

	requireLedgerConsistent(t, svc, 1, 2, 3, 4)
}

func TestHandleCreditableEvent_ReplayIsNoop(t *testing.T) {
	t.Parallel()

	svc, _, cleanup := newTestService(t, defaultTestConfig())
	defer cleanup()

	ctx := context.Background()

	registerChain(t, svc, 1, 2)

	first, err := svc.HandleCreditableEvent(ctx, 2, "evt-a")
	require.NoError(t, err)
	require.True(t, first.Credited)

	// Same user again, even with a fresh event id: the persisted flag
	// gates it, not the caller-supplied id.
	second, err := svc.HandleCreditableEvent(ctx, 2, "evt-b")
	require.NoError(t, err)
	require.False(t, second.Credited)
	require.Empty(t, second.CreditedAncestors)

	require.Equal(t, int64(400), balanceOf(t, svc, 1))

	requireLedgerConsistent(t, svc, 1, 2)
}

func TestHandleCreditableEvent_ConcurrentTriggersCreditOnce(t *testing.T) {
	t.Parallel()

	svc, _, cleanup := newTestService(t, defaultTestConfig())
	defer cleanup()

	ctx := context.Background()

	registerChain(t, svc, 1, 2)

	const workers = 4

	var wg sync.WaitGroup

	results := make([]CreditResult, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func(i int) {
			defer wg.Done()

			results[i], errs[i] = svc.HandleCreditableEvent(ctx, 2, "evt-race")
		}(i)
	}

	wg.Wait()

	credited := 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		if results[i].Credited {
			credited++
		}
	}

	require.Equal(t, 1, credited, "exactly one trigger may propagate")
	require.Equal(t, int64(400), balanceOf(t, svc, 1))

	requireLedgerConsistent(t, svc, 1, 2)
}

// A crash mid-propagation leaves some ancestors credited. Re-running the
// same event must top up only the missing ones.
func TestHandleCreditableEvent_ResumeAfterPartialPropagation(t *testing.T) {
	t.Parallel()

	svc, _, cleanup := newTestService(t, defaultTestConfig())
	defer cleanup()

	ctx := context.Background()

	registerChain(t, svc, 1, 2, 3, 4)

	// Simulate a previous attempt that credited the nearest ancestor and
	// died before flipping anything else.
	err := svc.creditAncestor(ctx, 3, "evt-crash")
	require.NoError(t, err)
	require.Equal(t, int64(400), balanceOf(t, svc, 3))

	res, err := svc.HandleCreditableEvent(ctx, 4, "evt-crash")
	require.NoError(t, err)
	require.True(t, res.Credited)
	require.Equal(t, []int64{2, 1}, res.CreditedAncestors, "already-credited ancestor is skipped")

	require.Equal(t, int64(400), balanceOf(t, svc, 3), "no double credit on resume")
	require.Equal(t, int64(400), balanceOf(t, svc, 2))
	require.Equal(t, int64(400), balanceOf(t, svc, 1))

	requireLedgerConsistent(t, svc, 1, 2, 3, 4)
}

func TestHandleCreditableEvent_NoReferrerProducesNoCredits(t *testing.T) {
	t.Parallel()

	svc, notifier, cleanup := newTestService(t, defaultTestConfig())
	defer cleanup()

	ctx := context.Background()

	registerChain(t, svc, 7)

	res, err := svc.HandleCreditableEvent(ctx, 7, "evt-lone")
	require.NoError(t, err)
	require.True(t, res.Credited, "the transition itself still happens")
	require.Empty(t, res.CreditedAncestors)
	require.Empty(t, notifier.userMessages())
}
