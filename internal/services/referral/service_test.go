package referral

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fastprodman/refledger/internal/config"
	"github.com/fastprodman/refledger/internal/infra/pgtestutil"
	"github.com/fastprodman/refledger/internal/services/settings"
)

type notifMsg struct {
	UserID  int64
	Message string
}

// recordingNotifier captures outbound messages for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	user  []notifMsg
	admin []string
}

func (n *recordingNotifier) Notify(_ context.Context, userID int64, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.user = append(n.user, notifMsg{UserID: userID, Message: message})

	return nil
}

func (n *recordingNotifier) NotifyAdmin(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.admin = append(n.admin, message)

	return nil
}

func (n *recordingNotifier) userMessages() []notifMsg {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]notifMsg(nil), n.user...)
}

func (n *recordingNotifier) adminMessages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return append([]string(nil), n.admin...)
}

func defaultTestConfig() config.ReferralConfig {
	return config.ReferralConfig{
		BonusAmount:       400, // 4.00
		MaxLevels:         5,
		WithdrawThreshold: 4_000, // 40.00
		Currency:          "UAH",
	}
}

func newTestService(t *testing.T, cfg config.ReferralConfig) (*Service, *recordingNotifier, func()) {
	t.Helper()

	db, cleanup := pgtestutil.NewTestDB(t)

	notifier := &recordingNotifier{}
	sts := settings.New(settings.Values{TargetChatID: -100, BotUsername: "refledger_bot"})

	return New(db, notifier, sts, cfg), notifier, cleanup
}

// registerChain registers ids[0] first, then each following id with the
// previous one as referrer: ids[0] <- ids[1] <- ...
func registerChain(t *testing.T, svc *Service, ids ...int64) {
	t.Helper()

	ctx := context.Background()

	for i, id := range ids {
		var ref *int64
		if i > 0 {
			ref = &ids[i-1]
		}

		_, err := svc.RegisterUser(ctx, id, nil, ref)
		require.NoError(t, err)
	}
}

// requireLedgerConsistent checks the core invariant: the cached balance of
// every given user equals the sum of their ledger entries.
func requireLedgerConsistent(t *testing.T, svc *Service, ids ...int64) {
	t.Helper()

	ctx := context.Background()

	for _, id := range ids {
		bal, err := svc.users.GetBalance(ctx, id)
		require.NoError(t, err)

		sum, err := svc.txns.SumByUser(ctx, id)
		require.NoError(t, err)

		require.Equalf(t, sum, bal, "user %d: cached balance diverged from ledger sum", id)
	}
}

func balanceOf(t *testing.T, svc *Service, id int64) int64 {
	t.Helper()

	bal, err := svc.users.GetBalance(context.Background(), id)
	require.NoError(t, err)

	return bal
}
