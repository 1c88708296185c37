// Package referral implements the referral ledger core: registration,
// creditable-event gating, ancestor bonus propagation and withdrawal
// settlement. All money flows go through one-DB-transaction units that pair
// a ledger insert with the matching cached-balance move under a row lock.
package referral

import (
	"database/sql"

	"github.com/fastprodman/refledger/internal/config"
	"github.com/fastprodman/refledger/internal/notify"
	"github.com/fastprodman/refledger/internal/repos/transactions"
	pgtransactions "github.com/fastprodman/refledger/internal/repos/transactions/postgres"
	"github.com/fastprodman/refledger/internal/repos/users"
	pgusers "github.com/fastprodman/refledger/internal/repos/users/postgres"
	"github.com/fastprodman/refledger/internal/services/settings"
)

type Service struct {
	db       *sql.DB
	users    users.Users
	txns     transactions.Transactions
	notifier notify.Notifier
	settings *settings.Service
	cfg      config.ReferralConfig
}

func New(db *sql.DB, notifier notify.Notifier, sts *settings.Service, cfg config.ReferralConfig) *Service {
	return &Service{
		db:       db,
		users:    pgusers.New(db),
		txns:     pgtransactions.New(db),
		notifier: notifier,
		settings: sts,
		cfg:      cfg,
	}
}
