package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UsersRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_users_registered_total",
			Help: "Total number of user registrations processed",
		},
	)

	CreditableEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "referral_creditable_events_total",
			Help: "Total number of creditable events, by whether they triggered propagation",
		},
		[]string{"credited"},
	)

	BonusesCreditedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_bonuses_credited_total",
			Help: "Total number of individual ancestor bonus credits",
		},
	)

	WithdrawalsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "referral_withdrawals_total",
			Help: "Total number of settled withdrawal requests",
		},
	)
)
