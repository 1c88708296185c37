package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" envDefault:"30m"`
}

// ReferralConfig holds the business knobs of the bonus engine. Amounts are
// minor units (kopiykas). The values differ per deployment, so nothing here
// is hard-coded; defaults mirror the historical ones.
type ReferralConfig struct {
	BonusAmount       int64  `env:"REFERRAL_BONUS_AMOUNT" envDefault:"500"`
	MaxLevels         int    `env:"REFERRAL_MAX_LEVELS" envDefault:"5"`
	WithdrawThreshold int64  `env:"WITHDRAW_THRESHOLD" envDefault:"4000"`
	Currency          string `env:"CURRENCY" envDefault:"UAH"`
}
