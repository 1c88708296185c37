package envconf

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

type testConfig struct {
	Name     string        `env:"TEST_NAME"`
	Port     uint16        `env:"TEST_PORT" envDefault:"8080"`
	Bonus    int64         `env:"TEST_BONUS" envDefault:"500"`
	Timeout  time.Duration `env:"TEST_TIMEOUT" envDefault:"15s"`
	LogLevel slog.Level    `env:"TEST_LOG_LEVEL" envDefault:"INFO"`
	Nested   struct {
		DSN string `env:"TEST_DSN" envDefault:"postgres://localhost/x"`
	}
}

//nolint:paralleltest
func TestLoad_DefaultsAndOverrides(t *testing.T) {
	t.Setenv("TEST_NAME", "refledger")
	t.Setenv("TEST_BONUS", "400")

	cfg := new(testConfig)

	err := Load(cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Name != "refledger" {
		t.Fatalf("name: got %q", cfg.Name)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port default: got %d", cfg.Port)
	}
	if cfg.Bonus != 400 {
		t.Fatalf("bonus override: got %d", cfg.Bonus)
	}
	if cfg.Timeout != 15*time.Second {
		t.Fatalf("timeout default: got %v", cfg.Timeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("log level default: got %v", cfg.LogLevel)
	}
	if cfg.Nested.DSN != "postgres://localhost/x" {
		t.Fatalf("nested default: got %q", cfg.Nested.DSN)
	}
}

//nolint:paralleltest
func TestLoad_MissingRequired(t *testing.T) {
	cfg := new(testConfig) // TEST_NAME unset, no default

	err := Load(cfg)
	if !errors.Is(err, ErrMissingRequired) {
		t.Fatalf("expected ErrMissingRequired, got %v", err)
	}
}
