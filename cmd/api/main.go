package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/fastprodman/refledger/internal/api"
	"github.com/fastprodman/refledger/internal/config"
	"github.com/fastprodman/refledger/internal/infra/logging"
	"github.com/fastprodman/refledger/internal/infra/pgutils"
	"github.com/fastprodman/refledger/internal/notify"
	"github.com/fastprodman/refledger/internal/services/referral"
	"github.com/fastprodman/refledger/internal/services/settings"
	"github.com/fastprodman/refledger/pkg/envconf"
	"github.com/fastprodman/refledger/pkg/shutdownqueue"
)

type apiConfig struct {
	Port            uint16        `env:"API_PORT" envDefault:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" envDefault:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AdminToken      string        `env:"ADMIN_TOKEN"`
	TargetChatID    int64         `env:"TARGET_CHAT_ID"`
	BotUsername     string        `env:"BOT_USERNAME"`
	TgBotToken      string        `env:"TG_BOT_TOKEN" envDefault:""`
	AdminChatID     int64         `env:"ADMIN_CHAT_ID" envDefault:"0"`
	Postgres        config.PostgresConfig
	Referral        config.ReferralConfig
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

func run(ctx context.Context) (retErr error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON(cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	dbConns, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		return dbConns.Close()
	})

	notifier, err := buildNotifier(cfg)
	if err != nil {
		return fmt.Errorf("build notifier: %w", err)
	}

	sts := settings.New(settings.Values{
		TargetChatID: cfg.TargetChatID,
		BotUsername:  cfg.BotUsername,
	})

	referralSrv := referral.New(dbConns, notifier, sts, cfg.Referral)

	// --- HTTP server ---
	srv := api.NewServer(cfg.Port, referralSrv, sts, cfg.AdminToken)

	// Register HTTP server graceful shutdown
	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	// Run server
	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	// --- Wait until either context cancels or server errors out ---
	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}

// buildNotifier picks Telegram when a bot token is configured, otherwise
// log-only delivery.
func buildNotifier(cfg *apiConfig) (notify.Notifier, error) {
	if cfg.TgBotToken == "" {
		slog.Info("no bot token configured, using log notifier")

		return notify.LogNotifier{}, nil
	}

	n, err := notify.NewTelegram(cfg.TgBotToken, cfg.AdminChatID)
	if err != nil {
		return nil, fmt.Errorf("telegram notifier: %w", err)
	}

	return n, nil
}
