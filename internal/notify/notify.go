// Package notify is the outbound-message boundary of the referral engine.
// Delivery is best-effort: callers log failures and move on, ledger
// correctness never depends on a notification landing.
package notify

import (
	"context"
	"log/slog"
)

type Notifier interface {
	// Notify sends a message to a user.
	Notify(ctx context.Context, userID int64, message string) error

	// NotifyAdmin sends a message to the operator channel.
	NotifyAdmin(ctx context.Context, message string) error
}

// LogNotifier writes notifications to the log. Default when no chat
// transport is configured; also what the tests use.
type LogNotifier struct{}

var _ Notifier = LogNotifier{}

func (LogNotifier) Notify(_ context.Context, userID int64, message string) error {
	slog.Info("user notification", "user_id", userID, "message", message)

	return nil
}

func (LogNotifier) NotifyAdmin(_ context.Context, message string) error {
	slog.Info("admin notification", "message", message)

	return nil
}
