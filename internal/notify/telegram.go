package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers notifications over the Telegram Bot API.
// User ids are Telegram user ids, which double as private chat ids.
type TelegramNotifier struct {
	bot         *tgbotapi.BotAPI
	adminChatID int64
}

var _ Notifier = (*TelegramNotifier)(nil)

func NewTelegram(token string, adminChatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("init bot api: %w", err)
	}

	return &TelegramNotifier{bot: bot, adminChatID: adminChatID}, nil
}

func (n *TelegramNotifier) Notify(_ context.Context, userID int64, message string) error {
	msg := tgbotapi.NewMessage(userID, message)
	msg.ParseMode = tgbotapi.ModeHTML

	_, err := n.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send to user %d: %w", userID, err)
	}

	return nil
}

func (n *TelegramNotifier) NotifyAdmin(_ context.Context, message string) error {
	msg := tgbotapi.NewMessage(n.adminChatID, message)
	msg.ParseMode = tgbotapi.ModeHTML

	_, err := n.bot.Send(msg)
	if err != nil {
		return fmt.Errorf("send to admin: %w", err)
	}

	return nil
}
