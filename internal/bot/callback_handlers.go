package bot

import (
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		slog.Warn("Received callback without message", "data", query.Data)
		return
	}

	callbackConfig := tgbotapi.CallbackConfig{
		CallbackQueryID: query.ID,
	}
	if _, err := b.api.Request(callbackConfig); err != nil {
		slog.Error("Error sending callback response", "error", err)
	}

	switch query.Data {
	case callbackNext:
		b.handleNext(query.Message.Chat.ID)
	default:
		slog.Warn("Unknown callback", "data", query.Data)
	}
}
