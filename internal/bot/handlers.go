package bot

import (
	"context"
	"errors"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gourmet-search/internal/listview"
)

func (b *Bot) handleStartCommand(msg *tgbotapi.Message) {
	ctx := context.Background()
	view := b.viewFor(ctx, msg.Chat.ID)

	tempMsg := b.sendTempMessage(msg.Chat.ID, "読み込み中...")
	snap, err := view.Load(ctx)
	b.cleanupTempMessage(msg.Chat.ID, tempMsg)
	b.renderResult(ctx, msg.Chat.ID, snap, err)
}

func (b *Bot) handleHelpCommand(msg *tgbotapi.Message) {
	text := "使い方:\n\n" +
		"/start - 店舗一覧の1ページ目を表示\n" +
		"「次へ」 - 次のページを表示\n" +
		"/help - このヘルプを表示"
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyMarkup = b.createMainMenuKeyboard()
	if _, err := b.api.Send(reply); err != nil {
		slog.Error("Error sending message in handleHelpCommand", "error", err)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	switch msg.Text {
	case menuShopList:
		b.handleStartCommand(msg)
	default:
		b.handleSearchInput(msg)
	}
}

// handleSearchInput records free text as the search box value. Keyword search
// is not wired to the list yet, so nothing is fetched.
func (b *Bot) handleSearchInput(msg *tgbotapi.Message) {
	ctx := context.Background()
	view := b.viewFor(ctx, msg.Chat.ID)
	view.SetKeyword(msg.Text)
	b.saveCursor(ctx, msg.Chat.ID, view.Snapshot())
}

func (b *Bot) handleNext(chatID int64) {
	ctx := context.Background()
	view := b.viewFor(ctx, chatID)

	tempMsg := b.sendTempMessage(chatID, "読み込み中...")
	snap, err := view.Next(ctx)
	b.cleanupTempMessage(chatID, tempMsg)
	b.renderResult(ctx, chatID, snap, err)
}

func (b *Bot) renderResult(ctx context.Context, chatID int64, snap listview.Snapshot, err error) {
	if errors.Is(err, listview.ErrSuperseded) {
		slog.Debug("dropping superseded page", "chat_id", chatID)
		return
	}
	if err != nil {
		b.sendError(chatID, snap.Err)
		return
	}
	b.saveCursor(ctx, chatID, snap)
	b.sendShops(chatID, snap)
}
