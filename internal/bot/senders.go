package bot

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gourmet-search/internal/listview"
	"gourmet-search/internal/model"
)

func (b *Bot) sendShops(chatID int64, snap listview.Snapshot) {
	start := time.Now()
	defer func() {
		slog.Debug("sendShops executed",
			"duration", time.Since(start).Seconds(),
			"shops", len(snap.Shops))
	}()

	if len(snap.Shops) == 0 {
		b.sendNoShopsFound(chatID)
		return
	}

	if b.photos != nil {
		b.sendChatAction(chatID, tgbotapi.ChatUploadPhoto)
		b.sendPhotos(chatID, snap.Shops)
	}
	b.sendShopsDescription(chatID, snap)
}

func (b *Bot) sendNoShopsFound(chatID int64) {
	msg := tgbotapi.NewMessage(chatID, "店舗が見つかりませんでした")
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("Error sending no shops found message", "error", err)
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "⚠ "+text)
	msg.ReplyMarkup = b.createMainMenuKeyboard()
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("Error sending error message", "error", err)
	}
}

func (b *Bot) sendTempMessage(chatID int64, text string) tgbotapi.Message {
	tempMsg, err := b.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		slog.Error("Error sending temp message", "error", err)
	}
	return tempMsg
}

func (b *Bot) cleanupTempMessage(chatID int64, tempMsg tgbotapi.Message) {
	if tempMsg.MessageID == 0 {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, tempMsg.MessageID)); err != nil {
		slog.Error("Error deleting temp message", "error", err)
	}
}

func (b *Bot) sendChatAction(chatID int64, action string) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, action)); err != nil {
		slog.Error("Error sending chat action", "action", action, "error", err)
	}
}

// sendPhotos sends the shops that have a usable photo, as an album when
// there are at least two.
func (b *Bot) sendPhotos(chatID int64, shops []model.Shop) {
	var media []interface{}
	for _, shop := range shops {
		if len(media) == mediaGroupMax {
			break
		}
		file, ok := b.photos.Get(shop.Photo)
		if !ok {
			continue
		}
		photo := tgbotapi.NewInputMediaPhoto(file)
		photo.Caption = formatShopCaption(shop)
		media = append(media, photo)
	}

	switch len(media) {
	case 0:
		return
	case 1:
		single := media[0].(tgbotapi.InputMediaPhoto)
		msg := tgbotapi.NewPhoto(chatID, single.Media)
		msg.Caption = single.Caption
		if _, err := b.api.Send(msg); err != nil {
			slog.Error("Failed to send shop photo", "error", err)
		}
	default:
		if _, err := b.api.SendMediaGroup(tgbotapi.MediaGroupConfig{ChatID: chatID, Media: media}); err != nil {
			slog.Error("SendMediaGroup error", "error", err)
		}
	}
}

func (b *Bot) sendShopsDescription(chatID int64, snap listview.Snapshot) {
	var sb strings.Builder
	sb.WriteString(formatPageHeader(snap.CurrentPage, snap.Total))
	sb.WriteString("\n\n")
	for i, shop := range snap.Shops {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, formatShopDescription(shop))
	}

	msg := tgbotapi.NewMessage(chatID, sb.String())
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if snap.NextPage != nil {
		msg.ReplyMarkup = b.createNextKeyboard()
	}
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("Error sending description", "error", err)
	}
}
