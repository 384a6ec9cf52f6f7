package bot

import (
	"context"
	"log/slog"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gourmet-search/internal/listview"
	"gourmet-search/internal/model"
)

const (
	telegramCaptionLimit = 1024
	mediaGroupMax        = 10
	callbackNext         = "shops_next"
)

// StateStore persists each chat's list cursor across restarts.
type StateStore interface {
	SaveState(ctx context.Context, chatID int64, state model.ListState) error
	GetState(ctx context.Context, chatID int64) (*model.ListState, error)
}

type Bot struct {
	api      *tgbotapi.BotAPI
	shops    listview.Fetcher
	store    StateStore
	photos   *PhotoCache
	mu       sync.Mutex
	views    map[int64]*listview.View
	stopChan chan struct{}  // Channel to signal stopping
	wg       sync.WaitGroup // WaitGroup for graceful shutdown
	runMu    sync.Mutex     // guards stopped and wg.Add against Stop
	stopped  bool
}

// NewBot wires the list view renderer. store and photos may be nil.
func NewBot(botAPI *tgbotapi.BotAPI, shops listview.Fetcher, store StateStore, photos *PhotoCache) *Bot {
	return &Bot{
		api:      botAPI,
		shops:    shops,
		store:    store,
		photos:   photos,
		views:    make(map[int64]*listview.View),
		stopChan: make(chan struct{}),
	}
}

func (b *Bot) Start() {
	slog.Info("Authorized on account", slog.String("username", b.api.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	if !b.track() {
		return
	}
	defer b.wg.Done()

	for {
		select {
		case <-b.stopChan:
			slog.Info("Stopping bot update processing")
			return
		case update, ok := <-updates:
			if !ok {
				slog.Info("Updates channel closed")
				return
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		// Callbacks run concurrently so a newer "next" can supersede a slow one.
		if !b.track() {
			slog.Info("Dropping callback during shutdown", "callback_id", update.CallbackQuery.ID)
			return
		}
		go func() {
			defer b.wg.Done()
			b.handleCallbackQuery(update.CallbackQuery)
		}()
		return
	}

	if update.Message == nil {
		return
	}

	if !update.Message.IsCommand() {
		b.handleMessage(update.Message)
		return
	}

	switch update.Message.Command() {
	case "start":
		b.handleStartCommand(update.Message)
	case "help":
		b.handleHelpCommand(update.Message)
	}
}

// track registers one unit of work with wg unless Stop has begun.
func (b *Bot) track() bool {
	b.runMu.Lock()
	defer b.runMu.Unlock()
	if b.stopped {
		return false
	}
	b.wg.Add(1)
	return true
}

func (b *Bot) Stop() {
	b.runMu.Lock()
	if b.stopped {
		b.runMu.Unlock()
		return
	}
	b.stopped = true
	b.runMu.Unlock()

	slog.Info("Initiating bot shutdown...")
	close(b.stopChan)
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	b.wg.Wait()
	slog.Info("Bot shutdown complete")
}

// viewFor returns the chat's list view, resuming a stored cursor the first
// time a chat is seen since startup.
func (b *Bot) viewFor(ctx context.Context, chatID int64) *listview.View {
	b.mu.Lock()
	defer b.mu.Unlock()

	if v, ok := b.views[chatID]; ok {
		return v
	}
	v := listview.New(b.shops)
	if b.store != nil {
		state, err := b.store.GetState(ctx, chatID)
		if err != nil {
			slog.Error("Error getting state from Redis", "chat_id", chatID, "error", err)
		} else if state != nil {
			v.Resume(state.Page, state.Keyword)
		}
	}
	b.views[chatID] = v
	return v
}

func (b *Bot) saveCursor(ctx context.Context, chatID int64, snap listview.Snapshot) {
	if b.store == nil {
		return
	}
	state := model.ListState{Page: snap.CurrentPage, Keyword: snap.Keyword}
	if err := b.store.SaveState(ctx, chatID, state); err != nil {
		slog.Error("Error saving state to Redis", "chat_id", chatID, "error", err)
	}
}
