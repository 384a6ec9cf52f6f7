package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"gourmet-search/internal/listview"
	"gourmet-search/internal/model"
)

type apiCall struct {
	method string
	params map[string]string
}

type fakeTelegram struct {
	mu    sync.Mutex
	calls []apiCall
}

func (f *fakeTelegram) handler(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseMultipartForm(32 << 20)
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	params := map[string]string{}
	for k := range r.Form {
		params[k] = r.Form.Get(k)
	}
	f.mu.Lock()
	f.calls = append(f.calls, apiCall{method: method, params: params})
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "getMe":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"shops","username":"shops_bot"}}`))
	case "sendMessage", "sendPhoto":
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":42,"type":"private"}}}`))
	case "sendMediaGroup":
		_, _ = w.Write([]byte(`{"ok":true,"result":[]}`))
	default:
		_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
	}
}

func (f *fakeTelegram) sent(method string) []apiCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []apiCall
	for _, c := range f.calls {
		if c.method == method {
			out = append(out, c)
		}
	}
	return out
}

type memoryStore struct {
	mu     sync.Mutex
	states map[int64]model.ListState
}

func (m *memoryStore) SaveState(ctx context.Context, chatID int64, state model.ListState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[chatID] = state
	return nil
}

func (m *memoryStore) GetState(ctx context.Context, chatID int64) (*model.ListState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[chatID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

type pagedFetcher struct {
	mu        sync.Mutex
	requested []int
	err       error
}

func (p *pagedFetcher) FetchShops(ctx context.Context, page int) (*model.SearchResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requested = append(p.requested, page)
	if p.err != nil {
		return nil, p.err
	}
	res := &model.SearchResult{
		CurrentPage: page,
		Total:       25,
		Shops:       []model.Shop{{ID: "J1", Name: "Shisa & Co", Address: "Naha", URL: "https://shop/J1"}},
	}
	if page < 3 {
		next := page + 1
		res.NextPage = &next
	}
	return res, nil
}

func newTestBot(t *testing.T, fetcher listview.Fetcher, store StateStore) (*Bot, *fakeTelegram) {
	t.Helper()
	tg := &fakeTelegram{}
	server := httptest.NewServer(http.HandlerFunc(tg.handler))
	t.Cleanup(server.Close)

	botAPI, err := tgbotapi.NewBotAPIWithAPIEndpoint("TOKEN", server.URL+"/bot%s/%s")
	if err != nil {
		t.Fatalf("bot api: %v", err)
	}
	return NewBot(botAPI, fetcher, store, nil), tg
}

func chatMessage(chatID int64, text string) *tgbotapi.Message {
	return &tgbotapi.Message{Text: text, Chat: &tgbotapi.Chat{ID: chatID}}
}

func TestStartRendersFirstPage(t *testing.T) {
	fetcher := &pagedFetcher{}
	store := &memoryStore{states: map[int64]model.ListState{}}
	b, tg := newTestBot(t, fetcher, store)

	b.handleStartCommand(chatMessage(42, "/start"))

	var list *apiCall
	for _, c := range tg.sent("sendMessage") {
		if strings.HasPrefix(c.params["text"], "店舗一覧") {
			c := c
			list = &c
		}
	}
	if list == nil {
		t.Fatalf("shop list not sent: %+v", tg.calls)
	}
	if !strings.Contains(list.params["text"], "ページ: 1 / 全25件") {
		t.Fatalf("unexpected header: %q", list.params["text"])
	}
	if !strings.Contains(list.params["text"], "Shisa &amp; Co") {
		t.Fatalf("shop name not escaped: %q", list.params["text"])
	}
	if !strings.Contains(list.params["reply_markup"], callbackNext) {
		t.Fatalf("next button missing: %q", list.params["reply_markup"])
	}
	if len(tg.sent("deleteMessage")) != 1 {
		t.Fatalf("loading message not cleaned up")
	}
	if store.states[42].Page != 1 {
		t.Fatalf("cursor not saved: %+v", store.states)
	}

	b.handleNext(42)
	b.handleNext(42)
	if got := fetcher.requested; len(got) != 3 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("unexpected pages requested %v", got)
	}

	msgs := tg.sent("sendMessage")
	last := msgs[len(msgs)-1]
	if strings.Contains(last.params["reply_markup"], callbackNext) {
		t.Fatalf("last page must not offer next: %q", last.params["reply_markup"])
	}
}

func TestNextResumesStoredCursor(t *testing.T) {
	fetcher := &pagedFetcher{}
	store := &memoryStore{states: map[int64]model.ListState{7: {Page: 1, Keyword: "soba"}}}
	b, _ := newTestBot(t, fetcher, store)

	b.handleNext(7)
	if len(fetcher.requested) != 1 || fetcher.requested[0] != 2 {
		t.Fatalf("expected page 2 from stored cursor, got %v", fetcher.requested)
	}
	if got := store.states[7]; got.Page != 2 || got.Keyword != "soba" {
		t.Fatalf("cursor not carried forward: %+v", got)
	}
}

func TestFetchErrorIsShown(t *testing.T) {
	fetcher := &pagedFetcher{err: &listview.FetchError{Status: 500}}
	b, tg := newTestBot(t, fetcher, nil)

	b.handleStartCommand(chatMessage(42, "/start"))

	found := false
	for _, c := range tg.sent("sendMessage") {
		if c.params["text"] == "⚠ Failed to fetch: 500" {
			found = true
		}
	}
	if !found {
		t.Fatalf("error message not sent: %+v", tg.calls)
	}
}

func TestSearchInputOnlyRecordsKeyword(t *testing.T) {
	fetcher := &pagedFetcher{}
	store := &memoryStore{states: map[int64]model.ListState{}}
	b, tg := newTestBot(t, fetcher, store)

	b.handleMessage(chatMessage(42, "ramen"))

	if len(fetcher.requested) != 0 {
		t.Fatalf("search input must not fetch, requested %v", fetcher.requested)
	}
	if len(tg.sent("sendMessage")) != 0 {
		t.Fatalf("search input must not reply")
	}
	if store.states[42].Keyword != "ramen" {
		t.Fatalf("keyword not recorded: %+v", store.states[42])
	}
}

func TestCallbackNext(t *testing.T) {
	fetcher := &pagedFetcher{}
	b, tg := newTestBot(t, fetcher, nil)

	b.handleCallbackQuery(&tgbotapi.CallbackQuery{ID: "cb1", Data: callbackNext, Message: chatMessage(42, "")})

	if len(tg.sent("answerCallbackQuery")) != 1 {
		t.Fatalf("callback not answered")
	}
	if len(fetcher.requested) != 1 || fetcher.requested[0] != 2 {
		t.Fatalf("expected page 2, got %v", fetcher.requested)
	}
}

func TestCallbackAfterStopIsDropped(t *testing.T) {
	fetcher := &pagedFetcher{}
	b, tg := newTestBot(t, fetcher, nil)

	b.Stop()
	b.handleUpdate(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{ID: "cb2", Data: callbackNext, Message: chatMessage(42, "")}})
	b.wg.Wait()
	b.Stop()

	if len(fetcher.requested) != 0 {
		t.Fatalf("callback handled after stop: %v", fetcher.requested)
	}
	if len(tg.sent("answerCallbackQuery")) != 0 {
		t.Fatalf("callback answered after stop")
	}
}
