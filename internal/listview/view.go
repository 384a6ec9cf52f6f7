package listview

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"gourmet-search/internal/model"
)

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

const defaultErrorMessage = "データの取得に失敗しました"

// ErrSuperseded is returned by a fetch whose result was discarded because a
// later fetch started before it finished.
var ErrSuperseded = errors.New("fetch superseded by a newer request")

type Fetcher interface {
	FetchShops(ctx context.Context, page int) (*model.SearchResult, error)
}

// Snapshot is a copy of the view's state for rendering.
type Snapshot struct {
	State       State
	Shops       []model.Shop
	CurrentPage int
	NextPage    *int
	Total       int
	Err         string
	Keyword     string
}

// View is the shop list: the current page of shops plus the pagination
// cursor. Only the most recently started fetch may change it; starting a
// fetch cancels the one in flight.
type View struct {
	mu      sync.Mutex
	fetcher Fetcher

	state       State
	shops       []model.Shop
	currentPage int
	nextPage    *int
	total       int
	errMsg      string
	keyword     string

	gen    uint64
	cancel context.CancelFunc
}

func New(fetcher Fetcher) *View {
	return &View{fetcher: fetcher, currentPage: 1}
}

// Resume restores a cursor saved elsewhere without fetching, so Next
// continues from page and the search input is kept.
func (v *View) Resume(page int, keyword string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if page < 1 {
		page = 1
	}
	v.currentPage = page
	v.keyword = keyword
}

// Load fetches the first page.
func (v *View) Load(ctx context.Context) (Snapshot, error) {
	return v.fetch(ctx, 1)
}

// Next fetches currentPage+1.
func (v *View) Next(ctx context.Context) (Snapshot, error) {
	v.mu.Lock()
	page := v.currentPage + 1
	v.mu.Unlock()
	return v.fetch(ctx, page)
}

// SetKeyword records the search box input. It does not search.
func (v *View) SetKeyword(keyword string) {
	v.mu.Lock()
	v.keyword = keyword
	v.mu.Unlock()
	slog.Info("search input", "keyword", keyword)
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *View) fetch(ctx context.Context, page int) (Snapshot, error) {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
	}
	v.gen++
	gen := v.gen
	fetchCtx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	v.state = Loading
	v.errMsg = ""
	v.mu.Unlock()
	defer cancel()

	slog.Debug("fetching shops", "page", page)
	res, err := v.fetcher.FetchShops(fetchCtx, page)

	v.mu.Lock()
	defer v.mu.Unlock()

	if gen != v.gen {
		return v.snapshotLocked(), ErrSuperseded
	}
	v.cancel = nil

	if err != nil {
		slog.Error("fetchShops error", "page", page, "error", err)
		v.state = Error
		v.errMsg = errorMessage(err)
		return v.snapshotLocked(), err
	}

	v.state = Loaded
	v.shops = res.Shops
	v.currentPage = res.CurrentPage
	v.nextPage = res.NextPage
	v.total = res.Total
	return v.snapshotLocked(), nil
}

func (v *View) snapshotLocked() Snapshot {
	s := Snapshot{
		State:       v.state,
		Shops:       append([]model.Shop(nil), v.shops...),
		CurrentPage: v.currentPage,
		Total:       v.total,
		Err:         v.errMsg,
		Keyword:     v.keyword,
	}
	if v.nextPage != nil {
		n := *v.nextPage
		s.NextPage = &n
	}
	return s
}

func errorMessage(err error) string {
	if msg := err.Error(); msg != "" {
		return msg
	}
	return defaultErrorMessage
}
