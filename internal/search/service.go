package search

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/sync/singleflight"

	"gourmet-search/internal/api"
	"gourmet-search/internal/metrics"
	"gourmet-search/internal/model"
	"gourmet-search/internal/redis"
)

const sharedLoadTimeout = 30 * time.Second

type ShopFetcher interface {
	CheckConfig() error
	FetchShops(ctx context.Context, query url.Values) (*api.GourmetResponse, error)
}

// PageCache stores provider pages by provider query. GetPage returns
// redis.ErrCacheMiss on a miss.
type PageCache interface {
	GetPage(ctx context.Context, key string) (*model.ShopPage, error)
	SetPage(ctx context.Context, key string, page *model.ShopPage, ttl time.Duration) error
}

type Service struct {
	fetcher  ShopFetcher
	cache    PageCache
	cacheTTL time.Duration
	defaults Defaults
	sf       singleflight.Group
}

// NewService wires the search pipeline. cache may be nil to disable caching.
func NewService(fetcher ShopFetcher, cache PageCache, cacheTTL time.Duration, defaults Defaults) *Service {
	return &Service{
		fetcher:  fetcher,
		cache:    cache,
		cacheTTL: cacheTTL,
		defaults: defaults,
	}
}

// Search answers one inbound /api/shops request. base is the inbound URL
// without query; nextUrl is built on it.
func (s *Service) Search(ctx context.Context, query url.Values, base *url.URL) (*model.SearchResult, error) {
	if err := s.fetcher.CheckConfig(); err != nil {
		return nil, err
	}

	req, err := ParseRequest(query, s.defaults)
	if err != nil {
		return nil, err
	}

	providerQuery := ProviderQuery(req)
	key := providerQuery.Encode()

	// The shared call outlives any single caller; each caller stops waiting
	// when its own ctx is done.
	ch := s.sf.DoChan(key, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sharedLoadTimeout)
		defer cancel()
		return s.loadPage(loadCtx, key, providerQuery)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		slog.Debug("provider request shared", "query", key)
	}

	return Compose(req, res.Val.(*model.ShopPage), base, query), nil
}

func (s *Service) loadPage(ctx context.Context, key string, providerQuery url.Values) (*model.ShopPage, error) {
	if s.cache != nil && s.cacheTTL > 0 {
		cached, err := s.cache.GetPage(ctx, key)
		switch {
		case err == nil:
			metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
			return cached, nil
		case errors.Is(err, redis.ErrCacheMiss):
			metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
		default:
			metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
			slog.Warn("cache get error", "error", err)
		}
	}

	data, err := s.fetcher.FetchShops(ctx, providerQuery)
	if err != nil {
		return nil, err
	}

	total, ok := data.Total()
	if !ok {
		slog.Warn("provider total missing or not numeric, assuming no further pages", "query", key)
	}
	page := &model.ShopPage{Shops: data.Shops(), Total: total}

	if s.cache != nil && s.cacheTTL > 0 {
		setCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.cache.SetPage(setCtx, key, page, s.cacheTTL); err != nil {
			slog.Warn("cache set error", "error", err)
		}
	}
	return page, nil
}
