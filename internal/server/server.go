package server

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gourmet-search/internal/api"
	"gourmet-search/internal/model"
)

const unexpectedMessage = "An unexpected error occurred"

type Searcher interface {
	Search(ctx context.Context, query url.Values, base *url.URL) (*model.SearchResult, error)
}

type Handler struct {
	search Searcher
}

func NewHandler(search Searcher) *Handler {
	return &Handler{search: search}
}

// NewRouter builds the gin engine serving the shop API, health and metrics.
func NewRouter(h *Handler, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw...)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/api/shops", h.Shops)
	return r
}

// Shops handles GET /api/shops.
func (h *Handler) Shops(c *gin.Context) {
	ctx := c.Request.Context()

	res, err := h.search.Search(ctx, c.Request.URL.Query(), requestBase(c.Request))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func writeError(c *gin.Context, err error) {
	l := Logger(c.Request.Context())
	l.Error("shop search failed", "error", err)

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": unexpectedMessage})
}

// requestBase is the absolute inbound URL without query.
func requestBase(r *http.Request) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return &url.URL{Scheme: scheme, Host: r.Host, Path: r.URL.Path}
}
