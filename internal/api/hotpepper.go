package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/time/rate"

	"gourmet-search/internal/config"
	"gourmet-search/internal/metrics"
)

const gourmetPath = "/hotpepper/gourmet/v1/"

type HotpepperAPI struct {
	apiKey  string
	baseUrl string
	client  *http.Client
	limiter *rate.Limiter
}

func NewHotpepperAPI(cfg config.ProviderConfig) *HotpepperAPI {
	h := &HotpepperAPI{
		apiKey:  cfg.APIKey,
		baseUrl: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.RateLimit > 0 {
		h.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return h
}

// CheckConfig reports ErrMissingAPIKey when no key was configured.
func (h *HotpepperAPI) CheckConfig() error {
	if h.apiKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// FetchShops performs one GET against the gourmet endpoint with query plus the
// API key and returns the validated payload. It never retries.
func (h *HotpepperAPI) FetchShops(ctx context.Context, query url.Values) (*GourmetResponse, error) {
	slog.Debug("Started FetchShops")
	if err := h.CheckConfig(); err != nil {
		return nil, err
	}

	q := cloneValues(query)
	q.Set("key", h.apiKey)
	if q.Get("format") == "" {
		q.Set("format", "json")
	}
	searchUrl := h.baseUrl + gourmetPath + "?" + q.Encode()

	q.Set("key", "REDACTED")
	slog.Info("hotpepper request", "url", h.baseUrl+gourmetPath+"?"+q.Encode())

	body, err := h.doRequest(ctx, searchUrl)
	if err != nil {
		slog.Error("FetchShops fetch err", "error", err)
		return nil, err
	}

	if violations := validatePayload(body); len(violations) > 0 {
		slog.Warn("hotpepper payload rejected", "violations", violations)
		metrics.UpstreamRequestsTotal.WithLabelValues("malformed").Inc()
		return nil, ErrNoShops
	}

	var data GourmetResponse
	if err := json.Unmarshal(body, &data); err != nil {
		slog.Warn("hotpepper payload undecodable", "error", err)
		metrics.UpstreamRequestsTotal.WithLabelValues("malformed").Inc()
		return nil, ErrNoShops
	}

	metrics.UpstreamRequestsTotal.WithLabelValues("ok").Inc()
	slog.Debug("Ended FetchShops", "shops", len(data.Results.Shop))
	return &data, nil
}

func (h *HotpepperAPI) doRequest(ctx context.Context, url string) ([]byte, error) {
	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("transport_error").Inc()
		return nil, fmt.Errorf("hotpepper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues("status_" + strconv.Itoa(resp.StatusCode)).Inc()
		return nil, upstreamError(resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read hotpepper body: %w", err)
	}
	return body, nil
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
