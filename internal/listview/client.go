package listview

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gourmet-search/internal/model"
)

// FetchError is a non-2xx reply from the shop proxy.
type FetchError struct {
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Failed to fetch: %d", e.Status)
}

// Client calls the proxy's /api/shops route.
type Client struct {
	baseURL string
	count   int
	http    *http.Client
}

func NewClient(baseURL string, count int) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		count:   count,
		http:    &http.Client{},
	}
}

func (c *Client) FetchShops(ctx context.Context, page int) (*model.SearchResult, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if c.count > 0 {
		q.Set("count", strconv.Itoa(c.count))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/shops?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Status: resp.StatusCode}
	}

	var res model.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, fmt.Errorf("decode shops: %w", err)
	}
	return &res, nil
}
