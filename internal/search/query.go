package search

import (
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"gourmet-search/internal/api"
	"gourmet-search/internal/config"
	"gourmet-search/internal/model"
)

// Defaults are applied to absent or unusable query parameters.
type Defaults struct {
	Area     string
	Count    int
	MaxCount int
	// Strict rejects non-numeric page/count with 400 instead of defaulting.
	Strict bool
}

func DefaultsFrom(cfg config.SearchConfig) Defaults {
	d := Defaults{
		Area:     cfg.DefaultArea,
		Count:    cfg.DefaultCount,
		MaxCount: cfg.MaxCount,
		Strict:   cfg.StrictParams,
	}
	if d.Area == "" {
		d.Area = "Z098"
	}
	if d.Count < 1 {
		d.Count = 10
	}
	if d.MaxCount < d.Count {
		d.MaxCount = d.Count
	}
	return d
}

// ParseRequest reads page, count, large_area and keyword from inbound query
// parameters. The returned request always has Page >= 1, Count >= 1 and
// Page*Count < math.MaxInt, so neither the offset nor the next page overflows.
func ParseRequest(q url.Values, d Defaults) (model.SearchRequest, error) {
	page, err := intParam(q, "page", 1, d.Strict)
	if err != nil {
		return model.SearchRequest{}, err
	}
	count, err := intParam(q, "count", d.Count, d.Strict)
	if err != nil {
		return model.SearchRequest{}, err
	}

	if page < 1 {
		page = 1
	}
	if count < 1 {
		count = d.Count
	}
	if d.MaxCount > 0 && count > d.MaxCount {
		count = d.MaxCount
	}
	if maxPage := (math.MaxInt - 1) / count; page > maxPage {
		slog.Warn("page out of range, clamping", "page", page, "max", maxPage)
		page = maxPage
	}

	area := q.Get("large_area")
	if area == "" {
		area = d.Area
	}

	return model.SearchRequest{
		Page:    page,
		Count:   count,
		Keyword: q.Get("keyword"),
		Area:    area,
	}, nil
}

func intParam(q url.Values, name string, def int, strict bool) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		if strict {
			return 0, &api.APIError{Status: http.StatusBadRequest, Message: "invalid " + name + " parameter"}
		}
		slog.Warn("non-numeric query parameter, using default", "param", name, "value", raw, "default", def)
		return def, nil
	}
	return v, nil
}

// ProviderQuery renders req in the gourmet API dialect. The API key is added
// by the fetcher.
func ProviderQuery(req model.SearchRequest) url.Values {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("large_area", req.Area)
	q.Set("count", strconv.Itoa(req.Count))
	q.Set("start", strconv.Itoa(req.Offset()))
	if req.Keyword != "" {
		q.Set("keyword", req.Keyword)
	}
	return q
}
