package api

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gourmet-search/internal/model"
)

// GourmetResponse is the subset of the HotPepper gourmet payload the proxy uses.
type GourmetResponse struct {
	Results struct {
		Available       json.RawMessage `json:"results_available"`
		LegacyAvailable json.RawMessage `json:"available"`
		Shop            []struct {
			Id      string `json:"id"`
			Name    string `json:"name"`
			Address string `json:"address"`
			Genre   struct {
				Name string `json:"name"`
			} `json:"genre"`
			Photo struct {
				Pc struct {
					L string `json:"l"`
				} `json:"pc"`
			} `json:"photo"`
			Urls struct {
				Pc string `json:"pc"`
			} `json:"urls"`
		} `json:"shop"`
	} `json:"results"`
}

// Total returns the provider-reported result count. ok is false when the
// field is missing or not numeric, in which case total is 0.
func (g *GourmetResponse) Total() (total int, ok bool) {
	raw := g.Results.Available
	if len(raw) == 0 {
		raw = g.Results.LegacyAvailable
	}
	return parseCount(raw)
}

func (g *GourmetResponse) Shops() []model.Shop {
	shops := make([]model.Shop, 0, len(g.Results.Shop))
	for _, doc := range g.Results.Shop {
		shops = append(shops, model.Shop{
			ID:      doc.Id,
			Name:    doc.Name,
			Address: doc.Address,
			Genre:   doc.Genre.Name,
			Photo:   doc.Photo.Pc.L,
			URL:     doc.Urls.Pc,
		})
	}
	return shops
}

// parseCount accepts a JSON number or a numeric JSON string.
func parseCount(raw json.RawMessage) (int, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, false
	}

	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
	} else {
		s = string(raw)
	}

	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
