package search

import (
	"net/url"
	"strconv"

	"gourmet-search/internal/model"
)

// NextURL clones query, overwrites page with next and attaches it to base.
func NextURL(base *url.URL, query url.Values, next int) string {
	q := make(url.Values, len(query)+1)
	for k, vals := range query {
		q[k] = append([]string(nil), vals...)
	}
	q.Set("page", strconv.Itoa(next))

	u := *base
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String()
}

func Compose(req model.SearchRequest, page *model.ShopPage, base *url.URL, query url.Values) *model.SearchResult {
	shops := page.Shops
	if shops == nil {
		shops = []model.Shop{}
	}
	res := &model.SearchResult{
		Shops:       shops,
		Total:       page.Total,
		CurrentPage: req.Page,
	}
	if next, ok := NextPage(req.Page, req.Count, req.Offset(), page.Total); ok {
		nextURL := NextURL(base, query, next)
		res.NextPage = &next
		res.NextURL = &nextURL
	}
	return res
}
