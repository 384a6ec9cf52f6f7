package model

// Shop is a single provider search hit. Only ID, Name and Address are
// guaranteed; the rest is passed through when the provider sends it.
type Shop struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Genre   string `json:"genre,omitempty"`
	Photo   string `json:"photo,omitempty"`
	URL     string `json:"url,omitempty"`
}

type SearchRequest struct {
	Page    int
	Count   int
	Keyword string
	Area    string
}

// Offset is the zero-based provider index of the first shop on the page.
func (r SearchRequest) Offset() int {
	return (r.Page - 1) * r.Count
}

type SearchResult struct {
	Shops       []Shop  `json:"shops"`
	Total       int     `json:"total"`
	CurrentPage int     `json:"currentPage"`
	NextPage    *int    `json:"nextPage"`
	NextURL     *string `json:"nextUrl"`
}

// HasNext reports whether the provider has shops past this page.
func (r SearchResult) HasNext() bool {
	return r.NextPage != nil
}

// ShopPage is one provider page before pagination is applied. It is what the
// result cache stores.
type ShopPage struct {
	Shops []Shop `json:"shops"`
	Total int    `json:"total"`
}
