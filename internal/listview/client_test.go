package listview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientFetchShops(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/shops" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("count") != "10" {
			t.Fatalf("unexpected query %q", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"shops":[{"id":"J1","name":"A","address":"Naha"}],"total":25,"currentPage":2,"nextPage":3,"nextUrl":"http://x/api/shops?page=3"}`))
	}))
	defer server.Close()

	res, err := NewClient(server.URL+"/", 10).FetchShops(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CurrentPage != 2 || res.Total != 25 || len(res.Shops) != 1 || res.NextPage == nil || *res.NextPage != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestClientFetchShopsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"No shops found"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, 10).FetchShops(context.Background(), 1)
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Status != http.StatusNotFound {
		t.Fatalf("expected FetchError 404, got %v", err)
	}
	if err.Error() != "Failed to fetch: 404" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
