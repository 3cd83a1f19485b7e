package icons

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
)

func TestSearch(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"icons": ["mdi:database", "mdi:database-outline"], "total": 2}`))
	}))
	defer srv.Close()

	c := &Client{SearchURL: srv.URL + "/search?q={query}"}
	got, err := c.Search(context.Background(), "  data base ")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !slices.Equal(got, []string{"mdi:database", "mdi:database-outline"}) {
		t.Errorf("icons = %v", got)
	}
	if gotQuery != "data base" {
		t.Errorf("query = %q", gotQuery)
	}
}

func TestSearchShortQuery(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := &Client{SearchURL: srv.URL + "?q={query}"}
	if _, err := c.Search(context.Background(), " db "); !errors.Is(err, ErrQueryTooShort) {
		t.Fatalf("err = %v, want ErrQueryTooShort", err)
	}
	if called {
		t.Error("short query reached the network")
	}
}

func TestSearchEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	got, err := (&Client{SearchURL: srv.URL + "?q={query}"}).Search(context.Background(), "zzzz")
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("Search = %v, %v", got, err)
	}
}

func TestURL(t *testing.T) {
	c := &Client{RetrieveURL: "https://api.iconify.design/{icon}.svg"}
	if got := c.URL("mdi:database"); got != "https://api.iconify.design/mdi:database.svg" {
		t.Errorf("URL = %q", got)
	}
	if got := c.URL("https://cdn.example/x.svg"); got != "https://cdn.example/x.svg" {
		t.Errorf("URL passthrough = %q", got)
	}
}
