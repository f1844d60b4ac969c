package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestQueriesCoverBothLanguages(t *testing.T) {
	queries := Queries()
	if len(queries) == 0 {
		t.Fatal("no queries generated")
	}

	var ua, en int
	for _, q := range queries {
		switch {
		case strings.HasSuffix(q, " наступні 4 тижні"):
			ua++
		case strings.HasSuffix(q, " next 4 weeks"):
			en++
		default:
			t.Errorf("query %q has no timeframe suffix", q)
		}
	}
	if ua == 0 || en == 0 {
		t.Errorf("expected queries in both languages, got ua=%d en=%d", ua, en)
	}
}

func TestQueriesSuffixMatchesLanguage(t *testing.T) {
	for _, q := range Queries() {
		if hasCyrillic(strings.TrimSuffix(q, " наступні 4 тижні")) == strings.HasSuffix(q, " next 4 weeks") {
			t.Errorf("suffix language mismatch: %q", q)
		}
	}
}

func TestSearch(t *testing.T) {
	var gotReq map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]string{
				{"title": "Forum", "url": "https://e.org/ev", "content": "snippet"},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "test-key", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	results, err := c.Search(context.Background(), "urban planning Ukraine", 7)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].URL != "https://e.org/ev" {
		t.Errorf("results = %+v", results)
	}

	if gotReq["query"] != "urban planning Ukraine" {
		t.Errorf("query sent = %v", gotReq["query"])
	}
	if gotReq["search_depth"] != "advanced" {
		t.Errorf("search_depth = %v", gotReq["search_depth"])
	}
	if gotReq["max_results"] != float64(7) {
		t.Errorf("max_results = %v", gotReq["max_results"])
	}
	if gotReq["include_raw_content"] != true {
		t.Errorf("include_raw_content = %v", gotReq["include_raw_content"])
	}
}

func TestSearchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL, "test-key", 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Search(context.Background(), "anything", 5); err == nil {
		t.Error("expected error on HTTP 429")
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("http://x", "", time.Second); err == nil {
		t.Error("expected error for empty api key")
	}
}
