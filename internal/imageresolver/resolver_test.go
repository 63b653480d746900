package imageresolver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestResolveCuratedFallback(t *testing.T) {
	r := New(Config{}, nil)
	got := r.Resolve(context.Background(), "Paris", "general")
	if got != curated["paris"] {
		t.Fatalf("Resolve() = %q, want curated paris cover", got)
	}
	// Lookup is case-insensitive.
	if r.Resolve(context.Background(), "  PARIS ", "general") != got {
		t.Fatalf("curated lookup is case-sensitive")
	}
}

func TestResolvePoolFallbackDeterministic(t *testing.T) {
	r := New(Config{}, nil)
	first := r.Resolve(context.Background(), "Ouagadougou", "general")
	second := r.Resolve(context.Background(), "Ouagadougou", "general")
	if first == "" {
		t.Fatalf("Resolve() returned empty URL")
	}
	if first != second {
		t.Fatalf("pool fallback not deterministic: %q then %q", first, second)
	}
	found := false
	for _, u := range pool {
		if u == first {
			found = true
		}
	}
	if !found {
		t.Fatalf("Resolve() = %q, not from the static pool", first)
	}
}

func TestResolveUsesSearchAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Query().Get("q"), "Reykjavik") {
			t.Errorf("search query = %q, want destination included", r.URL.Query().Get("q"))
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode(searchResponse{Images: []struct {
			URL string `json:"url"`
		}{{URL: "https://img.example/reykjavik.jpg"}}})
	}))
	defer srv.Close()

	r := New(Config{SearchEndpoint: srv.URL, APIKey: "test-key"}, nil)
	got := r.Resolve(context.Background(), "Reykjavik", "hidden-gem")
	if got != "https://img.example/reykjavik.jpg" {
		t.Fatalf("Resolve() = %q, want search result", got)
	}
}

func TestResolveSearchFailureFallsThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	r := New(Config{SearchEndpoint: srv.URL}, nil)
	got := r.Resolve(context.Background(), "Tokyo", "general")
	if got != curated["tokyo"] {
		t.Fatalf("Resolve() = %q, want curated tokyo cover after search failure", got)
	}
}
