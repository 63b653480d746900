// Package imageresolver picks a cover image for a trip template. Resolution
// is best effort and total: a configured search API is tried first, then a
// curated table of common destinations, then a deterministic pick from a
// static pool. Resolve never fails; the worst case is a stock photo.
package imageresolver

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tripforge/internal/imagestore"
)

type Config struct {
	// SearchEndpoint is the image search API base URL. Empty disables the
	// search step.
	SearchEndpoint string
	APIKey         string
}

type Resolver struct {
	cfg    Config
	client *http.Client

	// store, when set, mirrors search hits into object storage so the
	// template keeps serving the same image after the upstream result
	// rotates. Mirroring failures fall back to the direct URL.
	store *imagestore.Store
}

func New(cfg Config, store *imagestore.Store) *Resolver {
	return &Resolver{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		store:  store,
	}
}

// Resolve returns a cover image URL for the destination. It does not return
// an error; template creation must never block on imagery.
func (r *Resolver) Resolve(ctx context.Context, destination, category string) string {
	dest := strings.TrimSpace(destination)

	if u := r.search(ctx, dest, category); u != "" {
		return r.mirror(ctx, dest, category, u)
	}
	if u, ok := curated[strings.ToLower(dest)]; ok {
		return u
	}
	return fallback(dest, category)
}

type searchResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
}

func (r *Resolver) search(ctx context.Context, destination, category string) string {
	if r == nil || r.cfg.SearchEndpoint == "" || destination == "" {
		return ""
	}

	q := url.Values{}
	q.Set("q", destination+" "+category+" travel")
	q.Set("count", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(r.cfg.SearchEndpoint, "/")+"/search?"+q.Encode(), nil)
	if err != nil {
		return ""
	}
	if r.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.APIKey)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ""
	}
	var sr searchResponse
	if err := json.Unmarshal(body, &sr); err != nil || len(sr.Images) == 0 {
		return ""
	}
	return strings.TrimSpace(sr.Images[0].URL)
}

// mirror copies the image behind src into object storage keyed by
// destination and category. Any failure returns src unchanged.
func (r *Resolver) mirror(ctx context.Context, destination, category, src string) string {
	if r.store == nil {
		return src
	}

	key := mirrorKey(destination, category)
	if u, err := r.store.GetURL(ctx, key); err == nil {
		if _, err := r.store.Get(ctx, key); err == nil {
			return u
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return src
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return src
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return src
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil || len(data) == 0 {
		return src
	}

	if err := r.store.Put(ctx, key, resp.Header.Get("Content-Type"), data); err != nil {
		return src
	}
	u, err := r.store.GetURL(ctx, key)
	if err != nil {
		return src
	}
	return u
}

func mirrorKey(destination, category string) string {
	dest := strings.Join(strings.Fields(strings.ToLower(destination)), "-")
	return fmt.Sprintf("%s-%s", dest, strings.ToLower(category))
}

// curated maps well-known destinations to hand-picked covers.
var curated = map[string]string{
	"paris":     "https://images.unsplash.com/photo-1502602898657-3e91760cbb34",
	"tokyo":     "https://images.unsplash.com/photo-1540959733332-eab4deabeeaf",
	"rome":      "https://images.unsplash.com/photo-1552832230-c0197dd311b5",
	"london":    "https://images.unsplash.com/photo-1513635269975-59663e0ac1ad",
	"new york":  "https://images.unsplash.com/photo-1496442226666-8d4d0e62e6e9",
	"barcelona": "https://images.unsplash.com/photo-1583422409516-2895a77efded",
	"kyoto":     "https://images.unsplash.com/photo-1493976040374-85c8e12f0c0e",
	"sydney":    "https://images.unsplash.com/photo-1506973035872-a4ec16b8e8d9",
	"bangkok":   "https://images.unsplash.com/photo-1508009603885-50cf7c579365",
	"istanbul":  "https://images.unsplash.com/photo-1524231757912-21f4fe3a7200",
}

// pool is the last-resort stock set. The pick is a hash of destination and
// category, so the same trip always gets the same image.
var pool = []string{
	"https://images.unsplash.com/photo-1469854523086-cc02fe5d8800",
	"https://images.unsplash.com/photo-1476514525535-07fb3b4ae5f1",
	"https://images.unsplash.com/photo-1488646953014-85cb44e25828",
	"https://images.unsplash.com/photo-1507525428034-b723cf961d3e",
	"https://images.unsplash.com/photo-1500835556837-99ac94a94552",
	"https://images.unsplash.com/photo-1530521954074-e64f6810b32d",
}

func fallback(destination, category string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(destination)))
	_, _ = h.Write([]byte(strings.ToLower(category)))
	return pool[int(h.Sum32())%len(pool)]
}
