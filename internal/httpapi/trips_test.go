package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tripforge/internal/docstore/memory"
	"tripforge/internal/genclient"
	"tripforge/internal/pipeline"
	"tripforge/internal/runhub"
	"tripforge/internal/trip"
)

type cannedLLM struct{ out string }

func (c cannedLLM) Name() string { return "canned" }
func (c cannedLLM) Close() error { return nil }
func (c cannedLLM) Generate(context.Context, string) (string, error) {
	return c.out, nil
}

func testHandler(store *memory.Store) *TripHandler {
	n := 0
	hub := runhub.New(pipeline.Ports{
		Store: store,
		Gen: genclient.New(cannedLLM{out: `{"tripName":"Paris, FRA","day1":{"places":[]}}`},
			genclient.RetryPolicy{MaxAttempts: 1, Delay: func(int) time.Duration { return 0 }}),
		NewID: func() string {
			n++
			return "id-" + strings.Repeat("x", n)
		},
	}, nil)
	return NewTripHandler(store, hub, nil)
}

func TestHandleGenerateRequiresUser(t *testing.T) {
	h := testHandler(memory.New())
	req := httptest.NewRequest(http.MethodPost, "/api/trips/generate", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.HandleGenerate(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if body.Error.Kind != string(pipeline.FailAuth) {
		t.Fatalf("error kind = %q, want auth", body.Error.Kind)
	}
}

func TestHandleGenerateAcceptsRun(t *testing.T) {
	h := testHandler(memory.New())
	payload := `{
		"destination": "Paris",
		"category": "general",
		"durationDays": 3,
		"travelerType": "solo",
		"budget": "moderate",
		"startDate": "2026-09-01",
		"endDate": "2026-09-03"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/trips/generate", strings.NewReader(payload))
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()

	h.HandleGenerate(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusAccepted, rec.Body.String())
	}
	var body generateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if body.RunID == "" {
		t.Fatalf("runId missing in response")
	}
}

func TestHandleGenerateRejectsBadDates(t *testing.T) {
	h := testHandler(memory.New())
	req := httptest.NewRequest(http.MethodPost, "/api/trips/generate",
		strings.NewReader(`{"destination":"Paris","startDate":"09/01/2026"}`))
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()

	h.HandleGenerate(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleGetJoinsTemplate(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	if err := store.PutTemplate(ctx, trip.Template{
		Key:       "paris-3-moderate-general",
		Itinerary: trip.Itinerary{TripName: "Paris, FRA", Days: map[int]trip.Day{}},
		ImageURL:  "https://img.test/paris",
	}); err != nil {
		t.Fatalf("PutTemplate() error = %v", err)
	}
	if err := store.PutInstance(ctx, trip.Instance{
		ID:          "t1",
		UserID:      "user-1",
		TemplateKey: "paris-3-moderate-general",
		Destination: "Paris",
	}); err != nil {
		t.Fatalf("PutInstance() error = %v", err)
	}

	h := testHandler(store)
	req := httptest.NewRequest(http.MethodGet, "/api/trips/t1", nil)
	req.SetPathValue("id", "t1")
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()

	h.HandleGet(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var body struct {
		Itinerary *trip.Itinerary `json:"itinerary"`
		ImageURL  string          `json:"imageUrl"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response not JSON: %v", err)
	}
	if body.Itinerary == nil || body.Itinerary.TripName != "Paris, FRA" {
		t.Fatalf("itinerary not joined from template: %s", rec.Body.String())
	}
	if body.ImageURL != "https://img.test/paris" {
		t.Fatalf("imageUrl = %q, want template image", body.ImageURL)
	}
}

func TestHandleGetUnknownInstance(t *testing.T) {
	h := testHandler(memory.New())
	req := httptest.NewRequest(http.MethodGet, "/api/trips/nope", nil)
	req.SetPathValue("id", "nope")
	req.Header.Set("X-User-ID", "user-1")
	rec := httptest.NewRecorder()

	h.HandleGet(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
