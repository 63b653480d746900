// Package httpapi exposes the trip pipeline over plain HTTP plus a
// websocket watch endpoint for run progress.
package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"tripforge/internal/docstore"
	"tripforge/internal/pipeline"
	"tripforge/internal/runhub"
	"tripforge/internal/trip"
)

const dateLayout = "2006-01-02"

type TripHandler struct {
	store  docstore.Store
	hub    *runhub.Hub
	logger *log.Logger
}

func NewTripHandler(store docstore.Store, hub *runhub.Hub, logger *log.Logger) *TripHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &TripHandler{store: store, hub: hub, logger: logger}
}

type generateRequest struct {
	Destination  string `json:"destination"`
	Country      string `json:"country,omitempty"`
	Category     string `json:"category"`
	DurationDays int    `json:"durationDays"`
	TravelerType string `json:"travelerType"`
	Budget       string `json:"budget"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	FestivalName string `json:"festivalName,omitempty"`
	ArtistName   string `json:"artistName,omitempty"`
	ConcertDate  string `json:"concertDate,omitempty"`
}

type generateResponse struct {
	RunID string `json:"runId"`
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// HandleGenerate triggers a new generation run and returns its id. The run
// proceeds in the background; clients follow it on the watch endpoint.
func (h *TripHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var body generateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, pipeline.FailValidation, "request body must be valid JSON")
		return
	}

	params, err := body.toParameters()
	if err != nil {
		writeError(w, http.StatusBadRequest, pipeline.FailValidation, err.Error())
		return
	}

	run := h.hub.Launch(pipeline.Request{UserID: userID, Params: params})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(generateResponse{RunID: run.ID})
}

func (b generateRequest) toParameters() (trip.Parameters, error) {
	p := trip.Parameters{
		Destination:  strings.TrimSpace(b.Destination),
		Country:      strings.TrimSpace(b.Country),
		Category:     trip.Category(strings.ToLower(strings.TrimSpace(b.Category))),
		DurationDays: b.DurationDays,
		TravelerType: strings.TrimSpace(b.TravelerType),
		FestivalName: strings.TrimSpace(b.FestivalName),
		ArtistName:   strings.TrimSpace(b.ArtistName),
		ConcertDate:  strings.TrimSpace(b.ConcertDate),
	}
	if tier, ok := trip.ParseBudgetTier(b.Budget); ok {
		p.Budget = tier
	} else if strings.TrimSpace(b.Budget) != "" {
		return trip.Parameters{}, errors.New("budget must be one of Cheap, Moderate, Luxury")
	}
	if raw := strings.TrimSpace(b.StartDate); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return trip.Parameters{}, errors.New("startDate must use YYYY-MM-DD")
		}
		p.StartDate = t
	}
	if raw := strings.TrimSpace(b.EndDate); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return trip.Parameters{}, errors.New("endDate must use YYYY-MM-DD")
		}
		p.EndDate = t
	}
	return p, nil
}

type instanceResponse struct {
	trip.Instance
	// Itinerary is joined from the referenced template for non-embedded
	// instances so clients get one complete document.
	Itinerary *trip.Itinerary `json:"itinerary,omitempty"`
	ImageURL  string          `json:"imageUrl,omitempty"`
}

func (h *TripHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	instances, err := h.store.ListInstances(r.Context(), userID)
	if err != nil {
		h.logger.Printf("httpapi: list instances: %v", err)
		writeError(w, http.StatusInternalServerError, pipeline.FailPersistence, "could not load trips")
		return
	}
	writeJSON(w, http.StatusOK, instances)
}

func (h *TripHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	inst, err := h.store.GetInstance(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, pipeline.FailValidation, "trip not found")
			return
		}
		h.logger.Printf("httpapi: get instance: %v", err)
		writeError(w, http.StatusInternalServerError, pipeline.FailPersistence, "could not load trip")
		return
	}

	resp := instanceResponse{Instance: inst, Itinerary: inst.Itinerary}
	if !inst.Embedded() && inst.TemplateKey != "" {
		tpl, err := h.store.GetTemplate(r.Context(), inst.TemplateKey)
		if err != nil {
			h.logger.Printf("httpapi: join template %q: %v", inst.TemplateKey, err)
		} else {
			resp.Itinerary = &tpl.Itinerary
			resp.ImageURL = tpl.ImageURL
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TripHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	err := h.store.DeleteInstance(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, pipeline.FailValidation, "trip not found")
			return
		}
		h.logger.Printf("httpapi: delete instance: %v", err)
		writeError(w, http.StatusInternalServerError, pipeline.FailPersistence, "could not delete trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type activateRequest struct {
	Active bool `json:"active"`
}

func (h *TripHandler) HandleActivate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	var body activateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, pipeline.FailValidation, "request body must be valid JSON")
		return
	}
	err := h.store.SetInstanceActive(r.Context(), userID, r.PathValue("id"), body.Active)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			writeError(w, http.StatusNotFound, pipeline.FailValidation, "trip not found")
			return
		}
		h.logger.Printf("httpapi: activate instance: %v", err)
		writeError(w, http.StatusInternalServerError, pipeline.FailPersistence, "could not update trip")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TripHandler) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-ID"))
	if userID == "" {
		writeError(w, http.StatusUnauthorized, pipeline.FailAuth, "You need to be signed in to generate a trip.")
		return "", false
	}
	return userID, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, kind pipeline.FailureKind, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Kind: string(kind), Message: message}})
}
