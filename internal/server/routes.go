package server

import (
	"net/http"

	"tripforge/internal/httpapi"
	"tripforge/internal/middleware"
)

func NewMux(
	tripHandler *httpapi.TripHandler,
	watchHandler *httpapi.WatchHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/trips/generate", tripHandler.HandleGenerate)
	mux.HandleFunc("GET /api/trips", tripHandler.HandleList)
	mux.HandleFunc("GET /api/trips/{id}", tripHandler.HandleGet)
	mux.HandleFunc("DELETE /api/trips/{id}", tripHandler.HandleDelete)
	mux.HandleFunc("POST /api/trips/{id}/activate", tripHandler.HandleActivate)

	mux.HandleFunc("GET /api/runs/{id}/watch", watchHandler.HandleWatch)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return middleware.CORS(mux)
}
