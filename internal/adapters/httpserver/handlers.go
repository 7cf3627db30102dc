package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"intern_reports/internal/app"
)

type Handlers struct{ Snap *app.Snapshot }

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/readyz", h.ready)
	s.mux.Get("/v1/reviews", h.getReviews)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorBody{Error: msg}); err != nil {
		log.Error().Err(err).Msg("write JSON error response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal snapshot for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func (h *Handlers) ready(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := h.Snap.Current(); !ok {
		writeError(w, http.StatusServiceUnavailable, "first scrape has not completed yet")
		return
	}
	w.WriteHeader(200)
	_, _ = w.Write([]byte("ok"))
}

// getReviews serves the whole dataset snapshot. No query parameters, no
// pagination; 500 until the first aggregation run has succeeded.
func (h *Handlers) getReviews(w http.ResponseWriter, r *http.Request) {
	data, updated, ok := h.Snap.Current()
	if !ok {
		writeError(w, http.StatusInternalServerError, "dataset not ready: first scrape has not completed yet")
		return
	}

	etag, body := calcETagAndBody(data)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", updated.UTC().Format(http.TimeFormat))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write reviews body")
	}
}
