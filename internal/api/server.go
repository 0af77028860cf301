// Package api is the thin HTTP JSON transport over the reservation engine.
// Routing and middleware stay minimal; authentication is an external layer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"tavolo/internal/availability"
	"tavolo/internal/booking"
	"tavolo/internal/export"
	"tavolo/internal/models"

	"github.com/rs/zerolog"
)

// HTTPServer serves the reservation API.
type HTTPServer struct {
	server   *http.Server
	bookings *booking.Service
	composer *availability.Composer
	daybook  *export.Daybook
	logger   *zerolog.Logger
}

// NewHTTPServer wires routes and returns a server ready to ListenAndServe.
func NewHTTPServer(addr string, bookings *booking.Service, composer *availability.Composer, daybook *export.Daybook, logger *zerolog.Logger) *HTTPServer {
	s := &HTTPServer{
		bookings: bookings,
		composer: composer,
		daybook:  daybook,
		logger:   logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/availability", s.handleAvailability)
	mux.HandleFunc("POST /api/reservations", s.handleCreateReservation)
	mux.HandleFunc("GET /api/reservations", s.handleListReservations)
	mux.HandleFunc("GET /api/reservations/{id}", s.handleGetReservation)
	mux.HandleFunc("POST /api/reservations/{id}/status", s.handleSetStatus)
	mux.HandleFunc("DELETE /api/reservations/{id}", s.handleDeleteReservation)
	mux.HandleFunc("GET /api/restaurants/{id}/daybook", s.handleDaybook)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// ListenAndServe blocks serving requests.
func (s *HTTPServer) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown stops the server gracefully.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeEngineError maps the error taxonomy onto HTTP statuses: validation
// 422, not-found 404, conflict 409, everything else 500.
func (s *HTTPServer) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidStatus):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		if s.logger != nil {
			s.logger.Error().Err(err).Msg("internal error")
		}
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
