package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"tavolo/internal/booking"
	"tavolo/internal/metrics"
)

// CreateReservationRequest is the request body for POST /api/reservations.
type CreateReservationRequest struct {
	RestaurantID int64  `json:"restaurant_id"`
	PartySize    int    `json:"party_size"`
	Start        string `json:"start"` // RFC 3339
	End          string `json:"end"`   // RFC 3339
	GuestName    string `json:"guest_name"`
	GuestPhone   string `json:"guest_phone,omitempty"`
	TableID      *int64 `json:"table_id,omitempty"`
	OwnerID      *int64 `json:"owner_id,omitempty"`
	Status       string `json:"status,omitempty"` // "booked" (default) or "pending"
}

// SetStatusRequest is the request body for POST /api/reservations/{id}/status.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// handleCreateReservation books a table.
// POST /api/reservations
func (s *HTTPServer) handleCreateReservation(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("create_reservation")

	var req CreateReservationRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	start, err := time.Parse(time.RFC3339, req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start; expected RFC 3339 timestamp")
		return
	}
	end, err := time.Parse(time.RFC3339, req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end; expected RFC 3339 timestamp")
		return
	}

	reservation, err := s.bookings.Create(r.Context(), booking.CreateRequest{
		RestaurantID: req.RestaurantID,
		PartySize:    req.PartySize,
		Start:        start,
		End:          end,
		GuestName:    req.GuestName,
		GuestPhone:   req.GuestPhone,
		TableID:      req.TableID,
		OwnerID:      req.OwnerID,
		Status:       req.Status,
	})
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, reservation)
}

// handleListReservations lists reservations, optionally filtered by owner.
// GET /api/reservations?owner_id=7
func (s *HTTPServer) handleListReservations(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("list_reservations")

	var ownerID *int64
	if v := r.URL.Query().Get("owner_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "owner_id must be an integer")
			return
		}
		ownerID = &id
	}

	reservations, err := s.bookings.List(r.Context(), ownerID)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"reservations": reservations})
}

// handleGetReservation returns one reservation.
// GET /api/reservations/{id}
func (s *HTTPServer) handleGetReservation(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("get_reservation")

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	reservation, err := s.bookings.Get(r.Context(), id)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// handleSetStatus applies a lifecycle transition.
// POST /api/reservations/{id}/status
func (s *HTTPServer) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("set_status")

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var req SetStatusRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	reservation, err := s.bookings.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// handleDeleteReservation hard-deletes a reservation. Repeat calls come
// back 404, never 500.
// DELETE /api/reservations/{id}
func (s *HTTPServer) handleDeleteReservation(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("delete_reservation")

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	reservation, err := s.bookings.Delete(r.Context(), id)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}
