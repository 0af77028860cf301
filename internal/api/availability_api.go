package api

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"tavolo/internal/metrics"
)

// handleAvailability returns free-table slots for one restaurant and date.
// GET /api/availability?restaurant_id=1&date=YYYY-MM-DD&party_size=2
func (s *HTTPServer) handleAvailability(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("availability")

	restaurantID, err := strconv.ParseInt(r.URL.Query().Get("restaurant_id"), 10, 64)
	if err != nil || restaurantID <= 0 {
		writeError(w, http.StatusBadRequest, "restaurant_id is required and must be a positive integer")
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	partySize := 1
	if ps := r.URL.Query().Get("party_size"); ps != "" {
		partySize, err = strconv.Atoi(ps)
		if err != nil {
			writeError(w, http.StatusBadRequest, "party_size must be an integer")
			return
		}
	}

	result, err := s.composer.Availability(r.Context(), restaurantID, date, partySize)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleDaybook streams the day's reservations as an xlsx workbook.
// GET /api/restaurants/{id}/daybook?date=YYYY-MM-DD
func (s *HTTPServer) handleDaybook(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("daybook")

	restaurantID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || restaurantID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid restaurant id")
		return
	}

	dateStr := r.URL.Query().Get("date")
	date := time.Now()
	if dateStr != "" {
		date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
			return
		}
	}

	// Render into memory first so failures still get a proper status code.
	var buf bytes.Buffer
	if err := s.daybook.WriteDay(r.Context(), &buf, restaurantID, date); err != nil {
		s.writeEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="daybook-`+date.Format("2006-01-02")+`.xlsx"`)
	_, _ = w.Write(buf.Bytes())
}
