package models

import (
	"errors"
	"time"
)

// Reservation statuses.
const (
	StatusPending   = "pending"
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
	StatusArrived   = "arrived"
	StatusNoShow    = "no_show"
)

var (
	// ErrValidation marks malformed input: inverted intervals, zero party
	// sizes, illegal status targets. Never retried.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an unknown restaurant, table or reservation.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an overlapping booking on the same table.
	ErrConflict = errors.New("reservation conflict")
	// ErrInvalidStatus marks a status value outside the known set.
	ErrInvalidStatus = errors.New("invalid status")
)

// DayHours is an open/close pair in "HH:MM" local wall-clock time.
// Close at or before Open means service runs past midnight.
type DayHours struct {
	Open  string `yaml:"open" json:"open"`
	Close string `yaml:"close" json:"close"`
}

// Restaurant carries the static data the engine needs: timezone and
// operating hours, optionally overridden per weekday. Immutable per request.
type Restaurant struct {
	ID           int64                     `yaml:"id" json:"id"`
	Name         string                    `yaml:"name" json:"name"`
	Timezone     string                    `yaml:"timezone" json:"timezone"`
	DefaultHours DayHours                  `yaml:"hours" json:"hours"`
	HoursByDay   map[time.Weekday]DayHours `yaml:"-" json:"-"`
	SlotMinutes  int                       `yaml:"slot_minutes" json:"slot_minutes"`
	StepMinutes  int                       `yaml:"step_minutes" json:"step_minutes"`
}

// HoursFor returns the operating hours for a weekday, falling back to the
// restaurant default when no per-day override exists.
func (r *Restaurant) HoursFor(day time.Weekday) DayHours {
	if h, ok := r.HoursByDay[day]; ok {
		return h
	}
	return r.DefaultHours
}

// Location resolves the restaurant timezone. Unknown zones fall back to the
// system default rather than failing the request.
func (r *Restaurant) Location() *time.Location {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil || loc == nil {
		return time.Local
	}
	return loc
}

// Table is owned by exactly one restaurant and is static per process
// lifetime; the catalog is rebuilt only on reload.
type Table struct {
	ID           int64  `yaml:"id" json:"id"`
	RestaurantID int64  `yaml:"-" json:"restaurant_id"`
	Label        string `yaml:"label" json:"label"`
	Capacity     int    `yaml:"capacity" json:"capacity"`
}

// Reservation is the ledger row. Start and End are stored normalized to UTC;
// conversion to restaurant-local time happens only at read/write boundaries.
type Reservation struct {
	ID               int64     `json:"id"`
	RestaurantID     int64     `json:"restaurant_id"`
	TableID          *int64    `json:"table_id,omitempty"` // nil = floating, resolved at query time
	PartySize        int       `json:"party_size"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	GuestName        string    `json:"guest_name"`
	GuestPhone       string    `json:"guest_phone,omitempty"`
	Status           string    `json:"status"`
	OwnerID          *int64    `json:"owner_id,omitempty"`
	ConfirmationCode string    `json:"confirmation_code"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// IsActive reports whether the reservation occupies its table for conflict
// accounting. Cancelled and no-show rows free the slot without being deleted.
func (r *Reservation) IsActive() bool {
	switch r.Status {
	case StatusPending, StatusBooked, StatusArrived:
		return true
	}
	return false
}

// Overlaps reports whether two half-open intervals [start,end) intersect.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.Start.Before(end) && start.Before(r.End)
}

// KnownStatus reports whether s belongs to the reservation status set.
func KnownStatus(s string) bool {
	switch s {
	case StatusPending, StatusBooked, StatusCancelled, StatusArrived, StatusNoShow:
		return true
	}
	return false
}

// ActiveStatuses lists the statuses that count toward table occupancy.
func ActiveStatuses() []string {
	return []string{StatusPending, StatusBooked, StatusArrived}
}

// Slot is a derived candidate window; it is never persisted.
type Slot struct {
	Start             time.Time `json:"start"`
	End               time.Time `json:"end"`
	AvailableTableIDs []int64   `json:"available_table_ids"`
	Count             int       `json:"count"`
}
