package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReservationOverlaps(t *testing.T) {
	base := time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)
	r := &Reservation{Start: base, End: base.Add(90 * time.Minute)}

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected bool
	}{
		{"same window", base, base.Add(90 * time.Minute), true},
		{"starts inside", base.Add(time.Hour), base.Add(2 * time.Hour), true},
		{"ends inside", base.Add(-time.Hour), base.Add(30 * time.Minute), true},
		{"covers", base.Add(-time.Hour), base.Add(3 * time.Hour), true},
		{"back to back after", base.Add(90 * time.Minute), base.Add(3 * time.Hour), false},
		{"back to back before", base.Add(-2 * time.Hour), base, false},
		{"disjoint", base.Add(4 * time.Hour), base.Add(5 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Overlaps(tt.start, tt.end))
		})
	}
}

func TestReservationIsActive(t *testing.T) {
	active := []string{StatusPending, StatusBooked, StatusArrived}
	inactive := []string{StatusCancelled, StatusNoShow, "garbage"}

	for _, s := range active {
		r := &Reservation{Status: s}
		assert.True(t, r.IsActive(), "status %s should occupy the table", s)
	}
	for _, s := range inactive {
		r := &Reservation{Status: s}
		assert.False(t, r.IsActive(), "status %s should free the table", s)
	}
}

func TestKnownStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusBooked, StatusCancelled, StatusArrived, StatusNoShow} {
		assert.True(t, KnownStatus(s), s)
	}
	for _, s := range []string{"", "seated", "confirmed", "BOOKED"} {
		assert.False(t, KnownStatus(s), s)
	}
}

func TestRestaurantHoursFor(t *testing.T) {
	r := &Restaurant{
		DefaultHours: DayHours{Open: "10:00", Close: "22:00"},
		HoursByDay: map[time.Weekday]DayHours{
			time.Friday: {Open: "10:00", Close: "01:00"},
		},
	}

	assert.Equal(t, "01:00", r.HoursFor(time.Friday).Close)
	assert.Equal(t, "22:00", r.HoursFor(time.Monday).Close)
}

func TestRestaurantLocation(t *testing.T) {
	r := &Restaurant{Timezone: "Europe/Rome"}
	loc := r.Location()
	assert.Equal(t, "Europe/Rome", loc.String())

	unknown := &Restaurant{Timezone: "Mars/Olympus"}
	assert.Equal(t, time.Local, unknown.Location())
}
