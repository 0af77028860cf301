package export

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"tavolo/internal/catalog"
	"tavolo/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type staticSource struct {
	restaurants []models.Restaurant
	tables      []models.Table
}

func (s staticSource) LoadRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	return s.restaurants, nil
}

func (s staticSource) LoadTables(ctx context.Context) ([]models.Table, error) {
	return s.tables, nil
}

type fakeLedger struct {
	reservations []models.Reservation
}

func (f *fakeLedger) ReservationsForWindow(ctx context.Context, restaurantID int64, start, end time.Time) ([]models.Reservation, error) {
	var out []models.Reservation
	for _, r := range f.reservations {
		if r.RestaurantID == restaurantID && r.Start.Before(end) && start.Before(r.End) {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestWriteDay(t *testing.T) {
	logger := zerolog.New(io.Discard)
	cat := catalog.New(&logger)
	require.NoError(t, cat.Reload(context.Background(), staticSource{
		restaurants: []models.Restaurant{{
			ID: 1, Name: "Trattoria", Timezone: "Europe/Rome",
			DefaultHours: models.DayHours{Open: "10:00", Close: "23:00"},
			SlotMinutes:  90, StepMinutes: 30,
		}},
		tables: []models.Table{{ID: 101, RestaurantID: 1, Label: "T1", Capacity: 2}},
	}))

	tableID := int64(101)
	ledger := &fakeLedger{reservations: []models.Reservation{{
		ID: 1, RestaurantID: 1, TableID: &tableID, PartySize: 2,
		// 17:00 UTC is 19:00 in Rome (CEST).
		Start:            time.Date(2026, 9, 10, 17, 0, 0, 0, time.UTC),
		End:              time.Date(2026, 9, 10, 18, 30, 0, 0, time.UTC),
		GuestName:        "Ada",
		GuestPhone:       "+39-555-0100",
		Status:           models.StatusBooked,
		ConfirmationCode: "abc-123",
	}}}

	daybook := NewDaybook(cat, ledger)
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, daybook.WriteDay(context.Background(), &buf, 1, date))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("2026-09-10")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one reservation")

	assert.Equal(t, headerColumns, rows[0])
	assert.Equal(t, "19:00 - 20:30", rows[1][0], "times render in restaurant local time")
	assert.Equal(t, "T1", rows[1][1])
	assert.Equal(t, "Ada", rows[1][3])
	assert.Equal(t, "booked", rows[1][5])
}

func TestWriteDayUnknownRestaurant(t *testing.T) {
	logger := zerolog.New(io.Discard)
	cat := catalog.New(&logger)
	daybook := NewDaybook(cat, &fakeLedger{})

	var buf bytes.Buffer
	err := daybook.WriteDay(context.Background(), &buf, 42, time.Now())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestWriteDayFloatingRow(t *testing.T) {
	logger := zerolog.New(io.Discard)
	cat := catalog.New(&logger)
	require.NoError(t, cat.Reload(context.Background(), staticSource{
		restaurants: []models.Restaurant{{ID: 1, Name: "Trattoria", Timezone: "UTC"}},
	}))

	ledger := &fakeLedger{reservations: []models.Reservation{{
		ID: 1, RestaurantID: 1, TableID: nil, PartySize: 2,
		Start:     time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 9, 10, 13, 30, 0, 0, time.UTC),
		GuestName: "Grace", Status: models.StatusPending,
	}}}

	var buf bytes.Buffer
	require.NoError(t, NewDaybook(cat, ledger).WriteDay(context.Background(), &buf, 1, time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)))

	file, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("2026-09-10")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "unassigned", rows[1][1])
}
