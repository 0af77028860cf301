// Package availability combines the table catalog, the booking ledger and
// the time grid into per-slot free-table lists.
package availability

import (
	"context"
	"fmt"
	"time"

	"tavolo/internal/catalog"
	"tavolo/internal/models"
	"tavolo/internal/timegrid"

	"github.com/rs/zerolog"
)

// Ledger is the read side of the reservation store the composer needs.
type Ledger interface {
	ReservationsForWindow(ctx context.Context, restaurantID int64, start, end time.Time) ([]models.Reservation, error)
}

// Result is the availability answer for one restaurant and date.
type Result struct {
	Slots    []models.Slot `json:"slots"`
	Timezone string        `json:"restaurant_timezone"`
}

// Composer is read-only over shared state and safe for concurrent use.
type Composer struct {
	catalog  *catalog.Catalog
	ledger   Ledger
	assigner catalog.TableAssigner
	logger   *zerolog.Logger
}

// NewComposer wires a composer. A nil assigner falls back to smallest-fit.
func NewComposer(cat *catalog.Catalog, ledger Ledger, assigner catalog.TableAssigner, logger *zerolog.Logger) *Composer {
	if assigner == nil {
		assigner = catalog.SmallestFit{Catalog: cat}
	}
	return &Composer{catalog: cat, ledger: ledger, assigner: assigner, logger: logger}
}

// Availability returns the free-table slots for a restaurant, party size and
// calendar date. Day boundaries are computed in restaurant-local time and
// converted for the storage query, so a request never leaks bookings across
// a DST or offset change.
func (c *Composer) Availability(ctx context.Context, restaurantID int64, date time.Time, partySize int) (*Result, error) {
	if partySize < 1 {
		return nil, fmt.Errorf("%w: party_size must be >= 1", models.ErrValidation)
	}

	restaurant, ok := c.catalog.Restaurant(restaurantID)
	if !ok {
		return nil, fmt.Errorf("%w: restaurant %d", models.ErrNotFound, restaurantID)
	}

	loc := restaurant.Location()
	hours := restaurant.HoursFor(dateInLocation(date, loc).Weekday())

	windows := timegrid.Generate(dateInLocation(date, loc), loc, timegrid.Params{
		Open:         hours.Open,
		Close:        hours.Close,
		SlotDuration: time.Duration(restaurant.SlotMinutes) * time.Minute,
		Step:         time.Duration(restaurant.StepMinutes) * time.Minute,
	})

	dayStart, dayEnd := timegrid.DayBounds(dateInLocation(date, loc), loc)
	queryEnd := dayEnd
	if n := len(windows); n > 0 && windows[n-1].End.After(queryEnd) {
		// Overnight hours push the last windows past local midnight.
		queryEnd = windows[n-1].End
	}

	reservations, err := c.ledger.ReservationsForWindow(ctx, restaurantID, dayStart, queryEnd)
	if err != nil {
		return nil, fmt.Errorf("fetch reservations: %w", err)
	}

	occupancy := c.occupancyByTable(restaurantID, reservations)
	eligible := c.catalog.EligibleTables(restaurantID, partySize)

	slots := make([]models.Slot, 0, len(windows))
	for _, w := range windows {
		free := make([]int64, 0, len(eligible))
		for _, t := range eligible {
			if !tableBusy(occupancy[t.ID], w) {
				free = append(free, t.ID)
			}
		}
		slots = append(slots, models.Slot{
			Start:             w.Start,
			End:               w.End,
			AvailableTableIDs: free,
			Count:             len(free),
		})
	}

	return &Result{Slots: slots, Timezone: loc.String()}, nil
}

// occupancyByTable partitions reservations by table id. Floating rows are
// pinned to a concrete table through the assigner so they are never
// invisible to conflict accounting.
func (c *Composer) occupancyByTable(restaurantID int64, reservations []models.Reservation) map[int64][]models.Reservation {
	occupancy := make(map[int64][]models.Reservation)
	for _, r := range reservations {
		tableID := int64(0)
		if r.TableID != nil {
			tableID = *r.TableID
		} else {
			table, ok := c.assigner.Assign(restaurantID, r.PartySize)
			if !ok {
				if c.logger != nil {
					c.logger.Warn().Int64("reservation_id", r.ID).Msg("floating reservation with empty catalog")
				}
				continue
			}
			tableID = table.ID
		}
		occupancy[tableID] = append(occupancy[tableID], r)
	}
	return occupancy
}

func tableBusy(reservations []models.Reservation, w timegrid.Window) bool {
	for _, r := range reservations {
		if r.Overlaps(w.Start, w.End) {
			return true
		}
	}
	return false
}

// dateInLocation reinterprets the calendar day of date in loc. Callers pass
// dates parsed from "YYYY-MM-DD" strings, which arrive in UTC.
func dateInLocation(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
}
