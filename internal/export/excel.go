// Package export produces the host-stand daybook: one Excel sheet listing a
// restaurant's reservations for a service day.
package export

import (
	"context"
	"fmt"
	"io"
	"time"

	"tavolo/internal/catalog"
	"tavolo/internal/models"
	"tavolo/internal/timegrid"

	"github.com/xuri/excelize/v2"
)

// Ledger is the read access the exporter needs.
type Ledger interface {
	ReservationsForWindow(ctx context.Context, restaurantID int64, start, end time.Time) ([]models.Reservation, error)
}

// Daybook writes per-day reservation sheets.
type Daybook struct {
	catalog *catalog.Catalog
	ledger  Ledger
}

// NewDaybook creates a daybook exporter.
func NewDaybook(cat *catalog.Catalog, ledger Ledger) *Daybook {
	return &Daybook{catalog: cat, ledger: ledger}
}

var headerColumns = []string{"Time", "Table", "Party", "Guest", "Phone", "Status", "Code"}

// WriteDay writes one restaurant's reservations for a local calendar day as
// an xlsx workbook. Times are rendered in the restaurant's timezone.
func (d *Daybook) WriteDay(ctx context.Context, w io.Writer, restaurantID int64, date time.Time) error {
	restaurant, ok := d.catalog.Restaurant(restaurantID)
	if !ok {
		return fmt.Errorf("%w: restaurant %d", models.ErrNotFound, restaurantID)
	}

	loc := restaurant.Location()
	dayStart, dayEnd := timegrid.DayBounds(date.In(loc), loc)

	reservations, err := d.ledger.ReservationsForWindow(ctx, restaurantID, dayStart, dayEnd)
	if err != nil {
		return fmt.Errorf("fetch reservations: %w", err)
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := date.Format("2006-01-02")
	file.SetSheetName("Sheet1", sheet)

	for i, col := range headerColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}
	if style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		start, _ := excelize.CoordinatesToCellName(1, 1)
		end, _ := excelize.CoordinatesToCellName(len(headerColumns), 1)
		_ = file.SetCellStyle(sheet, start, end, style)
	}

	for i, r := range reservations {
		row := []interface{}{
			fmt.Sprintf("%s - %s", r.Start.In(loc).Format("15:04"), r.End.In(loc).Format("15:04")),
			tableLabel(d.catalog, restaurantID, r.TableID),
			r.PartySize,
			r.GuestName,
			r.GuestPhone,
			r.Status,
			r.ConfirmationCode,
		}
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	return file.Write(w)
}

func tableLabel(cat *catalog.Catalog, restaurantID int64, tableID *int64) string {
	if tableID == nil {
		return "unassigned"
	}
	if t, ok := cat.Lookup(restaurantID, *tableID); ok && t.Label != "" {
		return t.Label
	}
	return fmt.Sprintf("#%d", *tableID)
}
