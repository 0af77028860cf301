package catalog

import "tavolo/internal/models"

// TableAssigner resolves a floating reservation to a concrete table so that
// occupancy accounting never sees an unassigned booking. The policy is
// swappable; the engine ships the smallest-fit default.
type TableAssigner interface {
	Assign(restaurantID int64, partySize int) (models.Table, bool)
}

// SmallestFit picks the smallest capacity-sufficient table, falling back to
// the largest table in the catalog when nothing fits the party exactly.
// Availability is favored over strict seating efficiency.
type SmallestFit struct {
	Catalog *Catalog
}

func (a SmallestFit) Assign(restaurantID int64, partySize int) (models.Table, bool) {
	eligible := a.Catalog.EligibleTables(restaurantID, partySize)
	if len(eligible) > 0 {
		return eligible[0], true
	}

	all := a.Catalog.Tables(restaurantID)
	if len(all) == 0 {
		return models.Table{}, false
	}
	// Tables are sorted ascending by capacity; the last one is the largest.
	return all[len(all)-1], true
}
