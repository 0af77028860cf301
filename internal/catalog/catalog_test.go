package catalog

import (
	"context"
	"io"
	"testing"

	"tavolo/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	logger := zerolog.New(io.Discard)
	cat := New(&logger)

	src := staticSource{
		restaurants: []models.Restaurant{
			{ID: 1, Name: "Trattoria", Timezone: "Europe/Rome"},
		},
		tables: []models.Table{
			{ID: 104, RestaurantID: 1, Label: "T4", Capacity: 6},
			{ID: 102, RestaurantID: 1, Label: "T2", Capacity: 4},
			{ID: 101, RestaurantID: 1, Label: "T1", Capacity: 2},
			{ID: 103, RestaurantID: 1, Label: "T3", Capacity: 4},
		},
	}
	require.NoError(t, cat.Reload(context.Background(), src))
	return cat
}

func TestTablesSortedByCapacity(t *testing.T) {
	cat := testCatalog(t)

	tables := cat.Tables(1)
	require.Len(t, tables, 4)

	var capacities []int
	for _, table := range tables {
		capacities = append(capacities, table.Capacity)
	}
	assert.Equal(t, []int{2, 4, 4, 6}, capacities)

	// Equal capacities tie-break on id for deterministic auto-pick.
	assert.Equal(t, int64(102), tables[1].ID)
	assert.Equal(t, int64(103), tables[2].ID)
}

func TestEligibleTables(t *testing.T) {
	cat := testCatalog(t)

	eligible := cat.EligibleTables(1, 3)
	require.Len(t, eligible, 3)
	assert.Equal(t, 4, eligible[0].Capacity)

	assert.Len(t, cat.EligibleTables(1, 7), 0)
	assert.Len(t, cat.EligibleTables(1, 1), 4)
	assert.Len(t, cat.EligibleTables(99, 1), 0)
}

func TestLookup(t *testing.T) {
	cat := testCatalog(t)

	table, ok := cat.Lookup(1, 102)
	require.True(t, ok)
	assert.Equal(t, "T2", table.Label)

	_, ok = cat.Lookup(1, 999)
	assert.False(t, ok)

	// A table is owned by exactly one restaurant.
	_, ok = cat.Lookup(2, 102)
	assert.False(t, ok)
}

func TestSmallestFit(t *testing.T) {
	cat := testCatalog(t)
	assigner := SmallestFit{Catalog: cat}

	// Party of 3 over capacities {2,4,4,6} picks a 4-top, never the 6-top.
	table, ok := assigner.Assign(1, 3)
	require.True(t, ok)
	assert.Equal(t, 4, table.Capacity)
	assert.Equal(t, int64(102), table.ID)

	// Nothing fits a party of 8; fall back to the largest table.
	table, ok = assigner.Assign(1, 8)
	require.True(t, ok)
	assert.Equal(t, 6, table.Capacity)

	// Unknown restaurant has no tables at all.
	_, ok = assigner.Assign(42, 2)
	assert.False(t, ok)
}

func TestRestaurant(t *testing.T) {
	cat := testCatalog(t)

	r, ok := cat.Restaurant(1)
	require.True(t, ok)
	assert.Equal(t, "Trattoria", r.Name)

	_, ok = cat.Restaurant(2)
	assert.False(t, ok)
}
