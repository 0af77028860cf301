// Package catalog holds the static restaurant and table registry. The
// catalog is read-only between reloads and is safe to share across request
// workers without locking beyond the reload swap.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"tavolo/internal/models"

	"github.com/rs/zerolog"
)

// Source supplies catalog rows, usually the database layer.
type Source interface {
	LoadRestaurants(ctx context.Context) ([]models.Restaurant, error)
	LoadTables(ctx context.Context) ([]models.Table, error)
}

// Catalog answers restaurant and table lookups from an in-memory snapshot.
type Catalog struct {
	mu          sync.RWMutex
	restaurants map[int64]models.Restaurant
	tables      map[int64][]models.Table // restaurant id -> tables, ascending capacity
	logger      *zerolog.Logger
}

// New builds an empty catalog. Call Reload before serving requests.
func New(logger *zerolog.Logger) *Catalog {
	return &Catalog{
		restaurants: make(map[int64]models.Restaurant),
		tables:      make(map[int64][]models.Table),
		logger:      logger,
	}
}

// Reload replaces the snapshot from the source in one swap.
func (c *Catalog) Reload(ctx context.Context, src Source) error {
	restaurants, err := src.LoadRestaurants(ctx)
	if err != nil {
		return fmt.Errorf("load restaurants: %w", err)
	}
	tables, err := src.LoadTables(ctx)
	if err != nil {
		return fmt.Errorf("load tables: %w", err)
	}

	byRestaurant := make(map[int64]models.Restaurant, len(restaurants))
	for _, r := range restaurants {
		byRestaurant[r.ID] = r
	}

	grouped := make(map[int64][]models.Table)
	for _, t := range tables {
		grouped[t.RestaurantID] = append(grouped[t.RestaurantID], t)
	}
	for id := range grouped {
		ts := grouped[id]
		sort.Slice(ts, func(i, j int) bool {
			if ts[i].Capacity != ts[j].Capacity {
				return ts[i].Capacity < ts[j].Capacity
			}
			return ts[i].ID < ts[j].ID
		})
	}

	c.mu.Lock()
	c.restaurants = byRestaurant
	c.tables = grouped
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info().Int("restaurants", len(restaurants)).Int("tables", len(tables)).Msg("catalog reloaded")
	}
	return nil
}

// Restaurant returns a restaurant by id.
func (c *Catalog) Restaurant(id int64) (models.Restaurant, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.restaurants[id]
	return r, ok
}

// Tables returns every table of a restaurant in ascending-capacity order.
func (c *Catalog) Tables(restaurantID int64) []models.Table {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ts := c.tables[restaurantID]
	out := make([]models.Table, len(ts))
	copy(out, ts)
	return out
}

// EligibleTables returns the capacity-sufficient tables for a party, still in
// ascending-capacity order so callers can auto-pick the smallest fit.
func (c *Catalog) EligibleTables(restaurantID int64, partySize int) []models.Table {
	var eligible []models.Table
	for _, t := range c.Tables(restaurantID) {
		if t.Capacity >= partySize {
			eligible = append(eligible, t)
		}
	}
	return eligible
}

// Lookup returns one table of a restaurant by id.
func (c *Catalog) Lookup(restaurantID, tableID int64) (models.Table, bool) {
	for _, t := range c.Tables(restaurantID) {
		if t.ID == tableID {
			return t, true
		}
	}
	return models.Table{}, false
}
