package database

import (
	"context"
	"fmt"
	"time"

	"tavolo/internal/models"
)

// LoadRestaurants returns every restaurant with its per-weekday hour
// overrides attached.
func (db *DB) LoadRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, name, timezone, open_time, close_time, slot_minutes, step_minutes
		FROM restaurants ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []models.Restaurant
	for rows.Next() {
		var r models.Restaurant
		if err := rows.Scan(&r.ID, &r.Name, &r.Timezone, &r.DefaultHours.Open,
			&r.DefaultHours.Close, &r.SlotMinutes, &r.StepMinutes); err != nil {
			return nil, fmt.Errorf("scan restaurant: %w", err)
		}
		restaurants = append(restaurants, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range restaurants {
		hours, err := db.loadHourOverrides(ctx, restaurants[i].ID)
		if err != nil {
			return nil, err
		}
		restaurants[i].HoursByDay = hours
	}
	return restaurants, nil
}

func (db *DB) loadHourOverrides(ctx context.Context, restaurantID int64) (map[time.Weekday]models.DayHours, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT day_of_week, open_time, close_time
		FROM restaurant_hours WHERE restaurant_id = ?`,
		restaurantID)
	if err != nil {
		return nil, fmt.Errorf("query hours: %w", err)
	}
	defer rows.Close()

	hours := make(map[time.Weekday]models.DayHours)
	for rows.Next() {
		var day int
		var h models.DayHours
		if err := rows.Scan(&day, &h.Open, &h.Close); err != nil {
			return nil, fmt.Errorf("scan hours: %w", err)
		}
		hours[time.Weekday(day)] = h
	}
	return hours, rows.Err()
}

// LoadTables returns every table ordered by restaurant and capacity.
func (db *DB) LoadTables(ctx context.Context) ([]models.Table, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, restaurant_id, label, capacity
		FROM dining_tables ORDER BY restaurant_id, capacity, id`)
	if err != nil {
		return nil, fmt.Errorf("query tables: %w", err)
	}
	defer rows.Close()

	var tables []models.Table
	for rows.Next() {
		var t models.Table
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Label, &t.Capacity); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// UpsertRestaurant creates or updates a restaurant row. Used by the config
// sync at startup; catalog maintenance beyond that is an external concern.
func (db *DB) UpsertRestaurant(ctx context.Context, r *models.Restaurant) error {
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx, `
		INSERT INTO restaurants (id, name, timezone, open_time, close_time, slot_minutes, step_minutes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			timezone = excluded.timezone,
			open_time = excluded.open_time,
			close_time = excluded.close_time,
			slot_minutes = excluded.slot_minutes,
			step_minutes = excluded.step_minutes,
			updated_at = excluded.updated_at`,
		r.ID, r.Name, r.Timezone, r.DefaultHours.Open, r.DefaultHours.Close,
		r.SlotMinutes, r.StepMinutes, now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert restaurant: %w", err)
	}

	for day, h := range r.HoursByDay {
		_, err := db.ExecContext(ctx, `
			INSERT INTO restaurant_hours (restaurant_id, day_of_week, open_time, close_time)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(restaurant_id, day_of_week) DO UPDATE SET
				open_time = excluded.open_time,
				close_time = excluded.close_time`,
			r.ID, int(day), h.Open, h.Close,
		)
		if err != nil {
			return fmt.Errorf("upsert hours day %d: %w", day, err)
		}
	}
	return nil
}

// UpsertTable creates or updates a table row.
func (db *DB) UpsertTable(ctx context.Context, t *models.Table) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO dining_tables (id, restaurant_id, label, capacity)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			restaurant_id = excluded.restaurant_id,
			label = excluded.label,
			capacity = excluded.capacity`,
		t.ID, t.RestaurantID, t.Label, t.Capacity,
	)
	if err != nil {
		return fmt.Errorf("upsert table: %w", err)
	}
	return nil
}
