package config

import (
	"fmt"
	"os"
	"time"

	"tavolo/internal/models"

	"gopkg.in/yaml.v3"
)

// RestaurantConfig represents a single restaurant in restaurants.yaml.
type RestaurantConfig struct {
	ID          int64                   `yaml:"id"`
	Name        string                  `yaml:"name"`
	Timezone    string                  `yaml:"timezone"`
	Hours       *HoursConfig            `yaml:"hours,omitempty"`
	HoursByDay  map[string]*HoursConfig `yaml:"hours_by_day,omitempty"` // keys: "monday".."sunday"
	SlotMinutes int                     `yaml:"slot_minutes,omitempty"`
	StepMinutes int                     `yaml:"step_minutes,omitempty"`
	Tables      []TableConfig           `yaml:"tables"`
}

// HoursConfig is an open/close pair.
type HoursConfig struct {
	Open  string `yaml:"open"`  // "10:00"
	Close string `yaml:"close"` // "23:00"
}

// TableConfig represents one table of a restaurant.
type TableConfig struct {
	ID       int64  `yaml:"id"`
	Label    string `yaml:"label"`
	Capacity int    `yaml:"capacity"`
}

// RestaurantsConfig is the root configuration for restaurants.yaml.
type RestaurantsConfig struct {
	Restaurants []RestaurantConfig `yaml:"restaurants"`
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// LoadRestaurantsConfig loads and validates the restaurant fixtures.
func LoadRestaurantsConfig(path string) (*RestaurantsConfig, error) {
	if path == "" {
		path = "configs/restaurants.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read restaurants config: %w", err)
	}

	var cfg RestaurantsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse restaurants config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate restaurants config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for errors.
func (c *RestaurantsConfig) Validate() error {
	if len(c.Restaurants) == 0 {
		return fmt.Errorf("no restaurants defined")
	}

	ids := make(map[int64]bool)
	tableIDs := make(map[int64]bool)

	for i, r := range c.Restaurants {
		if r.ID <= 0 {
			return fmt.Errorf("restaurant[%d]: id must be positive, got %d", i, r.ID)
		}
		if ids[r.ID] {
			return fmt.Errorf("restaurant[%d]: duplicate id %d", i, r.ID)
		}
		ids[r.ID] = true

		if r.Name == "" {
			return fmt.Errorf("restaurant[%d]: name is required", i)
		}

		for day := range r.HoursByDay {
			if _, ok := weekdayNames[day]; !ok {
				return fmt.Errorf("restaurant[%d]: unknown weekday %q", i, day)
			}
		}

		for j, t := range r.Tables {
			if t.ID <= 0 {
				return fmt.Errorf("restaurant[%d].tables[%d]: id must be positive", i, j)
			}
			if tableIDs[t.ID] {
				return fmt.Errorf("restaurant[%d].tables[%d]: duplicate table id %d", i, j, t.ID)
			}
			tableIDs[t.ID] = true

			if t.Capacity < 1 {
				return fmt.Errorf("restaurant[%d].tables[%d]: capacity must be >= 1", i, j)
			}
		}
	}
	return nil
}

// Models converts the config into model values, applying engine defaults
// for anything left unset.
func (c *RestaurantsConfig) Models(defaultSlotMinutes, defaultStepMinutes int) ([]models.Restaurant, []models.Table) {
	var restaurants []models.Restaurant
	var tables []models.Table

	for _, rc := range c.Restaurants {
		r := models.Restaurant{
			ID:          rc.ID,
			Name:        rc.Name,
			Timezone:    rc.Timezone,
			SlotMinutes: rc.SlotMinutes,
			StepMinutes: rc.StepMinutes,
		}
		if r.Timezone == "" {
			r.Timezone = "UTC"
		}
		if r.SlotMinutes <= 0 {
			r.SlotMinutes = defaultSlotMinutes
		}
		if r.StepMinutes <= 0 {
			r.StepMinutes = defaultStepMinutes
		}
		if rc.Hours != nil {
			r.DefaultHours = models.DayHours{Open: rc.Hours.Open, Close: rc.Hours.Close}
		} else {
			r.DefaultHours = models.DayHours{Open: "10:00", Close: "22:00"}
		}
		if len(rc.HoursByDay) > 0 {
			r.HoursByDay = make(map[time.Weekday]models.DayHours, len(rc.HoursByDay))
			for day, h := range rc.HoursByDay {
				if h == nil {
					continue
				}
				r.HoursByDay[weekdayNames[day]] = models.DayHours{Open: h.Open, Close: h.Close}
			}
		}
		restaurants = append(restaurants, r)

		for _, tc := range rc.Tables {
			tables = append(tables, models.Table{
				ID:           tc.ID,
				RestaurantID: rc.ID,
				Label:        tc.Label,
				Capacity:     tc.Capacity,
			})
		}
	}
	return restaurants, tables
}
