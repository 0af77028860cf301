package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB wraps the reservations store. All timestamps are normalized to UTC on
// write and scanned back as UTC; local-time conversion happens in callers.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

// NewDB opens (and if needed creates) the sqlite database at path.
func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// WAL for concurrent readers, busy timeout for lock contention, and
	// immediate transactions so every BeginTx takes the write lock up
	// front. SQLite has no range-exclusion constraint; the write lock held
	// across the overlap check and the insert is what closes the
	// check-then-write race between concurrent creators.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_txlock=immediate&_loc=UTC"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	instance := &DB{DB: db, logger: logger}
	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if logger != nil {
		logger.Info().Str("path", path).Msg("Database initialized")
	}
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS restaurants (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			timezone TEXT NOT NULL DEFAULT 'UTC',
			open_time TEXT NOT NULL DEFAULT '10:00',
			close_time TEXT NOT NULL DEFAULT '22:00',
			slot_minutes INTEGER NOT NULL DEFAULT 90,
			step_minutes INTEGER NOT NULL DEFAULT 30,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Per-weekday overrides; absent days use the restaurant default.
		`CREATE TABLE IF NOT EXISTS restaurant_hours (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			restaurant_id INTEGER NOT NULL,
			day_of_week INTEGER NOT NULL,
			open_time TEXT NOT NULL,
			close_time TEXT NOT NULL,
			UNIQUE(restaurant_id, day_of_week),
			FOREIGN KEY(restaurant_id) REFERENCES restaurants(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS dining_tables (
			id INTEGER PRIMARY KEY,
			restaurant_id INTEGER NOT NULL,
			label TEXT NOT NULL,
			capacity INTEGER NOT NULL CHECK (capacity >= 1),
			FOREIGN KEY(restaurant_id) REFERENCES restaurants(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS reservations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			restaurant_id INTEGER NOT NULL,
			table_id INTEGER,
			party_size INTEGER NOT NULL CHECK (party_size >= 1),
			start_time DATETIME NOT NULL,
			end_time DATETIME NOT NULL,
			guest_name TEXT NOT NULL,
			guest_phone TEXT,
			status TEXT NOT NULL DEFAULT 'booked',
			owner_id INTEGER,
			confirmation_code TEXT NOT NULL UNIQUE,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			CHECK (end_time > start_time),
			FOREIGN KEY(restaurant_id) REFERENCES restaurants(id),
			FOREIGN KEY(table_id) REFERENCES dining_tables(id)
		)`,

		`CREATE INDEX IF NOT EXISTS idx_reservations_window ON reservations(restaurant_id, start_time, end_time)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_table ON reservations(restaurant_id, table_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_owner ON reservations(owner_id)`,

		`CREATE INDEX IF NOT EXISTS idx_tables_restaurant ON dining_tables(restaurant_id, capacity)`,
		`CREATE INDEX IF NOT EXISTS idx_hours_restaurant ON restaurant_hours(restaurant_id, day_of_week)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
