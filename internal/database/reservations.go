package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tavolo/internal/models"
)

const reservationColumns = `id, restaurant_id, table_id, party_size, start_time, end_time,
	       guest_name, guest_phone, status, owner_id, confirmation_code, created_at, updated_at`

// activeStatusSet is inlined into queries; it must stay in sync with
// models.ActiveStatuses.
const activeStatusSet = `('pending', 'booked', 'arrived')`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*models.Reservation, error) {
	var r models.Reservation
	var tableID, ownerID sql.NullInt64
	var phone sql.NullString
	err := row.Scan(
		&r.ID, &r.RestaurantID, &tableID, &r.PartySize, &r.Start, &r.End,
		&r.GuestName, &phone, &r.Status, &ownerID, &r.ConfirmationCode,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if tableID.Valid {
		r.TableID = &tableID.Int64
	}
	if ownerID.Valid {
		r.OwnerID = &ownerID.Int64
	}
	if phone.Valid {
		r.GuestPhone = phone.String
	}
	return &r, nil
}

// CreateReservation persists a new reservation. The overlap check and the
// insert run inside one immediate transaction, so two concurrent callers
// cannot both observe an empty conflict set for the same table and window.
// Returns models.ErrConflict when the table is already taken.
func (db *DB) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if r.TableID == nil {
		return fmt.Errorf("%w: reservation has no table assigned", models.ErrValidation)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var conflicts int
	err = tx.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reservations
		WHERE restaurant_id = ? AND table_id = ?
		AND start_time < ? AND end_time > ?
		AND status IN `+activeStatusSet,
		r.RestaurantID, *r.TableID, r.End.UTC(), r.Start.UTC(),
	).Scan(&conflicts)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if conflicts > 0 {
		return models.ErrConflict
	}

	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO reservations (
			restaurant_id, table_id, party_size, start_time, end_time,
			guest_name, guest_phone, status, owner_id, confirmation_code,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RestaurantID, *r.TableID, r.PartySize, r.Start.UTC(), r.End.UTC(),
		r.GuestName, r.GuestPhone, r.Status, r.OwnerID, r.ConfirmationCode,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("insert reservation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.ID = id
	r.Start = r.Start.UTC()
	r.End = r.End.UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	return nil
}

// GetReservation returns a reservation by id.
func (db *DB) GetReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	r, err := scanReservation(db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return r, nil
}

// OverlappingReservations returns the active reservations on one table whose
// interval intersects [start, end).
func (db *DB) OverlappingReservations(ctx context.Context, restaurantID, tableID int64, start, end time.Time) ([]models.Reservation, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE restaurant_id = ? AND table_id = ?
		AND start_time < ? AND end_time > ?
		AND status IN `+activeStatusSet+`
		ORDER BY start_time`,
		restaurantID, tableID, end.UTC(), start.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query overlapping: %w", err)
	}
	return collectReservations(rows)
}

// ReservationsForWindow returns every active reservation of a restaurant
// intersecting [start, end), including floating rows with no table yet.
// Callers resolve floating rows through the table assigner before occupancy
// accounting.
func (db *DB) ReservationsForWindow(ctx context.Context, restaurantID int64, start, end time.Time) ([]models.Reservation, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+reservationColumns+` FROM reservations
		WHERE restaurant_id = ?
		AND start_time < ? AND end_time > ?
		AND status IN `+activeStatusSet+`
		ORDER BY start_time`,
		restaurantID, end.UTC(), start.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query window: %w", err)
	}
	return collectReservations(rows)
}

// UpdateReservationStatus persists a new status and returns the updated row.
// Status legality against the transition table is the lifecycle manager's
// job; this layer only rejects values outside the known set.
func (db *DB) UpdateReservationStatus(ctx context.Context, id int64, status string) (*models.Reservation, error) {
	if !models.KnownStatus(status) {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidStatus, status)
	}

	result, err := db.ExecContext(ctx, `
		UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, models.ErrNotFound
	}
	return db.GetReservation(ctx, id)
}

// DeleteReservation permanently removes a reservation and returns the
// removed row. A repeat call yields models.ErrNotFound, never a failure of
// any other kind, which keeps hard deletes idempotent for callers.
func (db *DB) DeleteReservation(ctx context.Context, id int64) (*models.Reservation, error) {
	r, err := db.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete reservation: %w", err)
	}
	return r, nil
}

// ListReservations returns reservations, optionally filtered by owner,
// newest first.
func (db *DB) ListReservations(ctx context.Context, ownerID *int64) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations`
	args := []any{}
	if ownerID != nil {
		query += ` WHERE owner_id = ?`
		args = append(args, *ownerID)
	}
	query += ` ORDER BY start_time DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	return collectReservations(rows)
}

func collectReservations(rows *sql.Rows) ([]models.Reservation, error) {
	defer rows.Close()

	var out []models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
