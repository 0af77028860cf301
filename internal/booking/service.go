package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tavolo/internal/catalog"
	"tavolo/internal/metrics"
	"tavolo/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Ledger is the write side of the reservation store.
type Ledger interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	GetReservation(ctx context.Context, id int64) (*models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id int64, status string) (*models.Reservation, error)
	DeleteReservation(ctx context.Context, id int64) (*models.Reservation, error)
	ListReservations(ctx context.Context, ownerID *int64) ([]models.Reservation, error)
}

// EventPublisher notifies subscribers of lifecycle changes.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// Event types published by the service.
const (
	EventCreated       = "reservation.created"
	EventStatusChanged = "reservation.status_changed"
	EventDeleted       = "reservation.deleted"
)

// CreateRequest carries the fields a caller supplies when booking.
type CreateRequest struct {
	RestaurantID int64
	PartySize    int
	Start        time.Time
	End          time.Time
	GuestName    string
	GuestPhone   string
	TableID      *int64 // nil = auto-pick smallest eligible table
	OwnerID      *int64
	Status       string // "" defaults to booked; "pending" is the only other accepted value
}

// Service enforces the reservation state machine on top of the ledger. It is
// stateless and safe to call from many request workers at once; the ledger
// transaction is what serializes conflicting writers.
type Service struct {
	ledger   Ledger
	catalog  *catalog.Catalog
	assigner catalog.TableAssigner
	events   EventPublisher
	logger   *zerolog.Logger
}

// NewService wires a lifecycle manager. A nil assigner falls back to
// smallest-fit.
func NewService(ledger Ledger, cat *catalog.Catalog, assigner catalog.TableAssigner, events EventPublisher, logger *zerolog.Logger) *Service {
	if assigner == nil {
		assigner = catalog.SmallestFit{Catalog: cat}
	}
	return &Service{ledger: ledger, catalog: cat, assigner: assigner, events: events, logger: logger}
}

// Create validates the request, resolves a table and performs the atomic
// overlap-check-then-insert. On overlap it returns models.ErrConflict and
// the caller may retry a different slot.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Reservation, error) {
	if req.PartySize < 1 {
		return nil, fmt.Errorf("%w: party_size must be >= 1", models.ErrValidation)
	}
	if !req.End.After(req.Start) {
		return nil, fmt.Errorf("%w: end must be after start", models.ErrValidation)
	}
	if req.GuestName == "" {
		return nil, fmt.Errorf("%w: guest_name is required", models.ErrValidation)
	}

	status := req.Status
	switch status {
	case "":
		status = models.StatusBooked
	case models.StatusBooked, models.StatusPending:
	default:
		return nil, fmt.Errorf("%w: initial status must be booked or pending", models.ErrValidation)
	}

	if _, ok := s.catalog.Restaurant(req.RestaurantID); !ok {
		return nil, fmt.Errorf("%w: restaurant %d", models.ErrNotFound, req.RestaurantID)
	}

	table, err := s.resolveTable(req)
	if err != nil {
		return nil, err
	}

	reservation := &models.Reservation{
		RestaurantID:     req.RestaurantID,
		TableID:          &table.ID,
		PartySize:        req.PartySize,
		Start:            req.Start.UTC(),
		End:              req.End.UTC(),
		GuestName:        req.GuestName,
		GuestPhone:       req.GuestPhone,
		Status:           status,
		OwnerID:          req.OwnerID,
		ConfirmationCode: uuid.NewString(),
	}

	if err := s.ledger.CreateReservation(ctx, reservation); err != nil {
		if errors.Is(err, models.ErrConflict) {
			metrics.IncReservationConflict()
		}
		return nil, err
	}

	metrics.IncReservationCreated(reservation.Status)
	s.publish(EventCreated, reservation)
	if s.logger != nil {
		s.logger.Info().
			Int64("reservation_id", reservation.ID).
			Int64("restaurant_id", reservation.RestaurantID).
			Int64("table_id", table.ID).
			Time("start", reservation.Start).
			Msg("reservation created")
	}
	return reservation, nil
}

// resolveTable verifies an explicit table or auto-picks one. An explicit
// table must belong to the restaurant and seat the party.
func (s *Service) resolveTable(req CreateRequest) (models.Table, error) {
	if req.TableID != nil {
		table, ok := s.catalog.Lookup(req.RestaurantID, *req.TableID)
		if !ok {
			return models.Table{}, fmt.Errorf("%w: table %d in restaurant %d", models.ErrNotFound, *req.TableID, req.RestaurantID)
		}
		if table.Capacity < req.PartySize {
			return models.Table{}, fmt.Errorf("%w: table %d seats %d, party is %d",
				models.ErrValidation, table.ID, table.Capacity, req.PartySize)
		}
		return table, nil
	}

	table, ok := s.assigner.Assign(req.RestaurantID, req.PartySize)
	if !ok {
		return models.Table{}, fmt.Errorf("%w: restaurant %d has no tables", models.ErrNotFound, req.RestaurantID)
	}
	return table, nil
}

// SetStatus re-reads the current row, checks the transition table and
// persists the new status.
func (s *Service) SetStatus(ctx context.Context, id int64, status string) (*models.Reservation, error) {
	current, err := s.ledger.GetReservation(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := CheckTransition(current.Status, status); err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}

	updated, err := s.ledger.UpdateReservationStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	metrics.IncStatusTransition(current.Status, status)
	s.publish(EventStatusChanged, updated)
	if s.logger != nil {
		s.logger.Info().
			Int64("reservation_id", id).
			Str("from", current.Status).
			Str("to", status).
			Msg("reservation status changed")
	}
	return updated, nil
}

// Cancel is shorthand for the cancelled transition. Cancelling frees the
// slot without destroying the record.
func (s *Service) Cancel(ctx context.Context, id int64) (*models.Reservation, error) {
	return s.SetStatus(ctx, id, models.StatusCancelled)
}

// Delete permanently removes a reservation. Unknown ids come back as
// models.ErrNotFound so repeat deletes stay clean.
func (s *Service) Delete(ctx context.Context, id int64) (*models.Reservation, error) {
	removed, err := s.ledger.DeleteReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(EventDeleted, removed)
	return removed, nil
}

// Get returns one reservation by id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Reservation, error) {
	return s.ledger.GetReservation(ctx, id)
}

// List returns reservations, optionally filtered by owner.
func (s *Service) List(ctx context.Context, ownerID *int64) ([]models.Reservation, error) {
	return s.ledger.ListReservations(ctx, ownerID)
}

func (s *Service) publish(eventType string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(eventType, payload); err != nil && s.logger != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
