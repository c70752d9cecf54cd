// Package store defines the persistence boundary of the allocation engine.
// The engine never touches a database directly; it talks to these interfaces
// so that conflict re-checks can be made atomic with writes via WithTx.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/example/tablebook/internal/domain/reservation"
)

var ErrNotFound = errors.New("not found")

// ErrConflict reports that a WithTx callback lost against a concurrent
// transaction and nothing was committed. Callers may retry.
var ErrConflict = errors.New("transaction conflict")

type SectionRepo interface {
	Create(ctx context.Context, s reservation.Section) (reservation.Section, error)
	Get(ctx context.Context, id int64) (reservation.Section, error)
	GetByName(ctx context.Context, name string) (reservation.Section, error)

	// ListActive returns active sections ordered by ascending priority,
	// ties broken by name.
	ListActive(ctx context.Context) ([]reservation.Section, error)
}

type TableRepo interface {
	Create(ctx context.Context, t reservation.Table) (reservation.Table, error)
	Get(ctx context.Context, id int64) (reservation.Table, error)

	// ListBySection returns active tables of one section ordered by
	// ascending capacity, ties broken by label.
	ListBySection(ctx context.Context, sectionID int64) ([]reservation.Table, error)
	ListActive(ctx context.Context) ([]reservation.Table, error)

	// SetCombined records the symmetric merge linkage on every table in ids.
	SetCombined(ctx context.Context, ids []int64) error
	// ClearCombined removes the merge linkage from the given tables.
	ClearCombined(ctx context.Context, ids []int64) error
}

type ReservationRepo interface {
	Create(ctx context.Context, r reservation.Reservation) error
	Get(ctx context.Context, id uuid.UUID) (reservation.Reservation, error)

	// ListOverlapping returns reservations on the table whose requested time
	// falls inside w (bounds inclusive) with a status in statuses.
	ListOverlapping(ctx context.Context, tableID int64, w reservation.Window, statuses []reservation.Status) ([]reservation.Reservation, error)

	ListByComboGroup(ctx context.Context, group uuid.UUID) ([]reservation.Reservation, error)
	ListUpcoming(ctx context.Context, from, until time.Time) ([]reservation.Reservation, error)

	// UpdateStatus transitions id from one status to another and reports
	// whether a row actually changed, so already-terminal transitions come
	// back as a plain false.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to reservation.Status) (bool, error)
	UpdateTime(ctx context.Context, id uuid.UUID, newTime time.Time) error
}

// Store bundles the repositories behind one consistency boundary.
type Store interface {
	Sections() SectionRepo
	Tables() TableRepo
	Reservations() ReservationRepo

	// WithTx runs fn against a transactional view of the store. Everything
	// fn does commits atomically, or not at all if fn returns an error.
	// Nested calls are not supported.
	WithTx(ctx context.Context, fn func(Store) error) error
}
