package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/tablebook/internal/domain/reservation"
	"github.com/example/tablebook/internal/store"
)

// Checker decides whether a table is free around a candidate time. It is a
// pure read over whatever store view it is handed, so the same checker runs
// both the initial search and the in-transaction re-check.
type Checker struct {
	Window time.Duration
	Policy reservation.WindowPolicy
}

// searchStatuses block a table during the primary search.
var searchStatuses = []reservation.Status{reservation.StatusConfirmed}

// writeStatuses widen the check at write time so a pending hold also blocks.
var writeStatuses = []reservation.Status{reservation.StatusConfirmed, reservation.StatusPending}

func (c Checker) windowFor(at time.Time) reservation.Window {
	return reservation.WindowFor(at, c.Window, c.Policy)
}

// IsTableFree reports whether no blocking reservation overlaps the conflict
// window around at. Window bounds are inclusive: a booking exactly at the
// boundary still conflicts.
func (c Checker) IsTableFree(ctx context.Context, st store.Store, tableID int64, at time.Time, statuses ...reservation.Status) (bool, error) {
	if len(statuses) == 0 {
		statuses = searchStatuses
	}
	overlapping, err := st.Reservations().ListOverlapping(ctx, tableID, c.windowFor(at), statuses)
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}

// IsTableFreeExcluding is IsTableFree ignoring one reservation, used when
// rescheduling a booking against its own table.
func (c Checker) IsTableFreeExcluding(ctx context.Context, st store.Store, tableID int64, at time.Time, exclude uuid.UUID) (bool, error) {
	overlapping, err := st.Reservations().ListOverlapping(ctx, tableID, c.windowFor(at), searchStatuses)
	if err != nil {
		return false, err
	}
	for _, r := range overlapping {
		if r.ID != exclude {
			return false, nil
		}
	}
	return true, nil
}
