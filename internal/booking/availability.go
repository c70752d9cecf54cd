package booking

import (
	"context"
	"errors"
	"time"

	"github.com/example/tablebook/internal/domain/reservation"
	"github.com/example/tablebook/internal/store"
)

// Availability answers occupancy queries: which tables are booked around a
// given time, per section or for the whole floor.
type Availability struct {
	st      store.Store
	checker Checker
}

func NewAvailability(st store.Store, settings Settings) *Availability {
	return &Availability{st: st, checker: settings.checker()}
}

// Snapshot computes total/booked/available counts and a per-table breakdown
// at the queried time. An unknown section name yields a not-found error; an
// empty section name covers every active table.
func (a *Availability) Snapshot(ctx context.Context, q reservation.AvailabilityQuery) (reservation.AvailabilitySnapshot, error) {
	at := q.AtTime
	if at.IsZero() {
		at = time.Now().UTC()
	}

	sections, err := a.st.Sections().ListActive(ctx)
	if err != nil {
		return reservation.AvailabilitySnapshot{}, err
	}
	names := make(map[int64]string, len(sections))
	for _, sec := range sections {
		names[sec.ID] = sec.Name
	}

	var tables []reservation.Table
	if q.Section != "" {
		sec, err := a.st.Sections().GetByName(ctx, q.Section)
		if err != nil {
			return reservation.AvailabilitySnapshot{}, err
		}
		tables, err = a.st.Tables().ListBySection(ctx, sec.ID)
		if err != nil {
			return reservation.AvailabilitySnapshot{}, err
		}
	} else {
		tables, err = a.st.Tables().ListActive(ctx)
		if err != nil {
			return reservation.AvailabilitySnapshot{}, err
		}
	}

	snap := reservation.AvailabilitySnapshot{AtTime: at, TotalTables: len(tables)}
	for _, t := range tables {
		free, err := a.checker.IsTableFree(ctx, a.st, t.ID, at)
		if err != nil {
			return reservation.AvailabilitySnapshot{}, err
		}
		snap.PerTable = append(snap.PerTable, reservation.TableAvailability{
			Table:   t,
			Section: names[t.SectionID],
			Booked:  !free,
		})
		if free {
			snap.AvailableCount++
		} else {
			snap.BookedCount++
		}
	}
	return snap, nil
}

// Upcoming lists confirmed reservations in the next within hours, soonest
// first.
func (a *Availability) Upcoming(ctx context.Context, within time.Duration) ([]reservation.Reservation, error) {
	now := time.Now().UTC()
	list, err := a.st.Reservations().ListUpcoming(ctx, now, now.Add(within))
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return list, nil
}
