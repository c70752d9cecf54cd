package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/tablebook/internal/domain/reservation"
	"github.com/example/tablebook/internal/store"
)

// Lifecycle owns reservation state transitions. Create carries the final
// race re-check itself: the check and the insert share one transaction, so
// of two concurrent bookings for the same window at most one commits.
type Lifecycle struct {
	st      store.Store
	checker Checker
	log     *zap.Logger
	now     func() time.Time
}

func NewLifecycle(st store.Store, settings Settings, log *zap.Logger) *Lifecycle {
	return &Lifecycle{st: st, checker: settings.checker(), log: log, now: time.Now}
}

// Create inserts a confirmed reservation on the given table. It returns
// ErrRaceConflict when the table was taken between the caller's search and
// this write.
func (l *Lifecycle) Create(ctx context.Context, tableID int64, req reservation.BookingRequest) (reservation.Reservation, error) {
	res := reservation.Reservation{
		ID:                uuid.New(),
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		PartySize:         req.PartySize,
		RequestedTime:     req.RequestedTime,
		SectionPreference: req.SectionPreference,
		TableID:           &tableID,
		Status:            reservation.StatusConfirmed,
		CreatedAt:         l.now().UTC(),
		PreOrder:          req.PreOrder,
	}

	err := l.st.WithTx(ctx, func(tx store.Store) error {
		free, err := l.checker.IsTableFree(ctx, tx, tableID, req.RequestedTime, writeStatuses...)
		if err != nil {
			return err
		}
		if !free {
			return ErrRaceConflict
		}
		return tx.Reservations().Create(ctx, res)
	})
	if err != nil {
		return reservation.Reservation{}, raceError(err)
	}

	l.log.Info("reservation created",
		zap.String("reservation_id", res.ID.String()),
		zap.Int64("table_id", tableID),
		zap.Int("party_size", res.PartySize),
		zap.Time("requested_time", res.RequestedTime))
	return res, nil
}

// CreatePendingHold inserts a table-less pending placeholder, used when the
// caller asked to hold an offer.
func (l *Lifecycle) CreatePendingHold(ctx context.Context, req reservation.BookingRequest) (reservation.Reservation, error) {
	res := reservation.Reservation{
		ID:                uuid.New(),
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		PartySize:         req.PartySize,
		RequestedTime:     req.RequestedTime,
		SectionPreference: req.SectionPreference,
		Status:            reservation.StatusPending,
		CreatedAt:         l.now().UTC(),
		PreOrder:          req.PreOrder,
	}
	if err := l.st.Reservations().Create(ctx, res); err != nil {
		return reservation.Reservation{}, err
	}
	return res, nil
}

// Cancel transitions a reservation to cancelled. Already-terminal and
// unknown reservations report false without touching anything. Cancelling
// one leg of a combined booking cancels every leg and releases the table
// linkage, so all constituent tables become bookable again.
func (l *Lifecycle) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	ok := false
	err := l.st.WithTx(ctx, func(tx store.Store) error {
		res, err := tx.Reservations().Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil
			}
			return err
		}
		if res.Status.Terminal() {
			return nil
		}

		legs := []reservation.Reservation{res}
		if res.ComboGroupID != nil {
			legs, err = tx.Reservations().ListByComboGroup(ctx, *res.ComboGroupID)
			if err != nil {
				return err
			}
		}

		var tableIDs []int64
		for _, leg := range legs {
			if leg.TableID != nil {
				tableIDs = append(tableIDs, *leg.TableID)
			}
			// a sibling leg may already be completed or no-show; its state
			// stands, only the linkage is released
			if leg.Status.Terminal() {
				continue
			}
			if _, err := tx.Reservations().UpdateStatus(ctx, leg.ID, leg.Status, reservation.StatusCancelled); err != nil {
				return err
			}
		}
		if res.ComboGroupID != nil && len(tableIDs) > 0 {
			if err := tx.Tables().ClearCombined(ctx, tableIDs); err != nil {
				return err
			}
		}
		ok = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if ok {
		l.log.Info("reservation cancelled", zap.String("reservation_id", id.String()))
	}
	return ok, nil
}

// Reschedule moves a confirmed reservation to a new time on its current
// table. On conflict nothing changes and the reason explains why.
func (l *Lifecycle) Reschedule(ctx context.Context, id uuid.UUID, newTime time.Time) (bool, string, error) {
	if newTime.Before(l.now()) {
		return false, "new time must be in the future", nil
	}

	reason := ""
	ok := false
	err := l.st.WithTx(ctx, func(tx store.Store) error {
		res, err := tx.Reservations().Get(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				reason = "reservation not found"
				return nil
			}
			return err
		}
		if res.Status != reservation.StatusConfirmed {
			reason = fmt.Sprintf("reservation is %s, only confirmed reservations can be rescheduled", res.Status)
			return nil
		}
		if res.TableID == nil {
			reason = "reservation has no table assigned"
			return nil
		}

		free, err := l.checker.IsTableFreeExcluding(ctx, tx, *res.TableID, newTime, res.ID)
		if err != nil {
			return err
		}
		if !free {
			reason = "that time is not available on the current table"
			return nil
		}
		if err := tx.Reservations().UpdateTime(ctx, res.ID, newTime); err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		return false, "", err
	}
	if ok {
		l.log.Info("reservation rescheduled",
			zap.String("reservation_id", id.String()),
			zap.Time("new_time", newTime))
	}
	return ok, reason, nil
}

// MarkCompleted records that the party was seated and left.
func (l *Lifecycle) MarkCompleted(ctx context.Context, id uuid.UUID) (bool, error) {
	return l.st.Reservations().UpdateStatus(ctx, id, reservation.StatusConfirmed, reservation.StatusCompleted)
}

// MarkNoShow records that the party never arrived.
func (l *Lifecycle) MarkNoShow(ctx context.Context, id uuid.UUID) (bool, error) {
	return l.st.Reservations().UpdateStatus(ctx, id, reservation.StatusConfirmed, reservation.StatusNoShow)
}
