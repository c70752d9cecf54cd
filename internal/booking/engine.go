package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/tablebook/internal/domain/reservation"
	"github.com/example/tablebook/internal/notify"
	"github.com/example/tablebook/internal/store"
)

// Engine orchestrates one booking attempt: find an allocation, re-check it
// atomically with the write, and fall back to ranked alternatives when the
// requested slot cannot be satisfied. A race between search and write is
// retried once before alternatives are surfaced.
type Engine struct {
	st        store.Store
	settings  Settings
	finder    *Finder
	lifecycle *Lifecycle
	combos    *ComboCoordinator
	notifier  *notify.Dispatcher
	log       *zap.Logger
	now       func() time.Time
}

func NewEngine(st store.Store, settings Settings, notifier *notify.Dispatcher, log *zap.Logger) *Engine {
	return &Engine{
		st:        st,
		settings:  settings,
		finder:    NewFinder(settings),
		lifecycle: NewLifecycle(st, settings, log),
		combos:    NewComboCoordinator(st, settings, log),
		notifier:  notifier,
		log:       log,
		now:       time.Now,
	}
}

// Lifecycle exposes the engine's lifecycle manager for cancel, reschedule
// and status transitions.
func (e *Engine) Lifecycle() *Lifecycle { return e.lifecycle }

// Combos exposes the combo coordinator for explicit multi-table requests.
func (e *Engine) Combos() *ComboCoordinator { return e.combos }

// Book runs one allocation attempt for the request. Lack of availability is
// a normal rejected/offered result, not an error; only invalid input and
// storage failures return errors.
func (e *Engine) Book(ctx context.Context, req reservation.BookingRequest) (reservation.BookingResult, error) {
	if err := req.Validate(e.now()); err != nil {
		return reservation.BookingResult{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	legs, err := e.attempt(ctx, req)
	if errors.Is(err, ErrRaceConflict) {
		e.log.Warn("booking raced, retrying once",
			zap.Int("party_size", req.PartySize),
			zap.Time("requested_time", req.RequestedTime))
		legs, err = e.attempt(ctx, req)
	}
	if err != nil && !errors.Is(err, ErrRaceConflict) {
		return reservation.BookingResult{}, err
	}

	if err == nil && legs != nil {
		e.notifyConfirmed(ctx, legs)
		return reservation.BookingResult{
			Status:       reservation.OutcomeConfirmed,
			Reservations: legs,
			Message:      "Reservation confirmed!",
		}, nil
	}

	return e.offerAlternatives(ctx, req)
}

// attempt returns the confirmed reservation legs, nil when no allocation
// exists, or ErrRaceConflict when the chosen tables were taken underfoot.
func (e *Engine) attempt(ctx context.Context, req reservation.BookingRequest) ([]reservation.Reservation, error) {
	offer, err := e.finder.FindTable(ctx, e.st, req)
	if err != nil {
		return nil, err
	}
	if offer == nil {
		return nil, nil
	}

	if offer.Combined {
		return e.combos.bookPair(ctx, req, *offer)
	}
	res, err := e.lifecycle.Create(ctx, offer.Tables[0].ID, req)
	if err != nil {
		return nil, err
	}
	return []reservation.Reservation{res}, nil
}

func (e *Engine) offerAlternatives(ctx context.Context, req reservation.BookingRequest) (reservation.BookingResult, error) {
	alts, err := e.finder.FindAlternatives(ctx, e.st, req, e.settings.AlternativesLimit)
	if err != nil {
		return reservation.BookingResult{}, err
	}
	if len(alts) == 0 {
		return reservation.BookingResult{
			Status:  reservation.OutcomeRejected,
			Message: "No tables available for the requested time and party size.",
		}, nil
	}

	result := reservation.BookingResult{
		Status:       reservation.OutcomeOffered,
		Alternatives: alts,
		Message:      "We couldn't seat your party exactly as requested. Here are some alternatives.",
	}
	if req.HoldAsPending {
		hold, err := e.lifecycle.CreatePendingHold(ctx, req)
		if err != nil {
			return reservation.BookingResult{}, err
		}
		result.Reservations = []reservation.Reservation{hold}
	}
	return result, nil
}

// notifyConfirmed fires the outbound confirmation event. Delivery happens
// outside any transaction and a failure never affects the booking.
func (e *Engine) notifyConfirmed(ctx context.Context, legs []reservation.Reservation) {
	tables := make([]reservation.Table, 0, len(legs))
	for _, leg := range legs {
		if leg.TableID == nil {
			continue
		}
		t, err := e.st.Tables().Get(ctx, *leg.TableID)
		if err != nil {
			e.log.Warn("confirmed table lookup for notification failed",
				zap.Int64("table_id", *leg.TableID), zap.Error(err))
			continue
		}
		tables = append(tables, t)
	}
	e.notifier.Dispatch(notify.Event{Reservations: legs, Tables: tables})
}
