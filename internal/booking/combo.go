package booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/tablebook/internal/domain/reservation"
	"github.com/example/tablebook/internal/store"
)

// ComboCoordinator books one party across several tables: one reservation
// row per table, the party split by descending capacity, all rows linked by
// a shared group id. The whole operation is all-or-nothing.
type ComboCoordinator struct {
	st      store.Store
	checker Checker
	log     *zap.Logger
	now     func() time.Time
}

func NewComboCoordinator(st store.Store, settings Settings, log *zap.Logger) *ComboCoordinator {
	return &ComboCoordinator{st: st, checker: settings.checker(), log: log, now: time.Now}
}

// CreateCombo validates every requested table and books them as a unit.
// Domain failures (unknown table, occupied table, insufficient capacity)
// come back in the result's Reason; only storage problems are errors.
func (c *ComboCoordinator) CreateCombo(ctx context.Context, req reservation.ComboBookingRequest) (reservation.ComboResult, error) {
	if err := req.Validate(c.now()); err != nil {
		return reservation.ComboResult{Reason: err.Error()}, nil
	}

	var legs []reservation.Reservation
	var tables []reservation.Table
	err := c.st.WithTx(ctx, func(tx store.Store) error {
		tables = make([]reservation.Table, 0, len(req.TableIDs))
		for _, id := range req.TableIDs {
			t, err := tx.Tables().Get(ctx, id)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("%w: table %d does not exist", ErrInvalidRequest, id)
				}
				return err
			}
			if !t.Active {
				return fmt.Errorf("%w: table %s is not active", ErrInvalidRequest, t.Label)
			}
			tables = append(tables, t)
		}

		for _, t := range tables {
			free, err := c.checker.IsTableFree(ctx, tx, t.ID, req.RequestedTime, writeStatuses...)
			if err != nil {
				return err
			}
			if !free {
				return fmt.Errorf("%w: table %s", ErrRaceConflict, t.Label)
			}
		}

		split, err := reservation.SplitParty(req.PartySize, tables)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCapacityInsufficient, err)
		}

		var err2 error
		legs, err2 = c.insertLegs(ctx, tx, comboSpec{
			customerName:  req.CustomerName,
			customerEmail: req.CustomerEmail,
			customerPhone: req.CustomerPhone,
			requestedTime: req.RequestedTime,
			preOrder:      req.PreOrder,
		}, tables, split)
		return err2
	})
	if err != nil {
		err = raceError(err)
		if errors.Is(err, ErrInvalidRequest) || errors.Is(err, ErrRaceConflict) || errors.Is(err, ErrCapacityInsufficient) {
			return reservation.ComboResult{Reason: err.Error()}, nil
		}
		return reservation.ComboResult{}, err
	}

	c.log.Info("combo booking created",
		zap.Int("tables", len(legs)),
		zap.Int("party_size", req.PartySize),
		zap.Int("total_capacity", reservation.TotalCapacity(tables)),
		zap.Time("requested_time", req.RequestedTime))
	return reservation.ComboResult{OK: true, Reservations: legs}, nil
}

// bookPair books a combinable pair chosen by the finder on behalf of the
// engine. It re-checks both tables inside the transaction and reports
// ErrRaceConflict if either was taken.
func (c *ComboCoordinator) bookPair(ctx context.Context, req reservation.BookingRequest, offer reservation.TableOffer) ([]reservation.Reservation, error) {
	var legs []reservation.Reservation
	err := c.st.WithTx(ctx, func(tx store.Store) error {
		for _, t := range offer.Tables {
			free, err := c.checker.IsTableFree(ctx, tx, t.ID, req.RequestedTime, writeStatuses...)
			if err != nil {
				return err
			}
			if !free {
				return ErrRaceConflict
			}
		}
		split, err := reservation.SplitParty(req.PartySize, offer.Tables)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCapacityInsufficient, err)
		}
		legs, err = c.insertLegs(ctx, tx, comboSpec{
			customerName:      req.CustomerName,
			customerEmail:     req.CustomerEmail,
			customerPhone:     req.CustomerPhone,
			requestedTime:     req.RequestedTime,
			sectionPreference: req.SectionPreference,
			preOrder:          req.PreOrder,
		}, offer.Tables, split)
		return err
	})
	if err != nil {
		return nil, raceError(err)
	}
	return legs, nil
}

type comboSpec struct {
	customerName      string
	customerEmail     string
	customerPhone     string
	requestedTime     time.Time
	sectionPreference string
	preOrder          []reservation.PreOrderItem
}

func (c *ComboCoordinator) insertLegs(ctx context.Context, tx store.Store, spec comboSpec, tables []reservation.Table, split map[int64]int) ([]reservation.Reservation, error) {
	sorted := make([]reservation.Table, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Capacity != sorted[j].Capacity {
			return sorted[i].Capacity > sorted[j].Capacity
		}
		return sorted[i].ID < sorted[j].ID
	})

	// tables the split left out are not part of the combo
	used := sorted[:0]
	for _, t := range sorted {
		if _, ok := split[t.ID]; ok {
			used = append(used, t)
		}
	}

	labels := make([]string, 0, len(used))
	for _, t := range used {
		labels = append(labels, t.Label)
	}
	notes := "combined tables: " + strings.Join(labels, ", ")

	group := uuid.New()
	created := c.now().UTC()
	var legs []reservation.Reservation
	for _, t := range used {
		seats := split[t.ID]
		tableID := t.ID
		// the pre-order rides on the first (largest) leg only
		var preOrder []reservation.PreOrderItem
		if len(legs) == 0 {
			preOrder = spec.preOrder
		}
		res := reservation.Reservation{
			ID:                uuid.New(),
			CustomerName:      spec.customerName,
			CustomerEmail:     spec.customerEmail,
			CustomerPhone:     spec.customerPhone,
			PartySize:         seats,
			RequestedTime:     spec.requestedTime,
			SectionPreference: spec.sectionPreference,
			TableID:           &tableID,
			Status:            reservation.StatusConfirmed,
			CreatedAt:         created,
			Notes:             notes,
			PreOrder:          preOrder,
			ComboGroupID:      &group,
		}
		if err := tx.Reservations().Create(ctx, res); err != nil {
			return nil, err
		}
		legs = append(legs, res)
	}
	usedIDs := make([]int64, 0, len(legs))
	for _, leg := range legs {
		usedIDs = append(usedIDs, *leg.TableID)
	}
	if len(usedIDs) > 1 {
		if err := tx.Tables().SetCombined(ctx, usedIDs); err != nil {
			return nil, err
		}
	}
	return legs, nil
}
