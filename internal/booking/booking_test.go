package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/tablebook/internal/domain/reservation"
	"github.com/example/tablebook/internal/memstore"
	"github.com/example/tablebook/internal/notify"
)

// dinner is a fixed future evening slot used across the suite.
var dinner = time.Date(2030, 6, 14, 19, 0, 0, 0, time.UTC)

type fixture struct {
	t  *testing.T
	st *memstore.Store
}

func newFixture(t *testing.T) *fixture {
	return &fixture{t: t, st: memstore.New()}
}

func (f *fixture) section(name string, priority int, combine bool) reservation.Section {
	sec, err := f.st.Sections().Create(context.Background(), reservation.Section{
		Name:             name,
		Priority:         priority,
		CanCombineTables: combine,
		Active:           true,
	})
	require.NoError(f.t, err)
	return sec
}

func (f *fixture) table(sec reservation.Section, label string, capacity int) reservation.Table {
	tab, err := f.st.Tables().Create(context.Background(), reservation.Table{
		Label:     label,
		Capacity:  capacity,
		SectionID: sec.ID,
		Active:    true,
	})
	require.NoError(f.t, err)
	return tab
}

// confirm seats a walk-in party directly, bypassing the engine.
func (f *fixture) confirm(tab reservation.Table, at time.Time) reservation.Reservation {
	tableID := tab.ID
	res := reservation.Reservation{
		ID:            uuid.New(),
		CustomerName:  "Existing Guest",
		CustomerEmail: "guest@example.com",
		PartySize:     2,
		RequestedTime: at,
		TableID:       &tableID,
		Status:        reservation.StatusConfirmed,
		CreatedAt:     at.Add(-24 * time.Hour),
	}
	require.NoError(f.t, f.st.Reservations().Create(context.Background(), res))
	return res
}

func (f *fixture) engine() *Engine {
	log := zap.NewNop()
	dispatcher := notify.NewDispatcher(notify.LogNotifier{Log: log}, log)
	return NewEngine(f.st, DefaultSettings(), dispatcher, log)
}

func (f *fixture) lifecycle() *Lifecycle {
	return NewLifecycle(f.st, DefaultSettings(), zap.NewNop())
}

func (f *fixture) combos() *ComboCoordinator {
	return NewComboCoordinator(f.st, DefaultSettings(), zap.NewNop())
}

func bookingRequest(party int, at time.Time, section string) reservation.BookingRequest {
	return reservation.BookingRequest{
		CustomerName:      "Priya Shah",
		CustomerEmail:     "priya@example.com",
		CustomerPhone:     "+14155552671",
		PartySize:         party,
		RequestedTime:     at,
		SectionPreference: section,
	}
}
