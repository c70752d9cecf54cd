package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/tablebook/internal/domain/reservation"
	"github.com/example/tablebook/internal/notify"
	"github.com/example/tablebook/internal/store"
)

// conflictStore fails the next n transactional commits the way a serializable
// database aborts a loser, then behaves normally.
type conflictStore struct {
	store.Store
	remaining int
}

func (s *conflictStore) WithTx(ctx context.Context, fn func(store.Store) error) error {
	if s.remaining > 0 {
		s.remaining--
		return store.ErrConflict
	}
	return s.Store.WithTx(ctx, fn)
}

func TestBookConfirmsExactTable(t *testing.T) {
	f := newFixture(t)
	lake := f.section("Lake View", 1, true)
	four := f.table(lake, "L1", 4)

	result, err := f.engine().Book(context.Background(), bookingRequest(4, dinner, "Lake View"))
	require.NoError(t, err)
	assert.Equal(t, reservation.OutcomeConfirmed, result.Status)
	assert.Equal(t, "Reservation confirmed!", result.Message)
	require.Len(t, result.Reservations, 1)

	res := result.Reservations[0]
	require.NotNil(t, res.TableID)
	assert.Equal(t, four.ID, *res.TableID)
	assert.Equal(t, reservation.StatusConfirmed, res.Status)
	assert.Equal(t, dinner, res.RequestedTime)

	stored, err := f.st.Reservations().Get(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, "Priya Shah", stored.CustomerName)
}

func TestBookFallsThroughToNextSection(t *testing.T) {
	f := newFixture(t)
	lake := f.section("Lake View", 1, false)
	garden := f.section("Garden View", 2, false)
	f.table(lake, "L1", 2)
	g4 := f.table(garden, "G1", 4)

	result, err := f.engine().Book(context.Background(), bookingRequest(4, dinner, ""))
	require.NoError(t, err)
	assert.Equal(t, reservation.OutcomeConfirmed, result.Status)
	require.Len(t, result.Reservations, 1)
	assert.Equal(t, g4.ID, *result.Reservations[0].TableID)
}

func TestBookCombinedPair(t *testing.T) {
	f := newFixture(t)
	lake := f.section("Lake View", 1, true)
	a := f.table(lake, "L1", 2)
	b := f.table(lake, "L2", 2)

	result, err := f.engine().Book(context.Background(), bookingRequest(4, dinner, "Lake View"))
	require.NoError(t, err)
	assert.Equal(t, reservation.OutcomeConfirmed, result.Status)
	require.Len(t, result.Reservations, 2)

	first, second := result.Reservations[0], result.Reservations[1]
	require.NotNil(t, first.ComboGroupID)
	require.NotNil(t, second.ComboGroupID)
	assert.Equal(t, *first.ComboGroupID, *second.ComboGroupID)
	assert.Equal(t, 4, first.PartySize+second.PartySize)

	// merge linkage is symmetric
	ta, err := f.st.Tables().Get(context.Background(), a.ID)
	require.NoError(t, err)
	tb, err := f.st.Tables().Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, ta.CombinedWith)
	assert.Equal(t, []int64{a.ID}, tb.CombinedWith)
}

func TestBookOffersAlternativesWhenPreferredSectionFull(t *testing.T) {
	f := newFixture(t)
	lake := f.section("Lake View", 1, true)
	garden := f.section("Garden View", 2, true)
	taken := f.table(lake, "L1", 4)
	g := f.table(garden, "G1", 4)
	f.confirm(taken, dinner)

	result, err := f.engine().Book(context.Background(), bookingRequest(4, dinner, "Lake View"))
	require.NoError(t, err)
	assert.Equal(t, reservation.OutcomeOffered, result.Status)
	assert.Empty(t, result.Reservations)
	require.Len(t, result.Alternatives, 1)
	assert.Equal(t, g.ID, result.Alternatives[0].Tables[0].ID)
}

func TestBookRejectsWhenNothingAnywhere(t *testing.T) {
	f := newFixture(t)
	lake := f.section("Lake View", 1, true)
	taken := f.table(lake, "L1", 4)
	f.confirm(taken, dinner)

	result, err := f.engine().Book(context.Background(), bookingRequest(4, dinner, "Lake View"))
	require.NoError(t, err)
	assert.Equal(t, reservation.OutcomeRejected, result.Status)
	assert.Empty(t, result.Reservations)
	assert.Empty(t, result.Alternatives)
	assert.NotEmpty(t, result.Message)
}

func TestBookHoldAsPendingPersistsPlaceholder(t *testing.T) {
	f := newFixture(t)
	lake := f.section("Lake View", 1, true)
	garden := f.section("Garden View", 2, true)
	taken := f.table(lake, "L1", 4)
	f.table(garden, "G1", 4)
	f.confirm(taken, dinner)

	req := bookingRequest(4, dinner, "Lake View")
	req.HoldAsPending = true

	result, err := f.engine().Book(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, reservation.OutcomeOffered, result.Status)
	require.Len(t, result.Reservations, 1)

	hold := result.Reservations[0]
	assert.Equal(t, reservation.StatusPending, hold.Status)
	assert.Nil(t, hold.TableID)

	stored, err := f.st.Reservations().Get(context.Background(), hold.ID)
	require.NoError(t, err)
	assert.Equal(t, reservation.StatusPending, stored.Status)
}

func TestBookRejectsInvalidRequest(t *testing.T) {
	f := newFixture(t)

	cases := map[string]func(*reservation.BookingRequest){
		"no name":       func(r *reservation.BookingRequest) { r.CustomerName = " " },
		"no contact":    func(r *reservation.BookingRequest) { r.CustomerEmail = ""; r.CustomerPhone = "" },
		"zero party":    func(r *reservation.BookingRequest) { r.PartySize = 0 },
		"past time":     func(r *reservation.BookingRequest) { r.RequestedTime = time.Now().Add(-time.Hour) },
		"zero quantity": func(r *reservation.BookingRequest) { r.PreOrder = []reservation.PreOrderItem{{MenuItemID: 1, Quantity: 0}} },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := bookingRequest(4, dinner, "")
			mutate(&req)
			_, err := f.engine().Book(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestBookRetriesAfterLosingSerializableCommit(t *testing.T) {
	f := newFixture(t)
	lake := f.section("Lake View", 1, false)
	four := f.table(lake, "L1", 4)

	log := zap.NewNop()
	st := &conflictStore{Store: f.st, remaining: 1}
	engine := NewEngine(st, DefaultSettings(), notify.NewDispatcher(notify.LogNotifier{Log: log}, log), log)

	result, err := engine.Book(context.Background(), bookingRequest(4, dinner, "Lake View"))
	require.NoError(t, err)
	assert.Equal(t, reservation.OutcomeConfirmed, result.Status)
	require.Len(t, result.Reservations, 1)
	assert.Equal(t, four.ID, *result.Reservations[0].TableID)
	assert.Equal(t, 0, st.remaining)
}

func TestBookGivesUpAfterRepeatedCommitConflicts(t *testing.T) {
	f := newFixture(t)
	lake := f.section("Lake View", 1, false)
	f.table(lake, "L1", 4)

	log := zap.NewNop()
	st := &conflictStore{Store: f.st, remaining: 2}
	engine := NewEngine(st, DefaultSettings(), notify.NewDispatcher(notify.LogNotifier{Log: log}, log), log)

	// both the attempt and its retry lose; the caller gets a normal rejected
	// result, not a storage error
	result, err := engine.Book(context.Background(), bookingRequest(4, dinner, "Lake View"))
	require.NoError(t, err)
	assert.Equal(t, reservation.OutcomeRejected, result.Status)
}

func TestBookConcurrentlyConfirmsExactlyOnce(t *testing.T) {
	f := newFixture(t)
	lake := f.section("Lake View", 1, false)
	f.table(lake, "L1", 4)
	engine := f.engine()

	const attempts = 8
	results := make([]reservation.BookingResult, attempts)
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := bookingRequest(4, dinner, "Lake View")
			results[i], errs[i] = engine.Book(context.Background(), req)
		}(i)
	}
	wg.Wait()

	confirmed := 0
	for i := 0; i < attempts; i++ {
		require.NoError(t, errs[i])
		if results[i].Status == reservation.OutcomeConfirmed {
			confirmed++
		}
	}
	assert.Equal(t, 1, confirmed)
}
