package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/tablebook/internal/domain/reservation"
	"github.com/example/tablebook/internal/store"
)

func TestSnapshotCountsBookedAndFree(t *testing.T) {
	f := newFixture(t)
	lake := f.section("Lake View", 1, true)
	garden := f.section("Garden View", 2, true)
	taken := f.table(lake, "L1", 4)
	f.table(lake, "L2", 2)
	f.table(garden, "G1", 6)
	f.confirm(taken, dinner)

	av := NewAvailability(f.st, DefaultSettings())
	snap, err := av.Snapshot(context.Background(), reservation.AvailabilityQuery{AtTime: dinner})
	require.NoError(t, err)

	assert.Equal(t, 3, snap.TotalTables)
	assert.Equal(t, 1, snap.BookedCount)
	assert.Equal(t, 2, snap.AvailableCount)
	require.Len(t, snap.PerTable, 3)

	for _, entry := range snap.PerTable {
		if entry.Table.ID == taken.ID {
			assert.True(t, entry.Booked)
			assert.Equal(t, "Lake View", entry.Section)
		} else {
			assert.False(t, entry.Booked)
		}
	}
}

func TestSnapshotScopedToSection(t *testing.T) {
	f := newFixture(t)
	lake := f.section("Lake View", 1, true)
	garden := f.section("Garden View", 2, true)
	f.table(lake, "L1", 4)
	f.table(garden, "G1", 6)

	av := NewAvailability(f.st, DefaultSettings())
	snap, err := av.Snapshot(context.Background(), reservation.AvailabilityQuery{
		Section: "Garden View",
		AtTime:  dinner,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, snap.TotalTables)
	assert.Equal(t, "Garden View", snap.PerTable[0].Section)
}

func TestSnapshotUnknownSection(t *testing.T) {
	f := newFixture(t)
	av := NewAvailability(f.st, DefaultSettings())
	_, err := av.Snapshot(context.Background(), reservation.AvailabilityQuery{
		Section: "Rooftop",
		AtTime:  dinner,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSnapshotCancelledBookingsDoNotBlock(t *testing.T) {
	f := newFixture(t)
	lake := f.section("Lake View", 1, true)
	four := f.table(lake, "L1", 4)
	lc := f.lifecycle()

	res, err := lc.Create(context.Background(), four.ID, bookingRequest(4, dinner, ""))
	require.NoError(t, err)
	_, err = lc.Cancel(context.Background(), res.ID)
	require.NoError(t, err)

	av := NewAvailability(f.st, DefaultSettings())
	snap, err := av.Snapshot(context.Background(), reservation.AvailabilityQuery{AtTime: dinner})
	require.NoError(t, err)
	assert.Equal(t, 0, snap.BookedCount)
	assert.Equal(t, 1, snap.AvailableCount)
}

func TestUpcomingListsConfirmedSoonestFirst(t *testing.T) {
	f := newFixture(t)
	lake := f.section("Lake View", 1, true)
	a := f.table(lake, "L1", 4)
	b := f.table(lake, "L2", 4)

	late := f.confirm(a, time.Now().UTC().Add(20*time.Hour))
	early := f.confirm(b, time.Now().UTC().Add(2*time.Hour))
	f.confirm(a, time.Now().UTC().Add(72*time.Hour))

	av := NewAvailability(f.st, DefaultSettings())
	list, err := av.Upcoming(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID)
	assert.Equal(t, late.ID, list[1].ID)
}
