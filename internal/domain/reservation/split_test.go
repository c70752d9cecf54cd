package reservation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPartyLargestFirst(t *testing.T) {
	tables := []Table{
		{ID: 1, Capacity: 2},
		{ID: 2, Capacity: 6},
		{ID: 3, Capacity: 4},
	}

	alloc, err := SplitParty(10, tables)
	require.NoError(t, err)

	assert.Equal(t, map[int64]int{2: 6, 3: 4}, alloc)
}

func TestSplitPartyPartialLastTable(t *testing.T) {
	tables := []Table{
		{ID: 1, Capacity: 4},
		{ID: 2, Capacity: 4},
	}

	alloc, err := SplitParty(6, tables)
	require.NoError(t, err)

	// the second table seats only the remainder
	assert.Equal(t, map[int64]int{1: 4, 2: 2}, alloc)
}

func TestSplitPartyInsufficientCapacity(t *testing.T) {
	tables := []Table{
		{ID: 1, Capacity: 2},
		{ID: 2, Capacity: 2},
	}

	_, err := SplitParty(5, tables)
	assert.Error(t, err)
}

func TestSplitPartyRejectsNonPositiveParty(t *testing.T) {
	_, err := SplitParty(0, []Table{{ID: 1, Capacity: 4}})
	assert.Error(t, err)
}

func TestTotalCapacity(t *testing.T) {
	tables := []Table{{Capacity: 2}, {Capacity: 4}, {Capacity: 6}}
	assert.Equal(t, 12, TotalCapacity(tables))
	assert.Equal(t, 0, TotalCapacity(nil))
}
