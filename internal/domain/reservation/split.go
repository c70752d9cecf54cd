package reservation

import (
	"fmt"
	"sort"
)

// SplitParty allocates a party across the given tables, largest table first,
// seating min(capacity, remaining) at each. It returns the per-table head
// counts keyed by table ID. If the summed capacity cannot seat the whole
// party it fails rather than under-seating.
func SplitParty(partySize int, tables []Table) (map[int64]int, error) {
	if partySize <= 0 {
		return nil, fmt.Errorf("party size must be positive, got %d", partySize)
	}
	sorted := make([]Table, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Capacity != sorted[j].Capacity {
			return sorted[i].Capacity > sorted[j].Capacity
		}
		return sorted[i].ID < sorted[j].ID
	})

	alloc := make(map[int64]int, len(sorted))
	remaining := partySize
	for _, t := range sorted {
		if remaining <= 0 {
			break
		}
		n := t.Capacity
		if n > remaining {
			n = remaining
		}
		alloc[t.ID] = n
		remaining -= n
	}
	if remaining > 0 {
		return nil, fmt.Errorf("tables seat %d fewer than the party of %d", remaining, partySize)
	}
	return alloc, nil
}

// TotalCapacity sums the capacities of the given tables.
func TotalCapacity(tables []Table) int {
	total := 0
	for _, t := range tables {
		total += t.Capacity
	}
	return total
}
