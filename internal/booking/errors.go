package booking

import (
	"errors"

	"github.com/example/tablebook/internal/store"
)

var (
	// ErrInvalidRequest rejects malformed input before any search or write.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrRaceConflict reports that a candidate table was booked between the
	// search and the write. The engine retries once before giving up.
	ErrRaceConflict = errors.New("table was booked concurrently")

	// ErrCapacityInsufficient aborts a combo whose tables cannot seat the
	// whole party.
	ErrCapacityInsufficient = errors.New("combined table capacity insufficient for party")
)

// raceError folds the store's transaction-conflict sentinel into
// ErrRaceConflict: a booking that loses a serializable commit is the same
// race as one caught by the in-transaction free check, and gets the same
// retry.
func raceError(err error) error {
	if errors.Is(err, store.ErrConflict) {
		return ErrRaceConflict
	}
	return err
}
