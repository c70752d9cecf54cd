package booking

import (
	"time"

	"github.com/example/tablebook/internal/domain/reservation"
)

type Settings struct {
	// ConflictWindow is the half-width of the band around a requested time
	// during which the same table cannot be booked twice.
	ConflictWindow time.Duration
	Policy         reservation.WindowPolicy

	// LargePartyThreshold routes oversized parties to LargePartySection
	// ahead of the normal priority order.
	LargePartyThreshold int
	LargePartySection   string

	// MaxCombinedParty caps the party size a two-table combination may
	// serve.
	MaxCombinedParty int

	AlternativesLimit int
}

func DefaultSettings() Settings {
	return Settings{
		ConflictWindow:      reservation.DefaultWindow,
		Policy:              reservation.PolicyBand,
		LargePartyThreshold: 20,
		LargePartySection:   "Private",
		MaxCombinedParty:    8,
		AlternativesLimit:   5,
	}
}

func (s Settings) checker() Checker {
	return Checker{Window: s.ConflictWindow, Policy: s.Policy}
}
