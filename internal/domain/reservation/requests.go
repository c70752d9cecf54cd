package reservation

import (
	"fmt"
	"strings"
	"time"
)

// SectionAny means the customer has no section preference.
const SectionAny = "Any"

type BookingRequest struct {
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	PartySize         int
	RequestedTime     time.Time
	SectionPreference string
	PreOrder          []PreOrderItem

	// HoldAsPending persists a table-less pending placeholder when only
	// alternatives can be offered. Off by default: an offer does not have to
	// commit anything.
	HoldAsPending bool
}

// HasPreference reports whether the request names a concrete section.
func (r BookingRequest) HasPreference() bool {
	return r.SectionPreference != "" && !strings.EqualFold(r.SectionPreference, SectionAny)
}

func (r BookingRequest) Validate(now time.Time) error {
	if strings.TrimSpace(r.CustomerName) == "" {
		return fmt.Errorf("customer name required")
	}
	if r.CustomerEmail == "" && r.CustomerPhone == "" {
		return fmt.Errorf("at least one contact channel (email or phone) required")
	}
	if r.PartySize < 1 {
		return fmt.Errorf("party size must be at least 1")
	}
	if r.RequestedTime.IsZero() || r.RequestedTime.Before(now) {
		return fmt.Errorf("requested time must be in the future")
	}
	for _, it := range r.PreOrder {
		if it.Quantity < 1 {
			return fmt.Errorf("pre-order quantity must be at least 1")
		}
	}
	return nil
}

type ComboBookingRequest struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	PartySize     int
	RequestedTime time.Time
	TableIDs      []int64
	PreOrder      []PreOrderItem
}

func (r ComboBookingRequest) Validate(now time.Time) error {
	base := BookingRequest{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		CustomerPhone: r.CustomerPhone,
		PartySize:     r.PartySize,
		RequestedTime: r.RequestedTime,
	}
	if err := base.Validate(now); err != nil {
		return err
	}
	if len(r.TableIDs) == 0 {
		return fmt.Errorf("at least one table id required")
	}
	seen := make(map[int64]bool, len(r.TableIDs))
	for _, id := range r.TableIDs {
		if seen[id] {
			return fmt.Errorf("duplicate table id %d", id)
		}
		seen[id] = true
	}
	return nil
}

// TableOffer is a single bookable allocation: one table, or a combinable
// pair presented as a unit.
type TableOffer struct {
	Tables        []Table
	SectionName   string
	TotalCapacity int
	Combined      bool

	// ExactMatch is true when a single table's capacity equals the party
	// size exactly.
	ExactMatch bool
}

// BookingOutcome is the terminal state of one booking attempt.
type BookingOutcome string

const (
	OutcomeConfirmed BookingOutcome = "confirmed"
	OutcomeOffered   BookingOutcome = "offered"
	OutcomeRejected  BookingOutcome = "rejected"
)

type BookingResult struct {
	Status BookingOutcome

	// Reservations holds the confirmed rows: one entry for a single-table
	// booking, one per leg for a combined booking. Empty unless confirmed
	// (or a pending placeholder was requested on offer).
	Reservations []Reservation

	Alternatives []TableOffer
	Message      string
}

type ComboResult struct {
	OK           bool
	Reservations []Reservation
	Reason       string
}

type AvailabilityQuery struct {
	Section string
	AtTime  time.Time
}

type TableAvailability struct {
	Table   Table
	Section string
	Booked  bool
}

type AvailabilitySnapshot struct {
	AtTime         time.Time
	TotalTables    int
	BookedCount    int
	AvailableCount int
	PerTable       []TableAvailability
}
