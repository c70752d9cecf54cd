package reservation

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no-show"
)

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// Section is an ordered pool of tables. Lower Priority is tried first;
// ties are broken by name.
type Section struct {
	ID               int64
	Name             string
	Priority         int
	CanCombineTables bool
	Active           bool
}

// Table is a single physical table belonging to exactly one section.
// CombinedWith lists the tables it is currently merged with; the linkage is
// symmetric and cleared when the combo reservation is cancelled.
type Table struct {
	ID           int64
	Label        string
	Capacity     int
	SectionID    int64
	Active       bool
	CombinedWith []int64
}

type PreOrderItem struct {
	MenuItemID int64
	Quantity   int
}

type Reservation struct {
	ID                uuid.UUID
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	PartySize         int
	RequestedTime     time.Time
	SectionPreference string

	// TableID is nil only while the reservation is pending without an
	// assigned table.
	TableID *int64

	Status    Status
	CreatedAt time.Time
	Notes     string
	PreOrder  []PreOrderItem

	// ComboGroupID links the legs of a multi-table booking.
	ComboGroupID *uuid.UUID
}

// Blocks reports whether the reservation counts against table availability.
// Cancelled, completed and no-show reservations never block a slot.
func (r Reservation) Blocks() bool {
	return r.Status == StatusConfirmed || r.Status == StatusPending
}
