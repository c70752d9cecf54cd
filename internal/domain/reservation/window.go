package reservation

import "time"

// WindowPolicy selects how the conflict window around a requested time is
// computed. The band policy is the default: any two bookings on the same
// table within +/- the configured duration collide. The exact-slot policy is
// a narrower opt-in that only collides bookings at the same minute.
type WindowPolicy string

const (
	PolicyBand      WindowPolicy = "band"
	PolicyExactSlot WindowPolicy = "exact-slot"
)

// DefaultWindow is the half-width of the band conflict window.
const DefaultWindow = 2 * time.Hour

// Window is a closed time interval. Boundary times are conflicting: two
// parties seated exactly a window apart would still collide at handover.
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowFor computes the conflict window for a candidate time under the
// given policy. delta is ignored for the exact-slot policy.
func WindowFor(at time.Time, delta time.Duration, policy WindowPolicy) Window {
	if policy == PolicyExactSlot {
		t := at.Truncate(time.Minute)
		return Window{Start: t, End: t}
	}
	return Window{Start: at.Add(-delta), End: at.Add(delta)}
}

// Contains reports whether t falls inside the window, bounds inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Overlaps reports whether the two windows share at least one instant.
func (w Window) Overlaps(o Window) bool {
	return !w.End.Before(o.Start) && !o.End.Before(w.Start)
}
