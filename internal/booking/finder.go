package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/example/tablebook/internal/domain/reservation"
	"github.com/example/tablebook/internal/store"
)

// Finder scans sections in priority order for a table (or combinable pair)
// that seats the party. "No availability" is a normal empty result, never an
// error.
type Finder struct {
	settings Settings
	checker  Checker
}

func NewFinder(settings Settings) *Finder {
	return &Finder{settings: settings, checker: settings.checker()}
}

// FindTable returns the best allocation for the request, or nil when nothing
// fits. Preference order inside a section: exact capacity, then the smallest
// larger table, then a combinable pair. Parties at or above the large-party
// threshold try the oversized section before the normal priority order.
func (f *Finder) FindTable(ctx context.Context, st store.Store, req reservation.BookingRequest) (*reservation.TableOffer, error) {
	sections, err := f.candidateSections(ctx, st, req)
	if err != nil {
		return nil, err
	}
	for _, sec := range sections {
		offer, err := f.findInSection(ctx, st, sec, req.PartySize, req.RequestedTime)
		if err != nil {
			return nil, err
		}
		if offer != nil {
			return offer, nil
		}
	}
	return nil, nil
}

// FindAlternatives relaxes the section constraint and returns up to limit
// offers: sections other than the preferred one in priority order, exact
// matches before oversized before pairs, deduplicated by table identity.
func (f *Finder) FindAlternatives(ctx context.Context, st store.Store, req reservation.BookingRequest, limit int) ([]reservation.TableOffer, error) {
	if limit <= 0 {
		limit = f.settings.AlternativesLimit
	}
	sections, err := st.Sections().ListActive(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	var out []reservation.TableOffer
	add := func(offer reservation.TableOffer) bool {
		for _, t := range offer.Tables {
			if seen[t.ID] {
				return len(out) < limit
			}
		}
		for _, t := range offer.Tables {
			seen[t.ID] = true
		}
		out = append(out, offer)
		return len(out) < limit
	}

	for _, sec := range sections {
		if strings.EqualFold(sec.Name, req.SectionPreference) {
			continue
		}
		free, err := f.freeTables(ctx, st, sec.ID, req.RequestedTime)
		if err != nil {
			return nil, err
		}
		for _, t := range free {
			if t.Capacity == req.PartySize {
				if !add(singleOffer(t, sec, true)) {
					return out, nil
				}
			}
		}
		for _, t := range free {
			if t.Capacity > req.PartySize {
				if !add(singleOffer(t, sec, false)) {
					return out, nil
				}
			}
		}
		if pair := f.bestPair(free, sec, req.PartySize); pair != nil {
			if !add(*pair) {
				return out, nil
			}
		}
	}
	return out, nil
}

func (f *Finder) candidateSections(ctx context.Context, st store.Store, req reservation.BookingRequest) ([]reservation.Section, error) {
	var sections []reservation.Section
	if req.HasPreference() {
		sec, err := st.Sections().GetByName(ctx, req.SectionPreference)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, nil
			}
			return nil, err
		}
		if sec.Active {
			sections = []reservation.Section{sec}
		}
	} else {
		var err error
		sections, err = st.Sections().ListActive(ctx)
		if err != nil {
			return nil, err
		}
	}

	// Very large parties go to the oversized section first, regardless of
	// its priority.
	if req.PartySize >= f.settings.LargePartyThreshold {
		big, err := st.Sections().GetByName(ctx, f.settings.LargePartySection)
		if err == nil && big.Active {
			reordered := []reservation.Section{big}
			for _, sec := range sections {
				if sec.ID != big.ID {
					reordered = append(reordered, sec)
				}
			}
			sections = reordered
		} else if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return sections, nil
}

func (f *Finder) findInSection(ctx context.Context, st store.Store, sec reservation.Section, partySize int, at time.Time) (*reservation.TableOffer, error) {
	free, err := f.freeTables(ctx, st, sec.ID, at)
	if err != nil {
		return nil, err
	}

	// free is ordered by ascending capacity, so the first strictly larger
	// table is also the smallest one.
	for _, t := range free {
		if t.Capacity == partySize {
			o := singleOffer(t, sec, true)
			return &o, nil
		}
	}
	for _, t := range free {
		if t.Capacity > partySize {
			o := singleOffer(t, sec, false)
			return &o, nil
		}
	}
	return f.bestPair(free, sec, partySize), nil
}

// freeTables returns the section's bookable tables: active, not currently
// merged into another combo, and free around at.
func (f *Finder) freeTables(ctx context.Context, st store.Store, sectionID int64, at time.Time) ([]reservation.Table, error) {
	tables, err := st.Tables().ListBySection(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	free := tables[:0]
	for _, t := range tables {
		if len(t.CombinedWith) > 0 {
			continue
		}
		ok, err := f.checker.IsTableFree(ctx, st, t.ID, at)
		if err != nil {
			return nil, err
		}
		if ok {
			free = append(free, t)
		}
	}
	return free, nil
}

// bestPair picks the cheapest two-table combination that covers the party,
// when the section allows combining and the party is small enough to share.
func (f *Finder) bestPair(free []reservation.Table, sec reservation.Section, partySize int) *reservation.TableOffer {
	if !sec.CanCombineTables || partySize > f.settings.MaxCombinedParty || len(free) < 2 {
		return nil
	}
	var best []reservation.Table
	bestTotal := 0
	for i := 0; i < len(free); i++ {
		for j := i + 1; j < len(free); j++ {
			total := free[i].Capacity + free[j].Capacity
			if total < partySize {
				continue
			}
			if best == nil || total < bestTotal {
				best = []reservation.Table{free[i], free[j]}
				bestTotal = total
			}
		}
	}
	if best == nil {
		return nil
	}
	return &reservation.TableOffer{
		Tables:        best,
		SectionName:   sec.Name,
		TotalCapacity: bestTotal,
		Combined:      true,
	}
}

func singleOffer(t reservation.Table, sec reservation.Section, exact bool) reservation.TableOffer {
	return reservation.TableOffer{
		Tables:        []reservation.Table{t},
		SectionName:   sec.Name,
		TotalCapacity: t.Capacity,
		ExactMatch:    exact,
	}
}
