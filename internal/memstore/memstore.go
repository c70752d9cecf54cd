// Package memstore is an in-memory store.Store used by tests and local
// experiments. A single mutex is the consistency boundary: WithTx holds it
// for the whole callback and rolls back to a snapshot if the callback fails,
// which gives the same all-or-nothing semantics as a database transaction.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/tablebook/internal/domain/reservation"
	"github.com/example/tablebook/internal/store"
)

type data struct {
	sections     map[int64]reservation.Section
	tables       map[int64]reservation.Table
	reservations map[uuid.UUID]reservation.Reservation
	nextID       int64
}

func (d *data) clone() *data {
	c := &data{
		sections:     make(map[int64]reservation.Section, len(d.sections)),
		tables:       make(map[int64]reservation.Table, len(d.tables)),
		reservations: make(map[uuid.UUID]reservation.Reservation, len(d.reservations)),
		nextID:       d.nextID,
	}
	for k, v := range d.sections {
		c.sections[k] = v
	}
	for k, v := range d.tables {
		v.CombinedWith = append([]int64(nil), v.CombinedWith...)
		c.tables[k] = v
	}
	for k, v := range d.reservations {
		v.PreOrder = append([]reservation.PreOrderItem(nil), v.PreOrder...)
		c.reservations[k] = v
	}
	return c
}

type Store struct {
	mu   *sync.Mutex
	d    *data
	inTx bool
}

func New() *Store {
	return &Store{
		mu: &sync.Mutex{},
		d: &data{
			sections:     make(map[int64]reservation.Section),
			tables:       make(map[int64]reservation.Table),
			reservations: make(map[uuid.UUID]reservation.Reservation),
			nextID:       1,
		},
	}
}

func (s *Store) Sections() store.SectionRepo         { return &sectionRepo{s} }
func (s *Store) Tables() store.TableRepo             { return &tableRepo{s} }
func (s *Store) Reservations() store.ReservationRepo { return &reservationRepo{s} }

func (s *Store) WithTx(_ context.Context, fn func(store.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.d.clone()
	if err := fn(&Store{mu: s.mu, d: s.d, inTx: true}); err != nil {
		*s.d = *snapshot
		return err
	}
	return nil
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) allocID() int64 {
	id := s.d.nextID
	s.d.nextID++
	return id
}

type sectionRepo struct{ s *Store }

func (r *sectionRepo) Create(_ context.Context, sec reservation.Section) (reservation.Section, error) {
	defer r.s.lock()()
	sec.ID = r.s.allocID()
	r.s.d.sections[sec.ID] = sec
	return sec, nil
}

func (r *sectionRepo) Get(_ context.Context, id int64) (reservation.Section, error) {
	defer r.s.lock()()
	sec, ok := r.s.d.sections[id]
	if !ok {
		return reservation.Section{}, store.ErrNotFound
	}
	return sec, nil
}

func (r *sectionRepo) GetByName(_ context.Context, name string) (reservation.Section, error) {
	defer r.s.lock()()
	for _, sec := range r.s.d.sections {
		if strings.EqualFold(sec.Name, name) {
			return sec, nil
		}
	}
	return reservation.Section{}, store.ErrNotFound
}

func (r *sectionRepo) ListActive(_ context.Context) ([]reservation.Section, error) {
	defer r.s.lock()()
	var out []reservation.Section
	for _, sec := range r.s.d.sections {
		if sec.Active {
			out = append(out, sec)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type tableRepo struct{ s *Store }

func (r *tableRepo) Create(_ context.Context, t reservation.Table) (reservation.Table, error) {
	defer r.s.lock()()
	t.ID = r.s.allocID()
	if t.CombinedWith == nil {
		t.CombinedWith = []int64{}
	}
	r.s.d.tables[t.ID] = t
	return t, nil
}

func (r *tableRepo) Get(_ context.Context, id int64) (reservation.Table, error) {
	defer r.s.lock()()
	t, ok := r.s.d.tables[id]
	if !ok {
		return reservation.Table{}, store.ErrNotFound
	}
	t.CombinedWith = append([]int64(nil), t.CombinedWith...)
	return t, nil
}

func (r *tableRepo) ListBySection(_ context.Context, sectionID int64) ([]reservation.Table, error) {
	defer r.s.lock()()
	var out []reservation.Table
	for _, t := range r.s.d.tables {
		if t.Active && t.SectionID == sectionID {
			out = append(out, t)
		}
	}
	sortTables(out)
	return out, nil
}

func (r *tableRepo) ListActive(_ context.Context) ([]reservation.Table, error) {
	defer r.s.lock()()
	var out []reservation.Table
	for _, t := range r.s.d.tables {
		if t.Active {
			out = append(out, t)
		}
	}
	sortTables(out)
	return out, nil
}

func (r *tableRepo) SetCombined(_ context.Context, ids []int64) error {
	defer r.s.lock()()
	for _, id := range ids {
		t, ok := r.s.d.tables[id]
		if !ok {
			return store.ErrNotFound
		}
		partners := make([]int64, 0, len(ids)-1)
		for _, other := range ids {
			if other != id {
				partners = append(partners, other)
			}
		}
		t.CombinedWith = partners
		r.s.d.tables[id] = t
	}
	return nil
}

func (r *tableRepo) ClearCombined(_ context.Context, ids []int64) error {
	defer r.s.lock()()
	for _, id := range ids {
		t, ok := r.s.d.tables[id]
		if !ok {
			continue
		}
		t.CombinedWith = []int64{}
		r.s.d.tables[id] = t
	}
	return nil
}

func sortTables(ts []reservation.Table) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Capacity != ts[j].Capacity {
			return ts[i].Capacity < ts[j].Capacity
		}
		return ts[i].Label < ts[j].Label
	})
}

type reservationRepo struct{ s *Store }

func (r *reservationRepo) Create(_ context.Context, res reservation.Reservation) error {
	defer r.s.lock()()
	r.s.d.reservations[res.ID] = res
	return nil
}

func (r *reservationRepo) Get(_ context.Context, id uuid.UUID) (reservation.Reservation, error) {
	defer r.s.lock()()
	res, ok := r.s.d.reservations[id]
	if !ok {
		return reservation.Reservation{}, store.ErrNotFound
	}
	res.PreOrder = append([]reservation.PreOrderItem(nil), res.PreOrder...)
	return res, nil
}

func (r *reservationRepo) ListOverlapping(_ context.Context, tableID int64, w reservation.Window, statuses []reservation.Status) ([]reservation.Reservation, error) {
	defer r.s.lock()()
	match := make(map[reservation.Status]bool, len(statuses))
	for _, s := range statuses {
		match[s] = true
	}
	var out []reservation.Reservation
	for _, res := range r.s.d.reservations {
		if res.TableID == nil || *res.TableID != tableID {
			continue
		}
		if !match[res.Status] {
			continue
		}
		if w.Contains(res.RequestedTime) {
			out = append(out, res)
		}
	}
	sortByTime(out)
	return out, nil
}

func (r *reservationRepo) ListByComboGroup(_ context.Context, group uuid.UUID) ([]reservation.Reservation, error) {
	defer r.s.lock()()
	var out []reservation.Reservation
	for _, res := range r.s.d.reservations {
		if res.ComboGroupID != nil && *res.ComboGroupID == group {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PartySize != out[j].PartySize {
			return out[i].PartySize > out[j].PartySize
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}

func (r *reservationRepo) ListUpcoming(_ context.Context, from, until time.Time) ([]reservation.Reservation, error) {
	defer r.s.lock()()
	w := reservation.Window{Start: from, End: until}
	var out []reservation.Reservation
	for _, res := range r.s.d.reservations {
		if res.Status == reservation.StatusConfirmed && w.Contains(res.RequestedTime) {
			out = append(out, res)
		}
	}
	sortByTime(out)
	return out, nil
}

func (r *reservationRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to reservation.Status) (bool, error) {
	defer r.s.lock()()
	res, ok := r.s.d.reservations[id]
	if !ok || res.Status != from {
		return false, nil
	}
	res.Status = to
	r.s.d.reservations[id] = res
	return true, nil
}

func (r *reservationRepo) UpdateTime(_ context.Context, id uuid.UUID, newTime time.Time) error {
	defer r.s.lock()()
	res, ok := r.s.d.reservations[id]
	if !ok {
		return store.ErrNotFound
	}
	res.RequestedTime = newTime
	r.s.d.reservations[id] = res
	return nil
}

func sortByTime(rs []reservation.Reservation) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].RequestedTime.Equal(rs[j].RequestedTime) {
			return rs[i].RequestedTime.Before(rs[j].RequestedTime)
		}
		return rs[i].ID.String() < rs[j].ID.String()
	})
}
