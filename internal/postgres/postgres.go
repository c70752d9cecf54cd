// Package postgres implements the store interfaces over PostgreSQL. All
// writes that must be atomic with a conflict re-check run through WithTx,
// which opens a serializable transaction: two concurrent bookings that both
// pass the free check cannot both commit.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/store"
)

type Store struct {
	d *db.DB     // nil inside a transaction
	q db.Querier // pool or active tx
}

func NewStore(d *db.DB) *Store {
	return &Store{d: d, q: d.Pool()}
}

func (s *Store) Sections() store.SectionRepo         { return &sectionRepo{q: s.q} }
func (s *Store) Tables() store.TableRepo             { return &tableRepo{q: s.q} }
func (s *Store) Reservations() store.ReservationRepo { return &reservationRepo{q: s.q} }

func (s *Store) WithTx(ctx context.Context, fn func(store.Store) error) error {
	if s.d == nil {
		// already transactional, run in place
		return fn(s)
	}
	err := pgx.BeginTxFunc(ctx, s.d.Pool(), pgx.TxOptions{IsoLevel: pgx.Serializable}, func(tx pgx.Tx) error {
		return fn(&Store{q: tx})
	})
	if isSerializationFailure(err) {
		return store.ErrConflict
	}
	return err
}

// isSerializationFailure detects SQLSTATE 40001: the serializable
// transaction lost against a concurrent one and was aborted at commit.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "40001"
}
