package postgres

import (
	"context"

	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/domain/reservation"
)

type sectionRepo struct{ q db.Querier }

func (r *sectionRepo) Create(ctx context.Context, s reservation.Section) (reservation.Section, error) {
	err := r.q.QueryRow(ctx, `
INSERT INTO sections(name, priority, can_combine_tables, active)
VALUES ($1,$2,$3,$4)
RETURNING id`,
		s.Name, s.Priority, s.CanCombineTables, s.Active,
	).Scan(&s.ID)
	if err != nil {
		return reservation.Section{}, db.WrapNotFound(err)
	}
	return s, nil
}

func (r *sectionRepo) Get(ctx context.Context, id int64) (reservation.Section, error) {
	row := r.q.QueryRow(ctx, `
SELECT id, name, priority, can_combine_tables, active FROM sections WHERE id=$1`, id)
	return scanSection(row)
}

func (r *sectionRepo) GetByName(ctx context.Context, name string) (reservation.Section, error) {
	row := r.q.QueryRow(ctx, `
SELECT id, name, priority, can_combine_tables, active FROM sections WHERE lower(name)=lower($1)`, name)
	return scanSection(row)
}

func (r *sectionRepo) ListActive(ctx context.Context) ([]reservation.Section, error) {
	rows, err := r.q.Query(ctx, `
SELECT id, name, priority, can_combine_tables, active
FROM sections
WHERE active
ORDER BY priority ASC, name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []reservation.Section
	for rows.Next() {
		var s reservation.Section
		if err := rows.Scan(&s.ID, &s.Name, &s.Priority, &s.CanCombineTables, &s.Active); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSection(row interface{ Scan(dest ...any) error }) (reservation.Section, error) {
	var s reservation.Section
	if err := row.Scan(&s.ID, &s.Name, &s.Priority, &s.CanCombineTables, &s.Active); err != nil {
		return reservation.Section{}, db.WrapNotFound(err)
	}
	return s, nil
}
