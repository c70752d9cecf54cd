package postgres

import (
	"context"

	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/domain/reservation"
)

type tableRepo struct{ q db.Querier }

func (r *tableRepo) Create(ctx context.Context, t reservation.Table) (reservation.Table, error) {
	if t.CombinedWith == nil {
		t.CombinedWith = []int64{}
	}
	err := r.q.QueryRow(ctx, `
INSERT INTO tables(label, capacity, section_id, active, combined_with)
VALUES ($1,$2,$3,$4,$5)
RETURNING id`,
		t.Label, t.Capacity, t.SectionID, t.Active, t.CombinedWith,
	).Scan(&t.ID)
	if err != nil {
		return reservation.Table{}, db.WrapNotFound(err)
	}
	return t, nil
}

func (r *tableRepo) Get(ctx context.Context, id int64) (reservation.Table, error) {
	row := r.q.QueryRow(ctx, `
SELECT id, label, capacity, section_id, active, combined_with FROM tables WHERE id=$1`, id)
	var t reservation.Table
	if err := row.Scan(&t.ID, &t.Label, &t.Capacity, &t.SectionID, &t.Active, &t.CombinedWith); err != nil {
		return reservation.Table{}, db.WrapNotFound(err)
	}
	return t, nil
}

func (r *tableRepo) ListBySection(ctx context.Context, sectionID int64) ([]reservation.Table, error) {
	return r.list(ctx, `
SELECT id, label, capacity, section_id, active, combined_with
FROM tables
WHERE active AND section_id=$1
ORDER BY capacity ASC, label ASC`, sectionID)
}

func (r *tableRepo) ListActive(ctx context.Context) ([]reservation.Table, error) {
	return r.list(ctx, `
SELECT id, label, capacity, section_id, active, combined_with
FROM tables
WHERE active
ORDER BY section_id ASC, capacity ASC, label ASC`)
}

func (r *tableRepo) SetCombined(ctx context.Context, ids []int64) error {
	for _, id := range ids {
		partners := make([]int64, 0, len(ids)-1)
		for _, other := range ids {
			if other != id {
				partners = append(partners, other)
			}
		}
		if _, err := r.q.Exec(ctx, `UPDATE tables SET combined_with=$2 WHERE id=$1`, id, partners); err != nil {
			return err
		}
	}
	return nil
}

func (r *tableRepo) ClearCombined(ctx context.Context, ids []int64) error {
	_, err := r.q.Exec(ctx, `UPDATE tables SET combined_with='{}' WHERE id = ANY($1)`, ids)
	return err
}

func (r *tableRepo) list(ctx context.Context, sql string, args ...any) ([]reservation.Table, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []reservation.Table
	for rows.Next() {
		var t reservation.Table
		if err := rows.Scan(&t.ID, &t.Label, &t.Capacity, &t.SectionID, &t.Active, &t.CombinedWith); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
