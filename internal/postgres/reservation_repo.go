package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/example/tablebook/internal/db"
	"github.com/example/tablebook/internal/domain/reservation"
	"github.com/example/tablebook/internal/store"
)

type reservationRepo struct{ q db.Querier }

const reservationCols = `id, customer_name, customer_email, customer_phone, party_size,
requested_time, section_preference, table_id, status, created_at, notes, combo_group_id`

func (r *reservationRepo) Create(ctx context.Context, res reservation.Reservation) error {
	var comboGroup *string
	if res.ComboGroupID != nil {
		s := res.ComboGroupID.String()
		comboGroup = &s
	}
	_, err := r.q.Exec(ctx, `
INSERT INTO reservations(id, customer_name, customer_email, customer_phone, party_size,
	requested_time, section_preference, table_id, status, created_at, notes, combo_group_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		res.ID.String(), res.CustomerName, res.CustomerEmail, res.CustomerPhone, res.PartySize,
		res.RequestedTime, res.SectionPreference, res.TableID, string(res.Status), res.CreatedAt,
		res.Notes, comboGroup,
	)
	if err != nil {
		return err
	}
	for _, it := range res.PreOrder {
		if _, err := r.q.Exec(ctx, `
INSERT INTO reservation_items(reservation_id, menu_item_id, quantity) VALUES ($1,$2,$3)`,
			res.ID.String(), it.MenuItemID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (r *reservationRepo) Get(ctx context.Context, id uuid.UUID) (reservation.Reservation, error) {
	row := r.q.QueryRow(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id=$1`, id.String())
	res, err := scanReservation(row)
	if err != nil {
		return reservation.Reservation{}, err
	}
	res.PreOrder, err = r.items(ctx, id)
	if err != nil {
		return reservation.Reservation{}, err
	}
	return res, nil
}

func (r *reservationRepo) ListOverlapping(ctx context.Context, tableID int64, w reservation.Window, statuses []reservation.Status) ([]reservation.Reservation, error) {
	ss := make([]string, len(statuses))
	for i, s := range statuses {
		ss[i] = string(s)
	}
	return r.list(ctx, `
SELECT `+reservationCols+`
FROM reservations
WHERE table_id=$1 AND status = ANY($2) AND requested_time >= $3 AND requested_time <= $4
ORDER BY requested_time ASC`, tableID, ss, w.Start, w.End)
}

func (r *reservationRepo) ListByComboGroup(ctx context.Context, group uuid.UUID) ([]reservation.Reservation, error) {
	return r.list(ctx, `
SELECT `+reservationCols+`
FROM reservations
WHERE combo_group_id=$1
ORDER BY party_size DESC, id ASC`, group.String())
}

func (r *reservationRepo) ListUpcoming(ctx context.Context, from, until time.Time) ([]reservation.Reservation, error) {
	return r.list(ctx, `
SELECT `+reservationCols+`
FROM reservations
WHERE status=$1 AND requested_time >= $2 AND requested_time <= $3
ORDER BY requested_time ASC`, string(reservation.StatusConfirmed), from, until)
}

func (r *reservationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to reservation.Status) (bool, error) {
	tag, err := r.q.Exec(ctx, `
UPDATE reservations SET status=$3 WHERE id=$1 AND status=$2`,
		id.String(), string(from), string(to))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *reservationRepo) UpdateTime(ctx context.Context, id uuid.UUID, newTime time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE reservations SET requested_time=$2 WHERE id=$1`, id.String(), newTime)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *reservationRepo) items(ctx context.Context, id uuid.UUID) ([]reservation.PreOrderItem, error) {
	rows, err := r.q.Query(ctx, `
SELECT menu_item_id, quantity FROM reservation_items WHERE reservation_id=$1 ORDER BY id ASC`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []reservation.PreOrderItem
	for rows.Next() {
		var it reservation.PreOrderItem
		if err := rows.Scan(&it.MenuItemID, &it.Quantity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *reservationRepo) list(ctx context.Context, sql string, args ...any) ([]reservation.Reservation, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []reservation.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func scanReservation(row interface{ Scan(dest ...any) error }) (reservation.Reservation, error) {
	var (
		res        reservation.Reservation
		id         string
		status     string
		comboGroup *string
	)
	if err := row.Scan(
		&id, &res.CustomerName, &res.CustomerEmail, &res.CustomerPhone, &res.PartySize,
		&res.RequestedTime, &res.SectionPreference, &res.TableID, &status, &res.CreatedAt,
		&res.Notes, &comboGroup,
	); err != nil {
		return reservation.Reservation{}, db.WrapNotFound(err)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return reservation.Reservation{}, err
	}
	res.ID = parsed
	res.Status = reservation.Status(status)
	if comboGroup != nil {
		g, err := uuid.Parse(*comboGroup)
		if err != nil {
			return reservation.Reservation{}, err
		}
		res.ComboGroupID = &g
	}
	return res, nil
}
