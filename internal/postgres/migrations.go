package postgres

import (
	"context"

	"github.com/example/tablebook/internal/db"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sections (
	id BIGSERIAL PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	priority INT NOT NULL,
	can_combine_tables BOOLEAN NOT NULL DEFAULT FALSE,
	active BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS tables (
	id BIGSERIAL PRIMARY KEY,
	label TEXT NOT NULL,
	capacity INT NOT NULL CHECK (capacity > 0),
	section_id BIGINT NOT NULL REFERENCES sections(id),
	active BOOLEAN NOT NULL DEFAULT TRUE,
	combined_with BIGINT[] NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS reservations (
	id TEXT PRIMARY KEY,
	customer_name TEXT NOT NULL,
	customer_email TEXT NOT NULL DEFAULT '',
	customer_phone TEXT NOT NULL DEFAULT '',
	party_size INT NOT NULL CHECK (party_size > 0),
	requested_time TIMESTAMPTZ NOT NULL,
	section_preference TEXT NOT NULL DEFAULT '',
	table_id BIGINT REFERENCES tables(id),
	status TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	notes TEXT NOT NULL DEFAULT '',
	combo_group_id TEXT
);

CREATE TABLE IF NOT EXISTS reservation_items (
	id BIGSERIAL PRIMARY KEY,
	reservation_id TEXT NOT NULL REFERENCES reservations(id) ON DELETE CASCADE,
	menu_item_id BIGINT NOT NULL,
	quantity INT NOT NULL DEFAULT 1
);

CREATE INDEX IF NOT EXISTS idx_tables_section ON tables(section_id);
CREATE INDEX IF NOT EXISTS idx_reservations_table_time
	ON reservations(table_id, requested_time) WHERE status IN ('confirmed','pending');
CREATE INDEX IF NOT EXISTS idx_reservations_combo_group ON reservations(combo_group_id);
`

func Migrate(ctx context.Context, d *db.DB) error {
	_, err := d.Pool().Exec(ctx, schemaSQL)
	return err
}
