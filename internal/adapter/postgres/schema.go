package postgres

import (
	"context"
	"fmt"
)

// Every syncable table carries synced plus a required organization_id.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	branch_id       TEXT NOT NULL,
	name            TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS products (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	branch_id       TEXT NOT NULL,
	name            TEXT NOT NULL,
	category        TEXT NOT NULL DEFAULT '',
	price           BIGINT NOT NULL,
	stock           INTEGER NOT NULL DEFAULT 0,
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	synced          BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS shifts (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	branch_id       TEXT NOT NULL,
	user_id         TEXT NOT NULL,
	start_time      TIMESTAMPTZ NOT NULL,
	end_time        TIMESTAMPTZ,
	initial_cash    BIGINT NOT NULL,
	final_cash      BIGINT,
	expected_cash   BIGINT,
	status          TEXT NOT NULL,
	turn_type       TEXT NOT NULL,
	pending_tips    BIGINT NOT NULL DEFAULT 0,
	synced          BOOLEAN NOT NULL DEFAULT false
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_shifts_open ON shifts (user_id, branch_id) WHERE status = 'open';

CREATE TABLE IF NOT EXISTS sales (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	branch_id       TEXT NOT NULL,
	shift_id        TEXT REFERENCES shifts(id),
	order_id        TEXT,
	total           BIGINT NOT NULL,
	payment_method  TEXT NOT NULL,
	tip             BIGINT NOT NULL DEFAULT 0,
	discount        BIGINT NOT NULL DEFAULT 0,
	created_at      TIMESTAMPTZ NOT NULL,
	synced          BOOLEAN NOT NULL DEFAULT false
);
CREATE INDEX IF NOT EXISTS idx_sales_unsynced ON sales (created_at) WHERE synced = false;

CREATE TABLE IF NOT EXISTS sale_items (
	id         TEXT PRIMARY KEY,
	sale_id    TEXT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
	product_id TEXT NOT NULL,
	qty        INTEGER NOT NULL,
	unit_price BIGINT NOT NULL,
	total      BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items (sale_id);

CREATE TABLE IF NOT EXISTS orders (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	branch_id       TEXT NOT NULL,
	table_id        TEXT,
	shift_id        TEXT,
	status          TEXT NOT NULL,
	total           BIGINT NOT NULL DEFAULT 0,
	diners          INTEGER NOT NULL DEFAULT 1,
	created_at      TIMESTAMPTZ NOT NULL,
	updated_at      TIMESTAMPTZ NOT NULL,
	synced          BOOLEAN NOT NULL DEFAULT false
);

CREATE TABLE IF NOT EXISTS order_items (
	id         TEXT PRIMARY KEY,
	order_id   TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id TEXT NOT NULL,
	qty        INTEGER NOT NULL,
	unit_price BIGINT NOT NULL,
	total      BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items (order_id);

CREATE TABLE IF NOT EXISTS expenses (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	branch_id       TEXT NOT NULL,
	shift_id        TEXT NOT NULL REFERENCES shifts(id),
	description     TEXT NOT NULL,
	amount          BIGINT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL,
	synced          BOOLEAN NOT NULL DEFAULT false
);
CREATE INDEX IF NOT EXISTS idx_expenses_shift ON expenses (shift_id);

CREATE TABLE IF NOT EXISTS tip_distributions (
	id         TEXT PRIMARY KEY,
	shift_id   TEXT NOT NULL REFERENCES shifts(id),
	recipient  TEXT NOT NULL,
	amount     BIGINT NOT NULL,
	decision   TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	synced     BOOLEAN NOT NULL DEFAULT false
);
CREATE INDEX IF NOT EXISTS idx_tip_distributions_shift ON tip_distributions (shift_id);

CREATE TABLE IF NOT EXISTS stock_reservations (
	id          TEXT PRIMARY KEY,
	product_id  TEXT NOT NULL,
	qty         INTEGER NOT NULL,
	source_type TEXT NOT NULL,
	source_id   TEXT NOT NULL,
	status      TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reservations_source ON stock_reservations (source_type, source_id);
CREATE INDEX IF NOT EXISTS idx_reservations_product ON stock_reservations (product_id);

CREATE TABLE IF NOT EXISTS tables (
	id              TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	branch_id       TEXT NOT NULL,
	name            TEXT NOT NULL,
	status          TEXT NOT NULL,
	synced          BOOLEAN NOT NULL DEFAULT false
);
`

// EnsureSchema creates the terminal's local tables on first start.
func EnsureSchema(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
