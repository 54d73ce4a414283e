package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist. Dates are stored as ISO
// calendar strings and periods as canonical year-month keys so stored
// snapshots round-trip losslessly.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS groups (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    member_capacity INTEGER NOT NULL,
    monthly_amount REAL NOT NULL,
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    total_pool REAL NOT NULL,
    status TEXT NOT NULL,
    invitation_code TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS members (
    group_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    display_name TEXT NOT NULL,
    is_admin INTEGER NOT NULL,
    status TEXT NOT NULL,
    rotation_order INTEGER NOT NULL,
    payout_period TEXT NOT NULL,
    payment_state TEXT NOT NULL,
    total_paid REAL NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (group_id, user_id),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS obligations (
    group_id TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    counterparty_id TEXT NOT NULL,
    counterparty_name TEXT NOT NULL,
    period TEXT NOT NULL,
    state TEXT NOT NULL,
    PRIMARY KEY (group_id, owner_id, counterparty_id, period),
    FOREIGN KEY (group_id) REFERENCES groups(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_members_user_id ON members(user_id);
CREATE INDEX IF NOT EXISTS idx_members_group_id ON members(group_id);
CREATE INDEX IF NOT EXISTS idx_obligations_group_owner ON obligations(group_id, owner_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
