package sqlite

import "database/sql"

// migrations contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Money columns are TEXT holding normalized decimal strings; REAL would
// reintroduce the floating-point drift the money package exists to prevent.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    paypal_email TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS households (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_by TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS household_members (
    household_id TEXT NOT NULL,
    user_id TEXT NOT NULL,
    PRIMARY KEY (household_id, user_id),
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS shopping_items (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    name TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    cost TEXT NOT NULL DEFAULT '0',
    added_by TEXT NOT NULL,
    purchased INTEGER NOT NULL DEFAULT 0,
    split INTEGER NOT NULL DEFAULT 0,
    pinned INTEGER NOT NULL DEFAULT 0,
    added_at INTEGER NOT NULL,
    purchased_at INTEGER,
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS debt_records (
    id TEXT PRIMARY KEY,
    household_id TEXT NOT NULL,
    owed_by TEXT NOT NULL,
    owed_to TEXT NOT NULL,
    amount TEXT NOT NULL,
    repayment_amount TEXT NOT NULL DEFAULT '0',
    status TEXT NOT NULL DEFAULT 'active',
    created_at INTEGER NOT NULL,
    last_updated INTEGER NOT NULL,
    CHECK (owed_by <> owed_to),
    FOREIGN KEY (household_id) REFERENCES households(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS debt_record_items (
    debt_record_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    cost TEXT NOT NULL,
    PRIMARY KEY (debt_record_id, position),
    FOREIGN KEY (debt_record_id) REFERENCES debt_records(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS repayments (
    id TEXT PRIMARY KEY,
    debt_record_id TEXT NOT NULL,
    amount TEXT NOT NULL,
    method TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (debt_record_id) REFERENCES debt_records(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_household_members_user_id ON household_members(user_id);
CREATE INDEX IF NOT EXISTS idx_shopping_items_household_id ON shopping_items(household_id);
CREATE INDEX IF NOT EXISTS idx_debt_records_household_id ON debt_records(household_id);
CREATE INDEX IF NOT EXISTS idx_debt_records_pair ON debt_records(household_id, owed_by, owed_to);
CREATE INDEX IF NOT EXISTS idx_repayments_debt_record_id ON repayments(debt_record_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
