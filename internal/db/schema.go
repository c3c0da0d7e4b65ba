package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Timestamps use millisecond
// precision so updated_at comparisons work for mutations within the
// same second. Deletes cascade down the location → sorter → part
// hierarchy.
const schema = `
CREATE TABLE IF NOT EXISTS locations (
    id    TEXT PRIMARY KEY,
    name  TEXT NOT NULL,
    icon  TEXT NOT NULL,
    tags  TEXT,
    attrs TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS sorters (
    id       TEXT PRIMARY KEY,
    location TEXT NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
    name     TEXT NOT NULL,
    icon     TEXT NOT NULL,
    tags     TEXT,
    attrs    TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_sorters_location ON sorters(location);

CREATE TABLE IF NOT EXISTS parts (
    id              TEXT PRIMARY KEY,
    sorter          TEXT NOT NULL REFERENCES sorters(id) ON DELETE CASCADE,
    name            TEXT NOT NULL,
    image           BLOB,
    image_hash      BLOB,
    tags            TEXT NOT NULL DEFAULT '',
    quantity        INTEGER NOT NULL,
    quantity_type   TEXT NOT NULL DEFAULT 'pcs',
    enable_quantity INTEGER NOT NULL DEFAULT 1,
    price           TEXT NOT NULL DEFAULT '0.00',
    notes           TEXT,
    location        TEXT NOT NULL REFERENCES locations(id) ON DELETE CASCADE,
    created_at      DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now')),
    updated_at      DATETIME NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now')),
    attrs           TEXT NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_parts_sorter   ON parts(sorter);
CREATE INDEX IF NOT EXISTS idx_parts_location ON parts(location);

CREATE TRIGGER IF NOT EXISTS trg_parts_updated_at
AFTER UPDATE ON parts
FOR EACH ROW
WHEN NEW.updated_at = OLD.updated_at
BEGIN
    UPDATE parts SET updated_at = strftime('%Y-%m-%d %H:%M:%f', 'now') WHERE id = NEW.id;
END;
`

// EnsureSchema creates all tables, indexes and triggers if they don't
// already exist. Safe to run against an already-initialized database.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
