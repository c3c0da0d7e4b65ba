package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/meowmeowahr/partsinventory/internal/model"
)

// CreateLocation persists a new location. Fails with ErrDuplicateID if
// the id is already taken, leaving existing rows untouched.
func CreateLocation(ctx context.Context, db *sql.DB, loc model.Location) error {
	attrs, err := loc.Attrs.Encode()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	taken, err := rowExists(ctx, tx, "locations", loc.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("location %q: %w", loc.ID, ErrDuplicateID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO locations (id, name, icon, tags, attrs) VALUES (?, ?, ?, ?, ?)`,
		loc.ID, loc.Name, loc.Icon, loc.Tags, attrs,
	)
	if err != nil {
		return fmt.Errorf("creating location: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing location: %w", err)
	}
	return nil
}

// ListLocations returns all locations with attrs decoded. Reads are
// fail-soft: a storage failure is logged and an empty slice returned,
// so callers cannot tell "no locations" from "read failed".
func ListLocations(ctx context.Context, db *sql.DB) []model.Location {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, icon, tags, attrs FROM locations ORDER BY name`,
	)
	if err != nil {
		slog.Error("listing locations failed, returning empty list", "error", err)
		return []model.Location{}
	}
	defer rows.Close()

	locations := []model.Location{}
	for rows.Next() {
		var loc model.Location
		var tags sql.NullString
		var attrs string
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Icon, &tags, &attrs); err != nil {
			slog.Error("scanning location failed, returning empty list", "error", err)
			return []model.Location{}
		}
		loc.Tags = tags.String
		loc.Attrs = model.DecodeAttrs(attrs)
		locations = append(locations, loc)
	}
	if err := rows.Err(); err != nil {
		slog.Error("reading locations failed, returning empty list", "error", err)
		return []model.Location{}
	}
	return locations
}

// UpdateLocation applies a partial update: only non-nil fields are
// written, the rest keep their prior values. Fails with ErrNotFound if
// the id does not exist.
func UpdateLocation(ctx context.Context, db *sql.DB, id string, upd model.LocationUpdate) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := rowExists(ctx, tx, "locations", id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("location %q: %w", id, ErrNotFound)
	}

	var sets []string
	var args []any
	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Icon != nil {
		sets = append(sets, "icon = ?")
		args = append(args, *upd.Icon)
	}
	if upd.Tags != nil {
		sets = append(sets, "tags = ?")
		args = append(args, *upd.Tags)
	}
	if upd.Attrs != nil {
		attrs, err := upd.Attrs.Encode()
		if err != nil {
			return err
		}
		sets = append(sets, "attrs = ?")
		args = append(args, attrs)
	}

	if len(sets) > 0 {
		args = append(args, id)
		_, err = tx.ExecContext(ctx,
			`UPDATE locations SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
		)
		if err != nil {
			return fmt.Errorf("updating location: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing location update: %w", err)
	}
	return nil
}

// DeleteLocation removes a location. Dependent sorters and parts are
// removed by the schema's cascading foreign keys. Fails with
// ErrNotFound if the id does not exist.
func DeleteLocation(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := rowExists(ctx, tx, "locations", id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("location %q: %w", id, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM locations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting location: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing location delete: %w", err)
	}
	return nil
}
