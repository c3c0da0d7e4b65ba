package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/meowmeowahr/partsinventory/internal/model"
)

// CreateSorter persists a new sorter. Fails with ErrInvalidReference
// if the named location does not exist and ErrDuplicateID if the id is
// already taken. Validation and insert run in one transaction so a
// concurrent location delete cannot slip between them.
func CreateSorter(ctx context.Context, db *sql.DB, s model.Sorter) error {
	attrs, err := s.Attrs.Encode()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := rowExists(ctx, tx, "locations", s.Location)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("location %q: %w", s.Location, ErrInvalidReference)
	}

	taken, err := rowExists(ctx, tx, "sorters", s.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("sorter %q: %w", s.ID, ErrDuplicateID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO sorters (id, location, name, icon, tags, attrs) VALUES (?, ?, ?, ?, ?, ?)`,
		s.ID, s.Location, s.Name, s.Icon, s.Tags, attrs,
	)
	if err != nil {
		return fmt.Errorf("creating sorter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sorter: %w", err)
	}
	return nil
}

// ListSorters returns all sorters with attrs decoded. Fail-soft like
// ListLocations.
func ListSorters(ctx context.Context, db *sql.DB) []model.Sorter {
	rows, err := db.QueryContext(ctx,
		`SELECT id, location, name, icon, tags, attrs FROM sorters ORDER BY name`,
	)
	if err != nil {
		slog.Error("listing sorters failed, returning empty list", "error", err)
		return []model.Sorter{}
	}
	defer rows.Close()

	sorters := []model.Sorter{}
	for rows.Next() {
		var s model.Sorter
		var tags sql.NullString
		var attrs string
		if err := rows.Scan(&s.ID, &s.Location, &s.Name, &s.Icon, &tags, &attrs); err != nil {
			slog.Error("scanning sorter failed, returning empty list", "error", err)
			return []model.Sorter{}
		}
		s.Tags = tags.String
		s.Attrs = model.DecodeAttrs(attrs)
		sorters = append(sorters, s)
	}
	if err := rows.Err(); err != nil {
		slog.Error("reading sorters failed, returning empty list", "error", err)
		return []model.Sorter{}
	}
	return sorters
}

// UpdateSorter applies a partial update. A new location reference is
// re-validated before it is written. Fails with ErrNotFound if the id
// does not exist.
func UpdateSorter(ctx context.Context, db *sql.DB, id string, upd model.SorterUpdate) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := rowExists(ctx, tx, "sorters", id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("sorter %q: %w", id, ErrNotFound)
	}

	var sets []string
	var args []any
	if upd.Location != nil {
		ok, err := rowExists(ctx, tx, "locations", *upd.Location)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("location %q: %w", *upd.Location, ErrInvalidReference)
		}
		sets = append(sets, "location = ?")
		args = append(args, *upd.Location)
	}
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
			`UPDATE sorters SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
		)
		if err != nil {
			return fmt.Errorf("updating sorter: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sorter update: %w", err)
	}
	return nil
}

// DeleteSorter removes a sorter and, via cascading foreign keys, its
// parts. Fails with ErrNotFound if the id does not exist.
func DeleteSorter(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := rowExists(ctx, tx, "sorters", id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("sorter %q: %w", id, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sorters WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting sorter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sorter delete: %w", err)
	}
	return nil
}
