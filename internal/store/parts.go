package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/meowmeowahr/partsinventory/internal/imaging"
	"github.com/meowmeowahr/partsinventory/internal/model"
)

// CreatePart persists a new part. Fails with ErrInvalidReference if
// the named sorter or location does not exist and ErrDuplicateID if
// the id is already taken. created_at and updated_at are stamped by
// the schema defaults at insertion.
func CreatePart(ctx context.Context, db *sql.DB, p model.Part) error {
	attrs, err := p.Attrs.Encode()
	if err != nil {
		return err
	}
	if p.QuantityType == "" {
		p.QuantityType = model.DefaultQuantityType
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := rowExists(ctx, tx, "sorters", p.Sorter)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("sorter %q: %w", p.Sorter, ErrInvalidReference)
	}

	ok, err = rowExists(ctx, tx, "locations", p.Location)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("location %q: %w", p.Location, ErrInvalidReference)
	}

	taken, err := rowExists(ctx, tx, "parts", p.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("part %q: %w", p.ID, ErrDuplicateID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO parts (id, sorter, name, tags, quantity, quantity_type, enable_quantity, price, notes, location, attrs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Sorter, p.Name, p.Tags, p.Quantity, p.QuantityType, p.EnableQuantity,
		p.Price.Round(2).StringFixed(2), p.Notes, p.Location, attrs,
	)
	if err != nil {
		return fmt.Errorf("creating part: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing part: %w", err)
	}
	return nil
}

// ListParts returns all parts with attrs decoded. The raw image bytes
// are included; the transport layer strips them from list responses.
// Fail-soft like ListLocations.
func ListParts(ctx context.Context, db *sql.DB) []model.Part {
	rows, err := db.QueryContext(ctx,
		`SELECT id, sorter, name, image, image_hash, tags, quantity, quantity_type,
		        enable_quantity, price, notes, location, created_at, updated_at, attrs
		 FROM parts ORDER BY name`,
	)
	if err != nil {
		slog.Error("listing parts failed, returning empty list", "error", err)
		return []model.Part{}
	}
	defer rows.Close()

	parts := []model.Part{}
	for rows.Next() {
		var p model.Part
		var notes sql.NullString
		var price, attrs string
		err := rows.Scan(&p.ID, &p.Sorter, &p.Name, &p.Image, &p.ImageHash, &p.Tags,
			&p.Quantity, &p.QuantityType, &p.EnableQuantity, &price, &notes,
			&p.Location, &p.CreatedAt, &p.UpdatedAt, &attrs)
		if err != nil {
			slog.Error("scanning part failed, returning empty list", "error", err)
			return []model.Part{}
		}
		p.Notes = notes.String
		p.Price, err = decimal.NewFromString(price)
		if err != nil {
			// Same per-record isolation as attrs: a corrupt price
			// never fails the whole listing.
			slog.Warn("invalid stored price, defaulting to zero", "part", p.ID, "error", err)
			p.Price = decimal.Zero
		}
		p.Attrs = model.DecodeAttrs(attrs)
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		slog.Error("reading parts failed, returning empty list", "error", err)
		return []model.Part{}
	}
	return parts
}

// UpdatePart applies a partial update. New sorter or location
// references are re-validated before being written. updated_at is
// refreshed by the schema trigger. Fails with ErrNotFound if the id
// does not exist.
func UpdatePart(ctx context.Context, db *sql.DB, id string, upd model.PartUpdate) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := rowExists(ctx, tx, "parts", id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("part %q: %w", id, ErrNotFound)
	}

	var sets []string
	var args []any
	if upd.Sorter != nil {
		ok, err := rowExists(ctx, tx, "sorters", *upd.Sorter)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("sorter %q: %w", *upd.Sorter, ErrInvalidReference)
		}
		sets = append(sets, "sorter = ?")
		args = append(args, *upd.Sorter)
	}
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
	if upd.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *upd.Quantity)
	}
	if upd.QuantityType != nil {
		sets = append(sets, "quantity_type = ?")
		args = append(args, *upd.QuantityType)
	}
	if upd.EnableQuantity != nil {
		sets = append(sets, "enable_quantity = ?")
		args = append(args, *upd.EnableQuantity)
	}
	if upd.Tags != nil {
		sets = append(sets, "tags = ?")
		args = append(args, *upd.Tags)
	}
	if upd.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, upd.Price.Round(2).StringFixed(2))
	}
	if upd.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *upd.Notes)
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
			`UPDATE parts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...,
		)
		if err != nil {
			return fmt.Errorf("updating part: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing part update: %w", err)
	}
	return nil
}

// SetPartImage replaces a part's image bytes; nil clears the image.
// The stored image_hash is recomputed from the new bytes on every set
// so it can never drift from the image it describes. Fails with
// ErrNotFound if the id does not exist.
func SetPartImage(ctx context.Context, db *sql.DB, id string, image []byte) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := rowExists(ctx, tx, "parts", id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("part %q: %w", id, ErrNotFound)
	}

	var hash []byte
	if image != nil {
		hash = imaging.Hash(image)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE parts SET image = ?, image_hash = ? WHERE id = ?`,
		image, hash, id,
	)
	if err != nil {
		return fmt.Errorf("setting part image: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing part image: %w", err)
	}
	return nil
}

// DeletePart removes a part. Fails with ErrNotFound if the id does
// not exist.
func DeletePart(ctx context.Context, db *sql.DB, id string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := rowExists(ctx, tx, "parts", id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("part %q: %w", id, ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM parts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting part: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing part delete: %w", err)
	}
	return nil
}
