package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Data-layer error taxonomy. Handlers match these with errors.Is to
// pick response codes.
var (
	// ErrDuplicateID means a create collided with an existing id.
	ErrDuplicateID = errors.New("identifier already exists")

	// ErrInvalidReference means a sorter or part names a parent id
	// that does not exist.
	ErrInvalidReference = errors.New("referenced parent does not exist")

	// ErrNotFound means an update or delete targeted a missing entity.
	ErrNotFound = errors.New("not found")
)

// rowExists reports whether table has a row with the given id. It runs
// inside the caller's transaction so validate-then-write stays atomic.
// The table name is always a compile-time constant, never user input.
func rowExists(ctx context.Context, tx *sql.Tx, table, id string) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s id: %w", table, err)
	}
	return true, nil
}
