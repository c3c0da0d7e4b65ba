package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meowmeowahr/partsinventory/internal/db"
	"github.com/meowmeowahr/partsinventory/internal/imaging"
	"github.com/meowmeowahr/partsinventory/internal/model"
)

func newSorter(t *testing.T, database *sql.DB, id, location string) {
	t.Helper()
	newLocation(t, database, location)
	err := CreateSorter(context.Background(), database, model.Sorter{
		ID: id, Location: location, Name: "Sorter " + id, Icon: "bin", Attrs: model.Attrs{},
	})
	if err != nil {
		t.Fatalf("CreateSorter(%s): %v", id, err)
	}
}

func TestCreateAndListPart(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	newSorter(t, database, "srt1", "loc1")

	part := model.Part{
		ID:             "p1",
		Sorter:         "srt1",
		Name:           "Bolt",
		Quantity:       10,
		QuantityType:   "pcs",
		EnableQuantity: true,
		Price:          decimal.RequireFromString("0.05"),
		Location:       "loc1",
		Attrs:          model.Attrs{"size": "M4"},
	}
	if err := CreatePart(ctx, database, part); err != nil {
		t.Fatalf("CreatePart: %v", err)
	}

	parts := ListParts(ctx, database)
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	got := parts[0]
	if got.Quantity != 10 {
		t.Errorf("expected quantity 10, got %d", got.Quantity)
	}
	if !reflect.DeepEqual(got.Attrs, model.Attrs{"size": "M4"}) {
		t.Errorf("attrs mismatch: %#v", got.Attrs)
	}
	if !got.Price.Equal(decimal.RequireFromString("0.05")) {
		t.Errorf("expected price 0.05, got %s", got.Price)
	}
	if !got.EnableQuantity {
		t.Error("expected enable_quantity true")
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be stamped at insertion")
	}
}

func TestCreatePartDefaults(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	newSorter(t, database, "srt1", "loc1")

	// Quantity type and price left unset.
	err := CreatePart(ctx, database, model.Part{
		ID: "p1", Sorter: "srt1", Name: "Washer", Quantity: 3, Location: "loc1", Attrs: model.Attrs{},
	})
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}

	got := ListParts(ctx, database)[0]
	if got.QuantityType != model.DefaultQuantityType {
		t.Errorf("expected quantity_type %q, got %q", model.DefaultQuantityType, got.QuantityType)
	}
	if !got.Price.IsZero() {
		t.Errorf("expected zero price, got %s", got.Price)
	}
}

func TestCreatePartInvalidSorter(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	newLocation(t, database, "loc1")

	err := CreatePart(ctx, database, model.Part{
		ID: "p1", Sorter: "nonexistent", Name: "Bolt", Quantity: 10, Location: "loc1", Attrs: model.Attrs{},
	})
	if !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
	if got := ListParts(ctx, database); len(got) != 0 {
		t.Errorf("part count changed by failed create: %d", len(got))
	}
}

func TestCreatePartDuplicateID(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	newSorter(t, database, "srt1", "loc1")

	CreatePart(ctx, database, model.Part{ID: "p1", Sorter: "srt1", Name: "Bolt", Quantity: 1, Location: "loc1", Attrs: model.Attrs{}})

	err := CreatePart(ctx, database, model.Part{ID: "p1", Sorter: "srt1", Name: "Nut", Quantity: 2, Location: "loc1", Attrs: model.Attrs{}})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
	if got := ListParts(ctx, database); len(got) != 1 || got[0].Name != "Bolt" {
		t.Errorf("prior record changed by failed create: %+v", got)
	}
}

func TestUpdatePartPartialAndTimestamp(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	newSorter(t, database, "srt1", "loc1")

	CreatePart(ctx, database, model.Part{
		ID: "p1", Sorter: "srt1", Name: "Bolt", Quantity: 10, Location: "loc1", Attrs: model.Attrs{},
	})
	before := ListParts(ctx, database)[0].UpdatedAt

	// Timestamps have millisecond precision; make sure the clock moves.
	time.Sleep(20 * time.Millisecond)

	quantity := 5
	if err := UpdatePart(ctx, database, "p1", model.PartUpdate{Quantity: &quantity}); err != nil {
		t.Fatalf("UpdatePart: %v", err)
	}

	got := ListParts(ctx, database)[0]
	if got.Quantity != 5 {
		t.Errorf("expected quantity 5, got %d", got.Quantity)
	}
	if got.Name != "Bolt" {
		t.Errorf("name changed by partial update: %q", got.Name)
	}
	if !got.UpdatedAt.After(before) {
		t.Errorf("expected updated_at to advance: before %v, after %v", before, got.UpdatedAt)
	}
}

func TestUpdatePartRevalidatesReferences(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	newSorter(t, database, "srt1", "loc1")

	CreatePart(ctx, database, model.Part{
		ID: "p1", Sorter: "srt1", Name: "Bolt", Quantity: 10, Location: "loc1", Attrs: model.Attrs{},
	})

	badSorter := "nowhere"
	if err := UpdatePart(ctx, database, "p1", model.PartUpdate{Sorter: &badSorter}); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference for sorter, got %v", err)
	}
	badLocation := "nowhere"
	if err := UpdatePart(ctx, database, "p1", model.PartUpdate{Location: &badLocation}); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("expected ErrInvalidReference for location, got %v", err)
	}
}

func TestUpdatePartNotFound(t *testing.T) {
	database := db.NewTestDB(t)

	quantity := 1
	err := UpdatePart(context.Background(), database, "missing", model.PartUpdate{Quantity: &quantity})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetPartImageComputesHash(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	newSorter(t, database, "srt1", "loc1")

	CreatePart(ctx, database, model.Part{
		ID: "p1", Sorter: "srt1", Name: "Bolt", Quantity: 1, Location: "loc1", Attrs: model.Attrs{},
	})

	image := []byte("fake image bytes")
	if err := SetPartImage(ctx, database, "p1", image); err != nil {
		t.Fatalf("SetPartImage: %v", err)
	}

	got := ListParts(ctx, database)[0]
	if !bytes.Equal(got.Image, image) {
		t.Errorf("image mismatch: %q", got.Image)
	}
	if !bytes.Equal(got.ImageHash, imaging.Hash(image)) {
		t.Errorf("expected image_hash to be the content digest of the stored bytes")
	}

	// Clearing the image clears the hash with it.
	if err := SetPartImage(ctx, database, "p1", nil); err != nil {
		t.Fatalf("SetPartImage(nil): %v", err)
	}
	got = ListParts(ctx, database)[0]
	if got.Image != nil || got.ImageHash != nil {
		t.Errorf("expected image and hash cleared, got %d/%d bytes", len(got.Image), len(got.ImageHash))
	}
}

func TestSetPartImageNotFound(t *testing.T) {
	database := db.NewTestDB(t)

	err := SetPartImage(context.Background(), database, "missing", []byte("x"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePartNotFound(t *testing.T) {
	database := db.NewTestDB(t)

	if err := DeletePart(context.Background(), database, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeletePart(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	newSorter(t, database, "srt1", "loc1")

	CreatePart(ctx, database, model.Part{ID: "p1", Sorter: "srt1", Name: "Bolt", Quantity: 1, Location: "loc1", Attrs: model.Attrs{}})

	if err := DeletePart(ctx, database, "p1"); err != nil {
		t.Fatalf("DeletePart: %v", err)
	}
	if got := ListParts(ctx, database); len(got) != 0 {
		t.Errorf("expected 0 parts, got %d", len(got))
	}
}
