package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultQuantityType is the unit label used when a part doesn't
// specify one.
const DefaultQuantityType = "pcs"

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Part is an individual inventory item assigned to a sorter. Location
// is a denormalized reference to the sorter's location, kept on the
// part itself so clients can filter without a join.
type Part struct {
	ID             string          `json:"id"`
	Sorter         string          `json:"sorter"`
	Name           string          `json:"name"`
	Image          []byte          `json:"image,omitempty"`
	ImageHash      []byte          `json:"image_hash,omitempty"`
	Tags           string          `json:"tags"`
	Quantity       int             `json:"quantity"`
	QuantityType   string          `json:"quantity_type"`
	EnableQuantity bool            `json:"enable_quantity"`
	Price          decimal.Decimal `json:"price"`
	Notes          string          `json:"notes"`
	Location       string          `json:"location"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Attrs          Attrs           `json:"attrs"`
}

// PartUpdate describes a partial update of a part. Nil fields keep
// their current values.
type PartUpdate struct {
	Sorter         *string          `json:"sorter"`
	Name           *string          `json:"name"`
	Quantity       *int             `json:"quantity"`
	QuantityType   *string          `json:"quantity_type"`
	EnableQuantity *bool            `json:"enable_quantity"`
	Tags           *string          `json:"tags"`
	Price          *decimal.Decimal `json:"price"`
	Notes          *string          `json:"notes"`
	Location       *string          `json:"location"`
	Attrs          *Attrs           `json:"attrs"`
}
