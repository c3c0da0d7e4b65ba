package model

// Location represents a top-level physical storage area (e.g. a room
// or a shelf unit).
type Location struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Tags  string `json:"tags"`
	Attrs Attrs  `json:"attrs"`
}

// LocationUpdate describes a partial update of a location. Nil fields
// keep their current values.
type LocationUpdate struct {
	Name  *string `json:"name"`
	Icon  *string `json:"icon"`
	Tags  *string `json:"tags"`
	Attrs *Attrs  `json:"attrs"`
}
