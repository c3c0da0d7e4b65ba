package model

// Sorter represents a storage unit within a location (e.g. a drawer
// cabinet). Its Location field must reference an existing Location.
type Sorter struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	Tags     string `json:"tags"`
	Attrs    Attrs  `json:"attrs"`
}

// SorterUpdate describes a partial update of a sorter. Nil fields keep
// their current values.
type SorterUpdate struct {
	Location *string `json:"location"`
	Name     *string `json:"name"`
	Icon     *string `json:"icon"`
	Tags     *string `json:"tags"`
	Attrs    *Attrs  `json:"attrs"`
}
