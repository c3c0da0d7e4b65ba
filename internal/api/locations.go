package api

import (
	"database/sql"
	"net/http"

	"github.com/meowmeowahr/partsinventory/internal/model"
	"github.com/meowmeowahr/partsinventory/internal/store"
)

// LocationsHandler handles location CRUD endpoints.
type LocationsHandler struct {
	DB *sql.DB
}

// List handles GET /locations.
func (h *LocationsHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, store.ListLocations(r.Context(), h.DB))
}

// Create handles POST /locations.
func (h *LocationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var loc model.Location
	if err := decodeJSON(r, &loc); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if loc.ID == "" || loc.Name == "" {
		jsonError(w, http.StatusBadRequest, "id and name required")
		return
	}

	if err := store.CreateLocation(r.Context(), h.DB, loc); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, loc)
}

// Get handles GET /locations/{id}. Expected cardinality is tens of
// rows, so a linear scan over the listing is fine.
func (h *LocationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	for _, loc := range store.ListLocations(r.Context(), h.DB) {
		if loc.ID == id {
			jsonResponse(w, http.StatusOK, loc)
			return
		}
	}
	jsonError(w, http.StatusNotFound, "location not found")
}

// Update handles PUT /locations/{id}. Only fields present in the body
// are changed.
func (h *LocationsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var upd model.LocationUpdate
	if err := decodeJSON(r, &upd); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateLocation(r.Context(), h.DB, id, upd); err != nil {
		storeError(w, err)
		return
	}

	for _, loc := range store.ListLocations(r.Context(), h.DB) {
		if loc.ID == id {
			jsonResponse(w, http.StatusOK, loc)
			return
		}
	}
	jsonError(w, http.StatusNotFound, "location not found")
}

// Delete handles DELETE /locations/{id}. Dependent sorters and parts
// are removed as well.
func (h *LocationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteLocation(r.Context(), h.DB, r.PathValue("id")); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "location deleted"})
}
