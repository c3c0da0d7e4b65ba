package api

import (
	"database/sql"
	"net/http"

	"github.com/meowmeowahr/partsinventory/internal/model"
	"github.com/meowmeowahr/partsinventory/internal/store"
)

// SortersHandler handles sorter CRUD endpoints.
type SortersHandler struct {
	DB *sql.DB
}

// List handles GET /sorters.
func (h *SortersHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, store.ListSorters(r.Context(), h.DB))
}

// Create handles POST /sorters.
func (h *SortersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var s model.Sorter
	if err := decodeJSON(r, &s); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if s.ID == "" || s.Name == "" || s.Location == "" {
		jsonError(w, http.StatusBadRequest, "id, name and location required")
		return
	}

	if err := store.CreateSorter(r.Context(), h.DB, s); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, s)
}

// Get handles GET /sorters/{id}.
func (h *SortersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	for _, s := range store.ListSorters(r.Context(), h.DB) {
		if s.ID == id {
			jsonResponse(w, http.StatusOK, s)
			return
		}
	}
	jsonError(w, http.StatusNotFound, "sorter not found")
}

// Update handles PUT /sorters/{id}. Only fields present in the body
// are changed; a new location is validated to exist.
func (h *SortersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var upd model.SorterUpdate
	if err := decodeJSON(r, &upd); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdateSorter(r.Context(), h.DB, id, upd); err != nil {
		storeError(w, err)
		return
	}

	for _, s := range store.ListSorters(r.Context(), h.DB) {
		if s.ID == id {
			jsonResponse(w, http.StatusOK, s)
			return
		}
	}
	jsonError(w, http.StatusNotFound, "sorter not found")
}

// Delete handles DELETE /sorters/{id}. Parts in the sorter are removed
// as well.
func (h *SortersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteSorter(r.Context(), h.DB, r.PathValue("id")); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "sorter deleted"})
}
