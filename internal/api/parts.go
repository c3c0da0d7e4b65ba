package api

import (
	"database/sql"
	"net/http"

	"github.com/meowmeowahr/partsinventory/internal/imaging"
	"github.com/meowmeowahr/partsinventory/internal/model"
	"github.com/meowmeowahr/partsinventory/internal/store"
)

// maxImageBytes caps the decoded request size for image uploads. The
// store itself has no size limit, so the cap lives at the transport
// boundary.
const maxImageBytes = 10 << 20

// PartsHandler handles part CRUD and image endpoints.
type PartsHandler struct {
	DB *sql.DB
}

// List handles GET /parts. Image bytes are stripped from list
// responses to keep payloads small; image_hash stays so clients can
// detect changes.
func (h *PartsHandler) List(w http.ResponseWriter, r *http.Request) {
	parts := store.ListParts(r.Context(), h.DB)
	for i := range parts {
		parts[i].Image = nil
	}
	jsonResponse(w, http.StatusOK, parts)
}

// ListBySorter handles GET /parts/{sorter}, returning the parts held
// by one sorter, image bytes stripped.
func (h *PartsHandler) ListBySorter(w http.ResponseWriter, r *http.Request) {
	sorterID := r.PathValue("sorter")
	matched := []model.Part{}
	for _, p := range store.ListParts(r.Context(), h.DB) {
		if p.Sorter == sorterID {
			p.Image = nil
			matched = append(matched, p)
		}
	}
	jsonResponse(w, http.StatusOK, matched)
}

// Create handles POST /parts_individual.
func (h *PartsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p model.Part
	if err := decodeJSON(r, &p); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if p.ID == "" || p.Name == "" || p.Sorter == "" || p.Location == "" {
		jsonError(w, http.StatusBadRequest, "id, name, sorter and location required")
		return
	}

	// Images are attached through the image endpoint, never at create.
	p.Image = nil
	p.ImageHash = nil

	if err := store.CreatePart(r.Context(), h.DB, p); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, p)
}

// Get handles GET /parts_individual/{id}. Unlike the list endpoints,
// the response includes the raw image.
func (h *PartsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	for _, p := range store.ListParts(r.Context(), h.DB) {
		if p.ID == id {
			jsonResponse(w, http.StatusOK, p)
			return
		}
	}
	jsonError(w, http.StatusNotFound, "part not found")
}

// Update handles PUT /parts_individual/{id}. Only fields present in
// the body are changed; new sorter or location references are
// validated to exist.
func (h *PartsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var upd model.PartUpdate
	if err := decodeJSON(r, &upd); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := store.UpdatePart(r.Context(), h.DB, id, upd); err != nil {
		storeError(w, err)
		return
	}

	for _, p := range store.ListParts(r.Context(), h.DB) {
		if p.ID == id {
			p.Image = nil
			jsonResponse(w, http.StatusOK, p)
			return
		}
	}
	jsonError(w, http.StatusNotFound, "part not found")
}

type partImageRequest struct {
	Image []byte `json:"image"` // base64 in JSON; null clears the image
}

// SetImage handles PUT /parts_individual/{id}/image. Uploaded bytes
// are sniffed, downscaled and re-encoded before storage; a JSON null
// clears the stored image and its hash.
func (h *PartsHandler) SetImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)

	var req partImageRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body or image too large")
		return
	}

	image := req.Image
	if image != nil {
		processed, err := imaging.Process(image)
		if err != nil {
			jsonError(w, http.StatusBadRequest, err.Error())
			return
		}
		image = processed
	}

	if err := store.SetPartImage(r.Context(), h.DB, id, image); err != nil {
		storeError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "part image updated"})
}

// Delete handles DELETE /parts_individual/{id}.
func (h *PartsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeletePart(r.Context(), h.DB, r.PathValue("id")); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "part deleted"})
}
