package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/meowmeowahr/partsinventory/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response failed", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// storeError maps data-layer errors onto HTTP responses: missing
// targets become 404, validation and reference failures 400, anything
// else is an unexpected storage fault.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrDuplicateID), errors.Is(err, store.ErrInvalidReference):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("storage failure", "error", err)
		jsonError(w, http.StatusInternalServerError, "storage failure")
	}
}
