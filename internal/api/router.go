package api

import (
	"database/sql"
	"net/http"

	"github.com/meowmeowahr/partsinventory/internal/version"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, versions *version.Client, fetchLatest bool) http.Handler {
	mux := http.NewServeMux()

	locationsHandler := &LocationsHandler{DB: db}
	sortersHandler := &SortersHandler{DB: db}
	partsHandler := &PartsHandler{DB: db}
	infoHandler := &InfoHandler{Versions: versions, FetchLatest: fetchLatest}
	identifyHandler := &IdentifyHandler{}

	mux.HandleFunc("GET /info", infoHandler.Get)
	mux.HandleFunc("POST /part_identify", identifyHandler.Identify)

	// Locations.
	mux.HandleFunc("GET /locations", locationsHandler.List)
	mux.HandleFunc("POST /locations", locationsHandler.Create)
	mux.HandleFunc("GET /locations/{id}", locationsHandler.Get)
	mux.HandleFunc("PUT /locations/{id}", locationsHandler.Update)
	mux.HandleFunc("DELETE /locations/{id}", locationsHandler.Delete)

	// Sorters.
	mux.HandleFunc("GET /sorters", sortersHandler.List)
	mux.HandleFunc("POST /sorters", sortersHandler.Create)
	mux.HandleFunc("GET /sorters/{id}", sortersHandler.Get)
	mux.HandleFunc("PUT /sorters/{id}", sortersHandler.Update)
	mux.HandleFunc("DELETE /sorters/{id}", sortersHandler.Delete)

	// Parts. List endpoints strip images; /parts_individual carries
	// the full record.
	mux.HandleFunc("GET /parts", partsHandler.List)
	mux.HandleFunc("GET /parts/{sorter}", partsHandler.ListBySorter)
	mux.HandleFunc("POST /parts_individual", partsHandler.Create)
	mux.HandleFunc("GET /parts_individual/{id}", partsHandler.Get)
	mux.HandleFunc("PUT /parts_individual/{id}", partsHandler.Update)
	mux.HandleFunc("DELETE /parts_individual/{id}", partsHandler.Delete)
	mux.HandleFunc("PUT /parts_individual/{id}/image", partsHandler.SetImage)

	return CORSMiddleware(mux)
}
