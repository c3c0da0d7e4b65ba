package api

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/meowmeowahr/partsinventory/internal/db"
	"github.com/meowmeowahr/partsinventory/internal/model"
	"github.com/meowmeowahr/partsinventory/internal/version"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	// Update checks are disabled so tests never call out to GitHub.
	router := NewRouter(database, &version.Client{}, false)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	defer resp.Body.Close()
	if resp.StatusCode != want {
		t.Fatalf("expected %d, got %d", want, resp.StatusCode)
	}
}

func createHierarchy(t *testing.T, baseURL string) {
	t.Helper()
	expectStatus(t, doJSON(t, "POST", baseURL+"/locations", map[string]any{
		"id": "loc1", "name": "Garage", "icon": "garage", "tags": "", "attrs": map[string]any{},
	}), http.StatusCreated)
	expectStatus(t, doJSON(t, "POST", baseURL+"/sorters", map[string]any{
		"id": "srt1", "location": "loc1", "name": "Bin A", "icon": "bin", "tags": "", "attrs": map[string]any{},
	}), http.StatusCreated)
}

func TestLocationAPIFlow(t *testing.T) {
	server := setupTestServer(t)

	expectStatus(t, doJSON(t, "POST", server.URL+"/locations", map[string]any{
		"id": "loc1", "name": "Garage", "icon": "garage", "tags": "home", "attrs": map[string]any{"floor": "ground"},
	}), http.StatusCreated)

	// Duplicate id is a client error.
	expectStatus(t, doJSON(t, "POST", server.URL+"/locations", map[string]any{
		"id": "loc1", "name": "Attic", "icon": "attic", "attrs": map[string]any{},
	}), http.StatusBadRequest)

	resp := doJSON(t, "GET", server.URL+"/locations", nil)
	var locations []model.Location
	json.NewDecoder(resp.Body).Decode(&locations)
	resp.Body.Close()
	if len(locations) != 1 || locations[0].Name != "Garage" {
		t.Fatalf("unexpected listing: %+v", locations)
	}

	// Partial update: only the name changes.
	expectStatus(t, doJSON(t, "PUT", server.URL+"/locations/loc1", map[string]any{
		"name": "Workshop",
	}), http.StatusOK)

	resp = doJSON(t, "GET", server.URL+"/locations/loc1", nil)
	var loc model.Location
	json.NewDecoder(resp.Body).Decode(&loc)
	resp.Body.Close()
	if loc.Name != "Workshop" || loc.Icon != "garage" || loc.Tags != "home" {
		t.Errorf("partial update touched unset fields: %+v", loc)
	}

	expectStatus(t, doJSON(t, "DELETE", server.URL+"/locations/loc1", nil), http.StatusOK)
	expectStatus(t, doJSON(t, "GET", server.URL+"/locations/loc1", nil), http.StatusNotFound)
}

func TestSorterInvalidLocation(t *testing.T) {
	server := setupTestServer(t)

	expectStatus(t, doJSON(t, "POST", server.URL+"/sorters", map[string]any{
		"id": "srt1", "location": "nowhere", "name": "Bin A", "icon": "bin", "attrs": map[string]any{},
	}), http.StatusBadRequest)
}

func TestPartAPIFlow(t *testing.T) {
	server := setupTestServer(t)
	createHierarchy(t, server.URL)

	expectStatus(t, doJSON(t, "POST", server.URL+"/parts_individual", map[string]any{
		"id": "p1", "sorter": "srt1", "name": "Bolt", "quantity": 10,
		"quantity_type": "pcs", "enable_quantity": true, "price": 0.05,
		"notes": "", "tags": "", "location": "loc1", "attrs": map[string]any{"size": "M4"},
	}), http.StatusCreated)

	// Creating against a missing sorter is rejected.
	expectStatus(t, doJSON(t, "POST", server.URL+"/parts_individual", map[string]any{
		"id": "p2", "sorter": "nonexistent", "name": "Nut", "quantity": 1,
		"location": "loc1", "attrs": map[string]any{},
	}), http.StatusBadRequest)

	resp := doJSON(t, "GET", server.URL+"/parts", nil)
	var listing []map[string]any
	json.NewDecoder(resp.Body).Decode(&listing)
	resp.Body.Close()
	if len(listing) != 1 {
		t.Fatalf("expected 1 part, got %d", len(listing))
	}
	if listing[0]["quantity"] != float64(10) {
		t.Errorf("expected quantity 10, got %v", listing[0]["quantity"])
	}

	expectStatus(t, doJSON(t, "PUT", server.URL+"/parts_individual/p1", map[string]any{
		"quantity": 5,
	}), http.StatusOK)

	resp = doJSON(t, "GET", server.URL+"/parts_individual/p1", nil)
	var part model.Part
	json.NewDecoder(resp.Body).Decode(&part)
	resp.Body.Close()
	if part.Quantity != 5 || part.Name != "Bolt" {
		t.Errorf("unexpected part after update: %+v", part)
	}

	// Filter by sorter.
	resp = doJSON(t, "GET", server.URL+"/parts/srt1", nil)
	var bySorter []model.Part
	json.NewDecoder(resp.Body).Decode(&bySorter)
	resp.Body.Close()
	if len(bySorter) != 1 || bySorter[0].ID != "p1" {
		t.Errorf("unexpected sorter filter result: %+v", bySorter)
	}

	expectStatus(t, doJSON(t, "DELETE", server.URL+"/parts_individual/p1", nil), http.StatusOK)
	expectStatus(t, doJSON(t, "DELETE", server.URL+"/parts_individual/p1", nil), http.StatusNotFound)
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{0, 128, 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test png: %v", err)
	}
	return buf.Bytes()
}

func TestPartImageEndpoint(t *testing.T) {
	server := setupTestServer(t)
	createHierarchy(t, server.URL)
	expectStatus(t, doJSON(t, "POST", server.URL+"/parts_individual", map[string]any{
		"id": "p1", "sorter": "srt1", "name": "Bolt", "quantity": 1,
		"location": "loc1", "attrs": map[string]any{},
	}), http.StatusCreated)

	// []byte marshals as base64, matching the wire format.
	expectStatus(t, doJSON(t, "PUT", server.URL+"/parts_individual/p1/image", map[string]any{
		"image": testPNG(t),
	}), http.StatusOK)

	resp := doJSON(t, "GET", server.URL+"/parts_individual/p1", nil)
	var part model.Part
	json.NewDecoder(resp.Body).Decode(&part)
	resp.Body.Close()
	if len(part.Image) == 0 {
		t.Error("expected image bytes on individual retrieval")
	}
	if len(part.ImageHash) == 0 {
		t.Error("expected image_hash to be set")
	}

	// Lists never include the raw image.
	resp = doJSON(t, "GET", server.URL+"/parts", nil)
	var listing []map[string]any
	json.NewDecoder(resp.Body).Decode(&listing)
	resp.Body.Close()
	if _, ok := listing[0]["image"]; ok {
		t.Error("list response must not include image bytes")
	}

	// Garbage bytes are rejected before storage.
	expectStatus(t, doJSON(t, "PUT", server.URL+"/parts_individual/p1/image", map[string]any{
		"image": []byte("not an image"),
	}), http.StatusBadRequest)

	// Null clears image and hash.
	expectStatus(t, doJSON(t, "PUT", server.URL+"/parts_individual/p1/image", map[string]any{
		"image": nil,
	}), http.StatusOK)

	resp = doJSON(t, "GET", server.URL+"/parts_individual/p1", nil)
	part = model.Part{} // absent keys leave decoded fields untouched
	json.NewDecoder(resp.Body).Decode(&part)
	resp.Body.Close()
	if part.Image != nil || part.ImageHash != nil {
		t.Error("expected image and hash cleared")
	}
}

func TestUpdateTargetsMissing(t *testing.T) {
	server := setupTestServer(t)

	expectStatus(t, doJSON(t, "PUT", server.URL+"/locations/missing", map[string]any{"name": "X"}), http.StatusNotFound)
	expectStatus(t, doJSON(t, "PUT", server.URL+"/sorters/missing", map[string]any{"name": "X"}), http.StatusNotFound)
	expectStatus(t, doJSON(t, "PUT", server.URL+"/parts_individual/missing", map[string]any{"name": "X"}), http.StatusNotFound)
	expectStatus(t, doJSON(t, "DELETE", server.URL+"/locations/missing", nil), http.StatusNotFound)
}

func TestInfoEndpoint(t *testing.T) {
	server := setupTestServer(t)

	resp := doJSON(t, "GET", server.URL+"/info", nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var info map[string]any
	json.NewDecoder(resp.Body).Decode(&info)
	if info["version"] != version.Current {
		t.Errorf("unexpected version: %v", info["version"])
	}
	if info["latest_version"] != version.Unknown {
		t.Errorf("expected %q with update checks disabled, got %v", version.Unknown, info["latest_version"])
	}
	if info["min_app_version"] != version.MinAppVersion {
		t.Errorf("unexpected min_app_version: %v", info["min_app_version"])
	}
}

func TestIdentifyProxy(t *testing.T) {
	server := setupTestServer(t)

	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/identify" {
			t.Errorf("unexpected downstream path: %s", r.URL.Path)
		}
		var payload map[string]string
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["location"] != "srt1:3" {
			t.Errorf("unexpected payload: %v", payload)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "blinking"}`))
	}))
	defer downstream.Close()

	resp := doJSON(t, "POST", server.URL+"/part_identify", map[string]string{
		"location": "srt1:3",
		"api":      downstream.URL,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var relayed map[string]string
	json.NewDecoder(resp.Body).Decode(&relayed)
	if relayed["status"] != "blinking" {
		t.Errorf("expected relayed response, got %v", relayed)
	}
}

func TestIdentifyProxyRelaysDownstreamError(t *testing.T) {
	server := setupTestServer(t)

	downstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "device busy", http.StatusConflict)
	}))
	defer downstream.Close()

	resp := doJSON(t, "POST", server.URL+"/part_identify", map[string]string{
		"location": "srt1:3",
		"api":      downstream.URL,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected relayed 409, got %d", resp.StatusCode)
	}
}
