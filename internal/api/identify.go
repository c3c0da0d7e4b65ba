package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"
)

// IdentifyHandler forwards part-identify requests to a caller-supplied
// companion device (e.g. an LED locator on a sorter) and relays the
// response verbatim. It is a pass-through proxy, not a data-layer
// concern.
type IdentifyHandler struct {
	Client *http.Client
}

type identifyRequest struct {
	Location string `json:"location"`
	API      string `json:"api"`
}

// Identify handles POST /part_identify.
func (h *IdentifyHandler) Identify(w http.ResponseWriter, r *http.Request) {
	var req identifyRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	target, err := url.JoinPath(req.API, "identify")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid api url")
		return
	}

	body, err := json.Marshal(map[string]string{"location": req.Location})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "encoding identify payload failed")
		return
	}

	proxyReq, err := http.NewRequestWithContext(r.Context(), http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid api url")
		return
	}
	proxyReq.Header.Set("Content-Type", "application/json")

	client := h.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Do(proxyReq)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer resp.Body.Close()

	// Relay status and body as-is, including downstream errors.
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}
