package api

import (
	"context"
	"net/http"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/meowmeowahr/partsinventory/internal/version"
)

// InfoHandler serves backend version and host telemetry.
type InfoHandler struct {
	Versions *version.Client

	// FetchLatest gates the outbound GitHub call; when false the
	// latest_version field is always the Unknown sentinel.
	FetchLatest bool
}

type systemInfo struct {
	Version       string  `json:"version"`
	LatestVersion string  `json:"latest_version"`
	MinAppVersion string  `json:"min_app_version"`
	CPUUsage      float64 `json:"cpu_usage"`
	MemoryUsage   float64 `json:"memory_usage"`
}

// Get handles GET /info. The release lookup is bounded by the version
// client's timeout and degrades to Unknown, so a GitHub outage never
// fails this endpoint. A fetch_github=false query skips the lookup.
func (h *InfoHandler) Get(w http.ResponseWriter, r *http.Request) {
	latest := version.Unknown
	if h.FetchLatest && r.URL.Query().Get("fetch_github") != "false" {
		ctx, cancel := context.WithTimeout(r.Context(), version.DefaultTimeout)
		defer cancel()
		latest = h.Versions.LatestTag(ctx, version.RepoOwner, version.RepoName)
	}

	info := systemInfo{
		Version:       version.Current,
		LatestVersion: latest,
		MinAppVersion: version.MinAppVersion,
	}

	// Telemetry is best-effort: a probe failure leaves the field zero.
	if percents, err := cpu.PercentWithContext(r.Context(), 0, false); err == nil && len(percents) > 0 {
		info.CPUUsage = percents[0]
	}
	if vm, err := mem.VirtualMemoryWithContext(r.Context()); err == nil {
		info.MemoryUsage = vm.UsedPercent
	}

	jsonResponse(w, http.StatusOK, info)
}
