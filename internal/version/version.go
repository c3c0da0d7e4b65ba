// Package version resolves the newest published release of the backend
// by listing GitHub tags and picking the highest stable semantic
// version.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// Current is the running backend version.
const Current = "0.1.0"

// MinAppVersion is the oldest client application version this backend
// supports.
const MinAppVersion = "0.1.0"

// Repository the backend's releases are published under.
const (
	RepoOwner = "meowmeowahr"
	RepoName  = "PartsInventoryBackend"
)

// Unknown is the sentinel returned when no release can be determined.
// The lookup never fails a request: any error degrades to Unknown.
const Unknown = "Unknown"

// DefaultTimeout bounds the outbound GitHub call so a slow network
// cannot stall an /info request.
const DefaultTimeout = 5 * time.Second

// Client fetches release tags from the GitHub API. The zero value is
// ready to use; BaseURL and HTTP exist so tests can point it at a
// local server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// LatestTag returns the name of the highest non-prerelease semver tag
// of owner/repo, or Unknown if none qualify or the fetch fails.
func (c *Client) LatestTag(ctx context.Context, owner, repo string) string {
	base := c.BaseURL
	if base == "" {
		base = "https://api.github.com"
	}
	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	url := fmt.Sprintf("%s/repos/%s/%s/tags", base, owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Unknown
	}

	resp, err := client.Do(req)
	if err != nil {
		slog.Warn("fetching release tags failed", "repo", owner+"/"+repo, "error", err)
		return Unknown
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("fetching release tags failed", "repo", owner+"/"+repo, "status", resp.StatusCode)
		return Unknown
	}

	var tags []struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		slog.Warn("decoding release tags failed", "repo", owner+"/"+repo, "error", err)
		return Unknown
	}

	best, bestCanon := "", ""
	for _, tag := range tags {
		canon := tag.Name
		if !strings.HasPrefix(canon, "v") {
			canon = "v" + canon
		}
		if !semver.IsValid(canon) || semver.Prerelease(canon) != "" {
			continue
		}
		if best == "" || semver.Compare(canon, bestCanon) > 0 {
			best, bestCanon = tag.Name, canon
		}
	}

	if best == "" {
		return Unknown
	}
	return best
}
