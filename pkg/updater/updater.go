// Package updater checks GitHub for a newer gstack release.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/golden_stack/pkg/version"
)

// ReleaseURL is the GitHub endpoint for the latest release.
const ReleaseURL = "https://api.github.com/repos/Dicklesworthstone/golden_stack/releases/latest"

type Release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker queries a release endpoint. The zero value checks ReleaseURL
// against version.Version.
type Checker struct {
	URL     string
	Current string
	Client  *http.Client
}

// CheckForUpdates queries GitHub for the latest release.
// Returns the new version tag if an update is available, empty string otherwise.
func CheckForUpdates(ctx context.Context) (string, string, error) {
	return Checker{}.Check(ctx)
}

// Check returns the tag and page of a release newer than Current, or empty
// strings when Current is up to date.
func (c Checker) Check(ctx context.Context) (string, string, error) {
	url := c.URL
	if url == "" {
		url = ReleaseURL
	}
	current := c.Current
	if current == "" {
		current = version.Version
	}
	client := c.Client
	if client == nil {
		// Short timeout so a slow network never holds up startup.
		client = &http.Client{Timeout: 2 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("github api returned status: %s", resp.Status)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return "", "", fmt.Errorf("decode release: %w", err)
	}

	if CompareVersions(rel.TagName, current) > 0 {
		return rel.TagName, rel.HTMLURL, nil
	}
	return "", "", nil
}

// CompareVersions returns 1 if v1 > v2, -1 if v1 < v2, 0 if equal.
// Segments compare numerically; a non-numeric suffix such as "-rc1" sorts
// before the plain release.
func CompareVersions(v1, v2 string) int {
	a := strings.Split(strings.TrimPrefix(v1, "v"), ".")
	b := strings.Split(strings.TrimPrefix(v2, "v"), ".")
	for i := 0; i < len(a) || i < len(b); i++ {
		x, xs := segment(a, i)
		y, ys := segment(b, i)
		switch {
		case x > y:
			return 1
		case x < y:
			return -1
		case xs == "" && ys != "":
			return 1
		case xs != "" && ys == "":
			return -1
		case xs != ys:
			if xs > ys {
				return 1
			}
			return -1
		}
	}
	return 0
}

// segment splits part i into its leading number and the rest.
func segment(parts []string, i int) (int, string) {
	if i >= len(parts) {
		return 0, ""
	}
	s := parts[i]
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(s[:end])
	return n, s[end:]
}
