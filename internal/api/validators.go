package api

import (
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 50
)

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// parseID reads a positive integer path parameter.
func parseID(req *http.Request, name string) (int64, error) {
	raw := req.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// parseLimit reads a limit query parameter, clamped to maxRecentLimit.
func parseLimit(req *http.Request) int {
	raw := req.URL.Query().Get("limit")
	if raw == "" {
		return defaultRecentLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return defaultRecentLimit
	}
	if limit > maxRecentLimit {
		return maxRecentLimit
	}
	return limit
}

// parseDateParam parses an optional date query parameter. Accepts RFC3339 or a
// bare YYYY-MM-DD date. When endOfDay is true a bare date covers the whole day,
// so a start/end pair of equal dates still spans that day inclusively.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		utc := t.UTC()
		return &utc, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected RFC3339 or YYYY-MM-DD", raw)
	}
	t = t.UTC()
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t, nil
}

// validateColor checks an optional hex color value.
func validateColor(color string) error {
	if color == "" {
		return nil
	}
	if !hexColorPattern.MatchString(color) {
		return fmt.Errorf("invalid color %q, expected #rrggbb", color)
	}
	return nil
}
