package check

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mtdoughty/check-Mikrotik-OS/internal/domain"
)

// ClassifyFreshness grades an outstanding RouterOS upgrade by its age.
// Releases younger than grace are Warning, everything else is Critical.
// A non-positive grace falls back to domain.DefaultGracePeriod.
func ClassifyFreshness(release, now time.Time, grace time.Duration) domain.Severity {
	if grace <= 0 {
		grace = domain.DefaultGracePeriod
	}
	if now.Sub(release) < grace {
		return domain.SeverityWarning
	}
	return domain.SeverityCritical
}

// ParseReleaseTimestamp reads the feed's "seconds since epoch" field.
func ParseReleaseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return time.Time{}, domain.E("parse release time", fmt.Sprintf("malformed release timestamp %q", s), domain.ErrFeedUnavailable)
	}
	sec, frac := math.Modf(f)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))), nil
}
