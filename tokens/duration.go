package tokens

import (
	"fmt"
	"strings"
	"time"
)

// ReadableDuration renders a duration as compact day/hour/minute/second
// units, e.g. "1h", "1d 2h 30m". Zero units are skipped; a zero duration
// renders as "0s".
func ReadableDuration(d time.Duration) string {
	secs := int64(d.Seconds())
	if secs <= 0 {
		return "0s"
	}

	days := secs / 86400
	hours := secs % 86400 / 3600
	mins := secs % 3600 / 60
	secs = secs % 60

	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if mins > 0 {
		parts = append(parts, fmt.Sprintf("%dm", mins))
	}
	if secs > 0 {
		parts = append(parts, fmt.Sprintf("%ds", secs))
	}
	return strings.Join(parts, " ")
}
