package transport

import (
	"fmt"
	"regexp"
	"strconv"
)

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:\d+S)?$`)

// parseISODuration converts an ISO-8601 duration like "PT2H30M" to whole
// minutes. Seconds are truncated; transport timetables do not resolve below
// the minute.
func parseISODuration(s string) (int, error) {
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("parse duration %q: not an ISO-8601 duration", s)
	}

	hours := 0
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes := 0
	if m[2] != "" {
		minutes, _ = strconv.Atoi(m[2])
	}

	return hours*60 + minutes, nil
}
