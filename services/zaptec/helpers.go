package zaptec

import (
	"fmt"
	"time"
)

// ParseSessionTime parses Zaptec API session timestamps. The usual shape is
// ISO-8601 with microseconds and no zone designator ("2024-03-01T10:00:00.000000"),
// which is treated as UTC. The API's zero date stands for a missing value.
func ParseSessionTime(timeStr string) (time.Time, error) {
	if timeStr == "" || timeStr == "0001-01-01T00:00:00" || timeStr == "0001-01-01T00:00:00Z" {
		return time.Time{}, fmt.Errorf("missing timestamp")
	}

	formats := []string{
		"2006-01-02T15:04:05.999999",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05.999999+00:00",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", timeStr)
}
