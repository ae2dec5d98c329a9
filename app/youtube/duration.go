package youtube

import (
	"regexp"
	"strconv"
	"time"
)

var durationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// parseISODuration converts the ISO 8601 duration the Data API reports
// (e.g. "PT15M33S") into a time.Duration. Unparseable input yields zero.
func parseISODuration(value string) time.Duration {
	match := durationPattern.FindStringSubmatch(value)
	if match == nil {
		return 0
	}

	var total time.Duration
	units := []time.Duration{time.Hour, time.Minute, time.Second}
	for i, unit := range units {
		if match[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(match[i+1])
		if err != nil {
			return 0
		}
		total += time.Duration(n) * unit
	}

	return total
}
