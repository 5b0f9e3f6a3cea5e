package devbackend

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Effect is one timed entry of an AI script:
//
//	[00:00:01.000 - 00:00:03.000] {FX_FLASH(duration=0.5)}
type Effect struct {
	Start time.Duration
	End   time.Duration
	Code  string
}

// Text reports whether the effect is a drawtext overlay.
func (e Effect) Text() bool {
	return strings.HasPrefix(e.Code, "drawtext=")
}

var effectLine = regexp.MustCompile(`^\[(\d{2}:\d{2}:\d{2}(?:\.\d{1,3})?)\s*-\s*(\d{2}:\d{2}:\d{2}(?:\.\d{1,3})?)\]\s*(.+)$`)

// ParseEffects extracts the timed effects from an AI script. Lines that are
// not effect entries are skipped, as are entries that end before they start.
func ParseEffects(script string) []Effect {
	var effects []Effect

	for _, line := range strings.Split(script, "\n") {
		m := effectLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}

		start, err := parseTimestamp(m[1])
		if err != nil {
			continue
		}
		end, err := parseTimestamp(m[2])
		if err != nil || end < start {
			continue
		}

		effects = append(effects, Effect{Start: start, End: end, Code: strings.TrimSpace(m[3])})
	}

	return effects
}

// parseTimestamp reads HH:MM:SS with optional fractional seconds.
func parseTimestamp(ts string) (time.Duration, error) {
	parts := strings.Split(ts, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", ts)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", ts, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes > 59 {
		return 0, fmt.Errorf("invalid minutes in %q", ts)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || seconds >= 60 {
		return 0, fmt.Errorf("invalid seconds in %q", ts)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(math.Round(seconds*1000))*time.Millisecond, nil
}

// FormatTimestamp renders d as HH:MM:SS.mmm.
func FormatTimestamp(d time.Duration) string {
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3_600_000, (ms/60_000)%60, (ms/1000)%60, ms%1000)
}
