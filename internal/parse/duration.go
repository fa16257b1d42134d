package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
)

var ErrInvalidDuration = errors.New("invalid duration")

var (
	reDurationPart = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-z]+)`)
	units          = map[string]time.Duration{
		"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
		"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
		"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
		"d": 24 * time.Hour, "day": 24 * time.Hour, "days": 24 * time.Hour,
		"w": 7 * 24 * time.Hour, "wk": 7 * 24 * time.Hour, "week": 7 * 24 * time.Hour, "weeks": 7 * 24 * time.Hour,
	}
)

// Duration parses human durations such as "2h", "1d 3h" or "2 hours".
// Every character must belong to a number-unit pair and the total must be positive.
func Duration(s string) (time.Duration, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, ErrInvalidDuration
	}

	matches := reDurationPart.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return 0, ErrInvalidDuration
	}

	var total time.Duration
	prev := 0
	for _, m := range matches {
		if gap := strings.Trim(s[prev:m[0]], " ,"); gap != "" && gap != "and" {
			return 0, ErrInvalidDuration
		}
		prev = m[1]

		n, err := strconv.ParseFloat(s[m[2]:m[3]], 64)
		if err != nil {
			return 0, ErrInvalidDuration
		}
		unit, ok := units[s[m[4]:m[5]]]
		if !ok {
			return 0, ErrInvalidDuration
		}
		term := n * float64(unit)
		if term >= math.MaxInt64-float64(total) {
			return 0, ErrInvalidDuration
		}
		total += time.Duration(term)
	}
	if strings.TrimSpace(s[prev:]) != "" || total <= 0 {
		return 0, ErrInvalidDuration
	}
	return total, nil
}
