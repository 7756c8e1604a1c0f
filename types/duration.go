package types

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Duration is a spec timing field kept in its original string form, e.g.
// "1h" or "1d". The empty string means unset. Day and week suffixes are
// accepted on top of the units time.ParseDuration understands, since
// granularities are commonly expressed in days.
type Duration string

var durationToken = regexp.MustCompile(`^([0-9]*\.?[0-9]+)(ns|us|µs|ms|s|m|h|d|w)`)

// ParseDuration validates s and returns it as a Duration. An empty string
// is valid and means unset.
func ParseDuration(s string) (Duration, error) {
	if s == "" {
		return "", nil
	}
	if _, err := Duration(s).Value(); err != nil {
		return "", err
	}
	return Duration(s), nil
}

// Empty reports whether the duration is unset.
func (d Duration) Empty() bool { return d == "" }

func (d Duration) String() string { return string(d) }

// Value converts the duration string into a time.Duration. Unset durations
// convert to zero.
func (d Duration) Value() (time.Duration, error) {
	if d == "" {
		return 0, nil
	}
	var total time.Duration
	rest := string(d)
	for len(rest) > 0 {
		m := durationToken.FindStringSubmatch(rest)
		if m == nil {
			return 0, fmt.Errorf("invalid duration %q", d)
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", d, err)
		}
		var unit time.Duration
		switch m[2] {
		case "ns":
			unit = time.Nanosecond
		case "us", "µs":
			unit = time.Microsecond
		case "ms":
			unit = time.Millisecond
		case "s":
			unit = time.Second
		case "m":
			unit = time.Minute
		case "h":
			unit = time.Hour
		case "d":
			unit = 24 * time.Hour
		case "w":
			unit = 7 * 24 * time.Hour
		}
		total += time.Duration(n * float64(unit))
		rest = rest[len(m[0]):]
	}
	return total, nil
}
