// Package timecodec converts between millisecond values and the strings
// admins read and edit.
//
// World times are absolute instants (ms since epoch), elapsed times are
// durations. Sub-millisecond precision is not supported.
package timecodec

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	msPerSecond = int64(1000)
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
)

var ErrMalformedTimeInput = errors.New("malformed time input")

// Parse accepts HH:MM:SS[.mmm], MM:SS[.mmm] or a bare integer (ms).
// Fractions with less than 3 digits are right padded (".5" is 500ms).
func Parse(input string) (int64, bool) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, false
	}
	if isDigits(s) {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	secPart := parts[len(parts)-1]
	frac := int64(0)
	if idx := strings.IndexByte(secPart, '.'); idx != -1 {
		f := secPart[idx+1:]
		if len(f) == 0 || len(f) > 3 || !isDigits(f) {
			return 0, false
		}
		f += strings.Repeat("0", 3-len(f))
		frac, _ = strconv.ParseInt(f, 10, 64)
		secPart = secPart[:idx]
	}
	sec, ok := parseField(secPart, 59)
	if !ok {
		return 0, false
	}
	var hours, m, minutes int64
	if len(parts) == 3 {
		if hours, ok = parseField(parts[0], -1); !ok {
			return 0, false
		}
		if m, ok = parseField(parts[1], 59); !ok {
			return 0, false
		}
		if minutes, ok = mulAdd(hours, 60, m); !ok {
			return 0, false
		}
	} else if minutes, ok = parseField(parts[0], -1); !ok {
		return 0, false
	}
	seconds, ok := mulAdd(minutes, 60, sec)
	if !ok {
		return 0, false
	}
	return mulAdd(seconds, msPerSecond, frac)
}

// mulAdd computes a*m+b for non-negative values. ok is false on overflow.
func mulAdd(a, m, b int64) (int64, bool) {
	if a > (math.MaxInt64-b)/m {
		return 0, false
	}
	return a*m + b, true
}

// ParseInput is Parse for the edit boundary. It reports malformed input as
// ErrMalformedTimeInput.
func ParseInput(input string) (int64, error) {
	v, ok := Parse(input)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTimeInput, input)
	}
	return v, nil
}

// ParseWorldTimeInput parses an edited world time.
// Admins usually enter just the time of day; in that case the day of the
// reference value is kept. Bare integers are taken as they are.
func ParseWorldTimeInput(input string, reference int64) (int64, error) {
	v, err := ParseInput(input)
	if err != nil {
		return 0, err
	}
	if strings.Contains(input, ":") && v < msPerDay && reference >= msPerDay {
		return (reference/msPerDay)*msPerDay + v, nil
	}
	return v, nil
}

// FormatWorldTime renders an absolute instant as HH:MM:SS.mmm (UTC).
// Full days are folded into the hours field, so the result parses back to
// the same value.
func FormatWorldTime(ms int64) string {
	if ms < 0 {
		return "-"
	}
	return fmt.Sprintf("%02d:%02d:%02d.%03d",
		ms/msPerHour, (ms%msPerHour)/msPerMinute, (ms%msPerMinute)/msPerSecond, ms%msPerSecond)
}

// FormatTimeOfDay renders the UTC wall clock of an instant as HH:MM:SS.mmm
func FormatTimeOfDay(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return FormatWorldTime(ms % msPerDay)
}

// FormatElapsed renders a duration as M:SS.mmm. Zero renders as "-".
func FormatElapsed(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%02d.%03d",
		ms/msPerMinute, (ms%msPerMinute)/msPerSecond, ms%msPerSecond)
}

// FormatDelta renders a gap to the leader as +M:SS.mmm
func FormatDelta(ms int64) string {
	if ms < 0 {
		return "-"
	}
	return fmt.Sprintf("+%d:%02d.%03d",
		ms/msPerMinute, (ms%msPerMinute)/msPerSecond, ms%msPerSecond)
}

// parseField parses a non-negative decimal. maxVal -1 means unbounded.
func parseField(s string, maxVal int64) (int64, bool) {
	if s == "" || !isDigits(s) {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	if maxVal >= 0 && v > maxVal {
		return 0, false
	}
	return v, true
}

func isDigits(s string) bool {
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
