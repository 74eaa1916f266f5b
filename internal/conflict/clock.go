package conflict

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

var (
	// ErrInvalidClock is returned for times that are not "HH:MM" within a single day.
	ErrInvalidClock = errors.New("invalid time of day")
	// ErrInvertedRange is returned when an interval does not end after it starts.
	ErrInvertedRange = errors.New("end time must be after start time")
)

// ParseClock converts zero-padded "HH:MM" into minutes since midnight. "24:00" is accepted as end of day.
func ParseClock(raw string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok || !twoDigits(hh) || !twoDigits(mm) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	hours, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	minutes, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	if hours < 0 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	total := hours*60 + minutes
	if total > minutesPerDay {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, raw)
	}
	return total, nil
}

// twoDigits rejects signs and single digits, both of which strconv.Atoi accepts.
func twoDigits(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}

// Interval is a half-open [Start, End) range in minutes since midnight.
type Interval struct {
	Start int
	End   int
}

// NewInterval parses a same-day time range.
func NewInterval(start, end string) (Interval, error) {
	from, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	to, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if to <= from {
		return Interval{}, fmt.Errorf("%w: %s-%s", ErrInvertedRange, start, end)
	}
	return Interval{Start: from, End: to}, nil
}

// Overlaps reports whether two intervals share at least one minute.
// A range ending exactly when the other begins does not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start < b.End && b.Start < a.End
}
