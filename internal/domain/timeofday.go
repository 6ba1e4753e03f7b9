package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time expressed as the duration since midnight.
// Values past 24h are legal: a route that runs over midnight keeps counting
// forward so comparisons stay monotonic, and only the rendered form wraps.
type TimeOfDay time.Duration

// UnknownTime marks a time that could not be derived from the route data.
const UnknownTime TimeOfDay = -1

// DefaultDepartureTime is used when a route has no usable departure time.
const DefaultDepartureTime = TimeOfDay(8 * time.Hour)

// Clock builds a TimeOfDay from hours and minutes.
func Clock(hour, minute int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// ParseTimeOfDay accepts "HH:MM" and "HH:MM:SS" (the form Postgres returns
// for time columns).
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return UnknownTime, fmt.Errorf("parse time of day %q: expected HH:MM", s)
	}

	limits := []int{23, 59, 59}
	vals := make([]int, 3)
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 {
			return UnknownTime, fmt.Errorf("parse time of day %q: bad field %q", s, p)
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return UnknownTime, fmt.Errorf("parse time of day %q: field %q out of range", s, p)
		}
		vals[i] = n
	}

	return Clock(vals[0], vals[1]) + TimeOfDay(time.Duration(vals[2])*time.Second), nil
}

func (t TimeOfDay) Known() bool { return t >= 0 }

// Add advances the time, leaving the sentinel untouched.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	if !t.Known() {
		return UnknownTime
	}
	return t + TimeOfDay(d)
}

// Seconds since midnight, or -1 for the sentinel.
func (t TimeOfDay) Seconds() int {
	if !t.Known() {
		return -1
	}
	return int(time.Duration(t) / time.Second)
}

// String renders HH:MM (24-hour), or "-" when unknown.
func (t TimeOfDay) String() string {
	if !t.Known() {
		return "-"
	}
	d := time.Duration(t) % (24 * time.Hour)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimeOfDay) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("time of day: %w", err)
	}
	if s == "-" || s == "" {
		*t = UnknownTime
		return nil
	}
	v, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// MarshalCSV renders the display form for CSV exports.
func (t TimeOfDay) MarshalCSV() (string, error) {
	return t.String(), nil
}
