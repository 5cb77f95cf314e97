package timezone

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DefaultZone = "Europe/Kyiv"

// EET is used when the tz database is not available on the host.
var EET = time.FixedZone("EET", 2*60*60)

func LocationByName(name string) *time.Location {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "":
		name = DefaultZone
	case "UTC":
		return time.UTC
	case "EET", "UTC+2":
		return EET
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return EET
}

// ParseClock accepts "HH:mm" and "HH:mm:ss".
func ParseClock(s string) (hour, minute, second int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	values := make([]int, 3)
	for i, p := range parts {
		v, convErr := strconv.Atoi(p)
		if convErr != nil || v < 0 {
			return 0, 0, 0, fmt.Errorf("invalid time of day %q", s)
		}
		values[i] = v
	}
	if values[0] > 23 || values[1] > 59 || values[2] > 59 {
		return 0, 0, 0, fmt.Errorf("invalid time of day %q", s)
	}
	return values[0], values[1], values[2], nil
}

// ParseDateTime builds an instant from a "YYYY-MM-DD" date and a time of day in loc.
func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), loc)
	if err != nil {
		return time.Time{}, err
	}
	h, m, s, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, s, 0, loc), nil
}

// ParseStamp parses timestamps as the remote API emits them. Stamps without an
// offset are read in loc.
func ParseStamp(s string, loc *time.Location) (time.Time, error) {
	withOffset := []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05-0700",
	}
	for _, format := range withOffset {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	local := []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04",
	}
	for _, format := range local {
		if t, err := time.ParseInLocation(format, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   s,
		Message: "unable to parse time string",
	}
}
