package util

import (
	"strings"
	"time"
)

// NowUTC reports the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// LocalClock returns a clock reporting wall time in the named zone.
// An empty name uses the process local zone.
func LocalClock(zone string) (func() time.Time, error) {
	zone = strings.TrimSpace(zone)
	switch {
	case zone == "":
		return time.Now, nil
	case strings.EqualFold(zone, "UTC"):
		return NowUTC, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, err
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}
