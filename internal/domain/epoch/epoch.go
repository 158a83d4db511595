// Package epoch resolves instants to the UTC Monday that anchors a league
// week. All week arithmetic in the service goes through here so every
// component agrees on week boundaries regardless of server timezone.
package epoch

import (
	"fmt"
	"time"
)

const weekIDLayout = "2006-01-02"

// WeekStart returns the UTC Monday 00:00:00 on or before ts.
func WeekStart(ts time.Time) time.Time {
	utc := ts.UTC()
	daysSinceMonday := (int(utc.Weekday()) + 6) % 7
	monday := utc.AddDate(0, 0, -daysSinceMonday)

	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekID returns the week anchor of ts formatted as YYYY-MM-DD.
func WeekID(ts time.Time) string {
	return WeekStart(ts).Format(weekIDLayout)
}

// ParseWeekID parses a week identifier produced by WeekID. It rejects
// malformed dates and dates that do not land on a UTC Monday.
func ParseWeekID(s string) (time.Time, error) {
	ts, err := time.ParseInLocation(weekIDLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse week id %q: %w", s, err)
	}
	if ts.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("week id %q is not a monday", s)
	}

	return ts, nil
}
