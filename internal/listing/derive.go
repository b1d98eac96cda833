package listing

import (
	"time"

	"github.com/nutriwell/go-admin/internal/catalog"
)

// Derived schedule statuses for date-bound resources (webinars, workshops,
// meetings). Never stored: computed from the record's date window each read.
const (
	StatusUpcoming  = "upcoming"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// DeriveStatus computes the schedule status of a record from its date and
// start/end time fields relative to now. Returns "" when the record carries
// no parseable date.
func DeriveStatus(record map[string]any, fields catalog.TimeFields, now time.Time) string {
	if fields.Date == "" {
		return ""
	}
	day, ok := parseDate(stringField(record, fields.Date))
	if !ok {
		return ""
	}

	start := day
	end := day.Add(24 * time.Hour)
	if at, ok := parseClock(stringField(record, fields.Start)); ok {
		start = day.Add(at)
	}
	if at, ok := parseClock(stringField(record, fields.End)); ok {
		end = day.Add(at)
	}

	switch {
	case now.Before(start):
		return StatusUpcoming
	case now.Before(end):
		return StatusOngoing
	default:
		return StatusCompleted
	}
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseClock reads an "HH:MM" wall time into an offset from midnight.
func parseClock(value string) (time.Duration, bool) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return 0, false
	}
	return time.Duration(parsed.Hour())*time.Hour + time.Duration(parsed.Minute())*time.Minute, true
}
