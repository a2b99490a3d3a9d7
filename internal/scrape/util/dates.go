package util

import (
	"regexp"
	"strings"
	"time"
)

const (
	isoDate     = "2006-01-02"
	isoDateTime = "2006-01-02T15:04:05"
	listDate    = "1/2/2006"
	clockTime   = "3:04 PM"
)

var clockRe = regexp.MustCompile(`^(\d{1,2}:\d{2})\s*([AP]M)$`)

// ParseDate turns "3/1/2024" into "2024-03-01". Anything else yields nil.
func ParseDate(s string) *string {
	s = CleanText(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(listDate, s)
	if err != nil {
		return nil
	}
	out := t.Format(isoDate)
	return &out
}

// ParseTime reads "2:30 PM" (marker case-insensitive, space optional).
// Only the clock fields of the returned time are meaningful.
func ParseTime(s string) (time.Time, bool) {
	s = strings.ToUpper(CleanText(s))
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(clockTime, m[1]+" "+m[2])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// CombineDeadline merges an ISO date with an optional clock time.
// No date means no deadline; a missing or unreadable time keeps the bare date.
func CombineDeadline(date, clock *string) *string {
	if date == nil || *date == "" {
		return nil
	}
	out := *date
	if clock == nil {
		return &out
	}
	t, ok := ParseTime(*clock)
	if !ok {
		return &out
	}
	d, err := time.Parse(isoDate, *date)
	if err != nil {
		return &out
	}
	dt := time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
	out = dt.Format(isoDateTime)
	return &out
}
