// Package dateutils normalizes the date strings found in bank statement
// exports into ISO calendar dates.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Layouts used throughout the application.
const (
	LayoutISO      = "2006-01-02"
	LayoutEuropean = "02.01.2006"
	LayoutUS       = "01/02/2006"
	LayoutFull     = "2006-01-02 15:04:05"
)

// compactDate matches a bare 8-digit value, interpreted positionally as
// YYYYMMDD. Several banks export dates this way.
var compactDate = regexp.MustCompile(`^\d{8}$`)

// formats is the ladder tried by ParseDate, day-first variants before
// month-first since ambiguous values are overwhelmingly day-first in the
// statement formats we see.
var formats = []string{
	LayoutISO,
	LayoutFull,
	"2006-01-02T15:04:05Z",
	"02/01/2006", // DD/MM/YYYY
	LayoutUS,     // MM/DD/YYYY
	"02-01-2006",
	"01-02-2006",
	LayoutEuropean,
	"2.1.2006",
	"2/01/2006",
	"2006/01/02",
	"02 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// ParseDate attempts to parse a date string against the common statement
// formats. Parsing is done with time.Parse, i.e. in the local calendar
// interpretation of the value with no timezone shifting.
func ParseDate(raw string) (time.Time, error) {
	cleaned := Clean(raw)
	if cleaned == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}
	for _, format := range formats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse date: %s", raw)
}

// NormalizeDate converts a raw statement date into YYYY-MM-DD.
//
// An 8-digit numeric value is read positionally as YYYYMMDD. Anything
// else goes through the generic format ladder. If nothing matches, the
// trimmed raw value is returned unchanged; downstream consumers tolerate
// non-ISO date strings.
func NormalizeDate(raw string) string {
	cleaned := Clean(raw)
	if cleaned == "" {
		return cleaned
	}

	if compactDate.MatchString(cleaned) {
		return cleaned[0:4] + "-" + cleaned[4:6] + "-" + cleaned[6:8]
	}

	t, err := ParseDate(cleaned)
	if err != nil {
		return cleaned
	}
	return t.Format(LayoutISO)
}

// ToISODate formats a time.Time as YYYY-MM-DD.
func ToISODate(t time.Time) string {
	return t.Format(LayoutISO)
}

// Clean trims a date string and collapses internal whitespace runs.
func Clean(raw string) string {
	cleaned := strings.TrimSpace(raw)
	return strings.Join(strings.Fields(cleaned), " ")
}
