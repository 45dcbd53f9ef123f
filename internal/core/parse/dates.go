package parse

import (
	"math"
	"strings"
	"time"
)

// ISOLayout is the fixed-width UTC timestamp every normalized date is rendered in.
// Fixed width makes lexicographic order equal chronological order.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// directLayouts cover the generic encodings a timestamp column usually carries.
var directLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z0700",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-1-2 15:04:05.999999999",
	"2006-1-2 15:04",
	"2006-1-2T15:04",
	"2006-1-2",
	"2006/1/2 15:04:05.999999999",
	"2006/1/2 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"Mon Jan 2 2006 15:04:05 GMT-0700",
	"Jan 2, 2006",
	"January 2, 2006",
	"January 2 2006",
	"2006/01/02",
}

// explicitLayouts are the scraper-specific encodings, tried in order after the
// generic ones: "YYYY-MM-DD HH:mm:ss", "MMM D YYYY", "MMM D YYYY HH:mm",
// "MM/DD/YYYY", "YYYY-MM-DD".
var explicitLayouts = []string{
	"2006-01-02 15:04:05",
	"Jan 2 2006",
	"Jan 2 2006 15:04",
	"01/02/2006",
	"2006-01-02",
}

// ToISO normalizes raw into an ISO-8601 UTC timestamp, reading zone-less
// strings as UTC.
func ToISO(raw any) (string, bool) {
	return ToISOIn(raw, time.UTC)
}

// ToISOIn normalizes raw into an ISO-8601 UTC timestamp. Numbers are Unix
// seconds; zone-less strings are interpreted in loc.
func ToISOIn(raw any, loc *time.Location) (string, bool) {
	t, ok := Time(raw, loc)
	if !ok {
		return "", false
	}
	return FormatISO(t), true
}

// Time parses raw into an instant. See ToISOIn for the accepted encodings.
func Time(raw any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}

	if t, ok := raw.(time.Time); ok {
		if t.IsZero() {
			return time.Time{}, false
		}
		return representable(t)
	}

	if f, isNumber, ok := number(raw); isNumber {
		if !ok {
			return time.Time{}, false
		}
		sec, frac := math.Modf(f)
		return representable(time.Unix(int64(sec), int64(math.Round(frac*1e3))*int64(time.Millisecond)))
	}

	s, ok := text(raw)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range directLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return representable(t)
		}
	}
	for _, layout := range explicitLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return representable(t)
		}
	}
	return time.Time{}, false
}

// FormatISO renders t in ISOLayout (UTC, millisecond precision).
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// representable rejects instants whose ISO rendering would not be four-digit-year fixed width.
func representable(t time.Time) (time.Time, bool) {
	y := t.UTC().Year()
	if y < 0 || y > 9999 {
		return time.Time{}, false
	}
	return t, true
}
