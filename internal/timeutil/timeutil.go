package timeutil

import (
	"math"
	"time"
)

// DateLayout is the calendar date format used in URLs and upstream queries.
const DateLayout = "2006-01-02"

// Upstream timestamps are local wall-clock times, usually without an offset.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func Parse(s string) (time.Time, error) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, &time.ParseError{
		Value:   s,
		Message: "unable to parse time string",
	}
}

func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// MinutesBetween returns the absolute gap between two timestamps in whole minutes.
func MinutesBetween(a, b string) (int, error) {
	ta, err := Parse(a)
	if err != nil {
		return 0, err
	}
	tb, err := Parse(b)
	if err != nil {
		return 0, err
	}

	diff := ta.Sub(tb)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Floor(diff.Minutes())), nil
}

// FormatClock renders a timestamp as 24h "15:04", or returns the input unchanged.
func FormatClock(s string) string {
	t, err := Parse(s)
	if err != nil {
		return s
	}
	return t.Format("15:04")
}

func FormatFullDateTime(s string) string {
	t, err := Parse(s)
	if err != nil {
		return s
	}
	return t.Format("Monday, January 2, 2006 at 15:04")
}
