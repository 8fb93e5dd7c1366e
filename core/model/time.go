package model

import "time"

// TimeLayout is the string encoding used for every timestamp the app stores.
// The backend documents predate this codebase, so the layout is fixed.
const TimeLayout = "2006-01-02 15:04:05"

// FormatTime encodes t with the app layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime decodes a stored timestamp. The zero time and an error are
// returned for values that don't match the layout.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
