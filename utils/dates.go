package utils

import (
	"fmt"
	"time"
)

const ymdLayout = "2006-01-02"

// ParseYMD converts a "YYYY-MM-DD" string into a UTC-midnight instant.
// All booking intervals are normalized this way before any overlap test.
func ParseYMD(s string) (time.Time, error) {
	t, err := time.ParseInLocation(ymdLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatYMD renders a UTC instant as "YYYY-MM-DD".
func FormatYMD(t time.Time) string {
	return t.UTC().Format(ymdLayout)
}

// Overlaps reports whether the half-open intervals [startA, endA) and
// [startB, endB) intersect. Adjacent stays (checkout == next checkin) do not
// overlap.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && endA.After(startB)
}

// Nights returns the chargeable night count for [checkIn, checkOut),
// never less than one.
func Nights(checkIn, checkOut time.Time) int {
	n := int(checkOut.Sub(checkIn).Round(24*time.Hour) / (24 * time.Hour))
	if n < 1 {
		return 1
	}
	return n
}
