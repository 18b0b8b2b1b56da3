package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := ParseYMD(s)
	require.NoError(t, err)
	return parsed
}

func TestParseYMDNormalizesToUTCMidnight(t *testing.T) {
	parsed := d(t, "2026-09-10")
	assert.Equal(t, time.UTC, parsed.Location())
	assert.Equal(t, 0, parsed.Hour())
	assert.Equal(t, "2026-09-10", FormatYMD(parsed))

	_, err := ParseYMD("10/09/2026")
	assert.Error(t, err)
	_, err = ParseYMD("")
	assert.Error(t, err)
}

func TestOverlapsHalfOpenSemantics(t *testing.T) {
	a1, a2 := d(t, "2026-09-10"), d(t, "2026-09-13")

	cases := []struct {
		name     string
		b1, b2   string
		overlaps bool
	}{
		{"identical", "2026-09-10", "2026-09-13", true},
		{"contained", "2026-09-11", "2026-09-12", true},
		{"straddles start", "2026-09-08", "2026-09-11", true},
		{"straddles end", "2026-09-12", "2026-09-15", true},
		{"surrounds", "2026-09-08", "2026-09-15", true},
		{"one shared night", "2026-09-12", "2026-09-13", true},
		{"adjacent before", "2026-09-07", "2026-09-10", false},
		{"adjacent after", "2026-09-13", "2026-09-16", false},
		{"disjoint before", "2026-09-01", "2026-09-05", false},
		{"disjoint after", "2026-09-20", "2026-09-22", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b1, b2 := d(t, tc.b1), d(t, tc.b2)
			assert.Equal(t, tc.overlaps, Overlaps(a1, a2, b1, b2))
			// Symmetric.
			assert.Equal(t, tc.overlaps, Overlaps(b1, b2, a1, a2))
		})
	}
}

func TestNights(t *testing.T) {
	assert.Equal(t, 3, Nights(d(t, "2026-09-10"), d(t, "2026-09-13")))
	assert.Equal(t, 1, Nights(d(t, "2026-09-10"), d(t, "2026-09-11")))
	// Degenerate input never charges less than one night.
	assert.Equal(t, 1, Nights(d(t, "2026-09-10"), d(t, "2026-09-10")))
}
