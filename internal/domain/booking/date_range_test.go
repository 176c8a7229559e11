package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Velora-Rentals/service-rental/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewDateRange(t *testing.T) {
	today := day(2025, time.June, 1)

	r, err := NewDateRange(day(2025, time.June, 10), day(2025, time.June, 12), today, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Days())

	// Time-of-day noise normalizes to UTC midnight.
	noisy := time.Date(2025, time.June, 10, 17, 45, 3, 0, time.UTC)
	r, err = NewDateRange(noisy, day(2025, time.June, 12), today, 0)
	require.NoError(t, err)
	assert.Equal(t, day(2025, time.June, 10), r.Start())
}

func TestNewDateRangeRejectsInvalidRanges(t *testing.T) {
	today := day(2025, time.June, 1)

	cases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"end before start", day(2025, time.June, 12), day(2025, time.June, 10)},
		{"zero length", day(2025, time.June, 10), day(2025, time.June, 10)},
		{"start in the past", day(2025, time.May, 20), day(2025, time.June, 10)},
		{"missing start", time.Time{}, day(2025, time.June, 10)},
		{"missing end", day(2025, time.June, 10), time.Time{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewDateRange(tc.start, tc.end, today, 0)
			require.Error(t, err)
			assert.Equal(t, domain.CodeInvalidDateRange, domain.CodeOf(err))
		})
	}
}

func TestNewDateRangeMaxSpan(t *testing.T) {
	today := day(2025, time.June, 1)

	_, err := NewDateRange(day(2025, time.June, 10), day(2025, time.July, 9), today, 30)
	assert.NoError(t, err)

	_, err = NewDateRange(day(2025, time.June, 10), day(2025, time.July, 15), today, 30)
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidDateRange, domain.CodeOf(err))

	// Zero disables the cap.
	_, err = NewDateRange(day(2025, time.June, 10), day(2026, time.June, 10), today, 0)
	assert.NoError(t, err)
}

func TestDateRangeOverlaps(t *testing.T) {
	base := ReconstructDateRange(day(2025, time.June, 10), day(2025, time.June, 12))

	tests := []struct {
		name     string
		other    DateRange
		overlaps bool
	}{
		{"identical", ReconstructDateRange(day(2025, time.June, 10), day(2025, time.June, 12)), true},
		{"contained", ReconstructDateRange(day(2025, time.June, 10), day(2025, time.June, 11)), true},
		{"straddles start", ReconstructDateRange(day(2025, time.June, 9), day(2025, time.June, 11)), true},
		{"straddles end", ReconstructDateRange(day(2025, time.June, 11), day(2025, time.June, 14)), true},
		{"adjacent after", ReconstructDateRange(day(2025, time.June, 12), day(2025, time.June, 14)), false},
		{"adjacent before", ReconstructDateRange(day(2025, time.June, 8), day(2025, time.June, 10)), false},
		{"disjoint", ReconstructDateRange(day(2025, time.June, 20), day(2025, time.June, 22)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, base.Overlaps(tt.other))
			assert.Equal(t, tt.overlaps, tt.other.Overlaps(base))
		})
	}
}
