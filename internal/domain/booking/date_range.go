package booking

import (
	"fmt"
	"time"

	"github.com/Velora-Rentals/service-rental/internal/domain"
)

// DateRange is an immutable value object for the half-open rental interval
// [Start, End) measured in whole calendar days at UTC midnight.
type DateRange struct {
	start time.Time
	end   time.Time
}

// NormalizeDate truncates a timestamp to UTC midnight. Rental intervals are
// date-granular; times of day never participate in overlap decisions.
func NormalizeDate(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// NewDateRange validates and builds a rental interval. today anchors the
// "no booking in the past" rule; maxDays caps the span when positive and is
// ignored when zero.
func NewDateRange(start, end, today time.Time, maxDays int) (DateRange, error) {
	if start.IsZero() || end.IsZero() {
		return DateRange{}, domain.NewInvalidDateRangeError("start and end dates are required")
	}

	s := NormalizeDate(start)
	e := NormalizeDate(end)

	if !s.Before(e) {
		return DateRange{}, domain.NewInvalidDateRangeError("start date must be before end date")
	}
	if s.Before(NormalizeDate(today)) {
		return DateRange{}, domain.NewInvalidDateRangeError("start date must not be in the past")
	}
	if maxDays > 0 {
		if days := int(e.Sub(s).Hours() / 24); days > maxDays {
			return DateRange{}, domain.NewInvalidDateRangeError(
				fmt.Sprintf("rental span of %d days exceeds the %d-day limit", days, maxDays))
		}
	}

	return DateRange{start: s, end: e}, nil
}

// ReconstructDateRange rebuilds a range from persistence data (no validation).
func ReconstructDateRange(start, end time.Time) DateRange {
	return DateRange{start: NormalizeDate(start), end: NormalizeDate(end)}
}

// Start returns the first rented day (inclusive).
func (r DateRange) Start() time.Time { return r.start }

// End returns the day the vehicle is returned (exclusive).
func (r DateRange) End() time.Time { return r.end }

// Days returns the number of whole rented days.
func (r DateRange) Days() int {
	return int(r.end.Sub(r.start).Hours() / 24)
}

// Overlaps implements the half-open interval intersection test: two ranges
// overlap iff s1 < e2 AND s2 < e1. Touching endpoints are adjacent, not
// overlapping.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.start.Before(other.end) && other.start.Before(r.end)
}

// String renders the range as "2025-01-10..2025-01-12".
func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.start.Format("2006-01-02"), r.end.Format("2006-01-02"))
}
