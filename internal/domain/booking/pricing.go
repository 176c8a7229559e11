package booking

import (
	"fmt"
	"math"
	"time"
)

// PricingStrategy defines the interface for calculating rental prices.
type PricingStrategy interface {
	// Calculate returns the total price in cents for renting at the given
	// daily rate over [start, end).
	Calculate(pricePerDayCents int64, start, end time.Time) (int64, error)
}

// DailyRatePricingStrategy implements the standard rental pricing rule:
// whole days rounded up, minimum one day, days times the daily rate. No
// intermediate rounding; the result is exact in cents.
type DailyRatePricingStrategy struct{}

// NewDailyRatePricingStrategy creates a new DailyRatePricingStrategy.
func NewDailyRatePricingStrategy() *DailyRatePricingStrategy {
	return &DailyRatePricingStrategy{}
}

// Calculate computes the total price in cents.
func (s *DailyRatePricingStrategy) Calculate(pricePerDayCents int64, start, end time.Time) (int64, error) {
	if pricePerDayCents <= 0 {
		return 0, fmt.Errorf("price per day must be positive, got %d", pricePerDayCents)
	}
	if end.Before(start) {
		return 0, fmt.Errorf("end date %s is before start date %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	days := int64(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}

	return days * pricePerDayCents, nil
}
