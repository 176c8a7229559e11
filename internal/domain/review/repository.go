package review

import (
	"context"

	"github.com/google/uuid"
)

// ReviewRepository defines the persistence contract for reviews. The store
// enforces at most one review per (user, booking) pair with a unique index;
// Save surfaces a violation as a duplicate-review domain error.
type ReviewRepository interface {
	// FindByID retrieves a review by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByBookingID retrieves the review attached to a booking, if any.
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*Review, error)

	// ExistsForUserAndBooking reports whether the user already reviewed the booking.
	ExistsForUserAndBooking(ctx context.Context, userID, bookingID uuid.UUID) (bool, error)

	// Save persists a new review.
	Save(ctx context.Context, r *Review) error

	// Delete removes a review (admin only).
	Delete(ctx context.Context, id uuid.UUID) error
}
