package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/Velora-Rentals/service-rental/internal/domain"
)

// Review is the aggregate root for a renter's review of a completed booking.
// A review is written once and never mutated; admins may delete it.
type Review struct {
	id        uuid.UUID
	userID    uuid.UUID
	bookingID uuid.UUID
	rating    int
	comment   string
	createdAt time.Time
}

// NewReview creates a review with a validated rating.
func NewReview(userID, bookingID uuid.UUID, rating int, comment string) (*Review, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if bookingID == uuid.Nil {
		return nil, domain.NewValidationError("booking ID is required")
	}
	if rating < 1 || rating > 5 {
		return nil, domain.NewInvalidRatingError(rating)
	}

	return &Review{
		id:        uuid.New(),
		userID:    userID,
		bookingID: bookingID,
		rating:    rating,
		comment:   comment,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructReview rebuilds a Review from persistence data (no validation).
func ReconstructReview(id, userID, bookingID uuid.UUID, rating int, comment string, createdAt time.Time) *Review {
	return &Review{
		id:        id,
		userID:    userID,
		bookingID: bookingID,
		rating:    rating,
		comment:   comment,
		createdAt: createdAt,
	}
}

// ID returns the review's unique identifier.
func (r *Review) ID() uuid.UUID { return r.id }

// UserID returns the reviewing renter's user ID.
func (r *Review) UserID() uuid.UUID { return r.userID }

// BookingID returns the reviewed booking's ID.
func (r *Review) BookingID() uuid.UUID { return r.bookingID }

// Rating returns the star rating in [1,5].
func (r *Review) Rating() int { return r.rating }

// Comment returns the optional free-text comment.
func (r *Review) Comment() string { return r.comment }

// CreatedAt returns the creation timestamp.
func (r *Review) CreatedAt() time.Time { return r.createdAt }
