package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Velora-Rentals/service-rental/internal/auth"
	"github.com/Velora-Rentals/service-rental/internal/domain"
	bookingDomain "github.com/Velora-Rentals/service-rental/internal/domain/booking"
	reviewDomain "github.com/Velora-Rentals/service-rental/internal/domain/review"
)

// CreateReviewRequest is the request DTO for reviewing a completed booking.
type CreateReviewRequest struct {
	BookingID uuid.UUID `json:"booking_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required"`
	Comment   string    `json:"comment"`
}

// ReviewDTO is the API response representation of a review.
type ReviewDTO struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	BookingID uuid.UUID `json:"booking_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewService gates review creation: one review per booking, written by
// its renter, only after completion.
type ReviewService struct {
	reviews  reviewDomain.ReviewRepository
	bookings bookingDomain.BookingRepository
	logger   *zap.Logger
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews reviewDomain.ReviewRepository, bookings bookingDomain.BookingRepository, logger *zap.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, bookings: bookings, logger: logger}
}

// CreateReview attaches a review to a completed booking owned by the caller.
func (s *ReviewService) CreateReview(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*ReviewDTO, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, domain.NewInvalidRatingError(req.Rating)
	}

	bk, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if bk.UserID() != userID {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	if bk.Status() != bookingDomain.StatusCompleted {
		return nil, domain.NewBookingNotCompletedError(bk.ID().String())
	}

	exists, err := s.reviews.ExistsForUserAndBooking(ctx, userID, bk.ID())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.NewDuplicateReviewError(bk.ID().String())
	}

	rv, err := reviewDomain.NewReview(userID, bk.ID(), req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}

	// The unique (user_id, booking_id) index backs this up; a race between
	// the existence check and the insert still yields DUPLICATE_REVIEW.
	if err := s.reviews.Save(ctx, rv); err != nil {
		return nil, err
	}

	result := toReviewDTO(rv)
	return &result, nil
}

// GetBookingReview retrieves the review attached to a booking, if any.
func (s *ReviewService) GetBookingReview(ctx context.Context, bookingID uuid.UUID) (*ReviewDTO, error) {
	rv, err := s.reviews.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	result := toReviewDTO(rv)
	return &result, nil
}

// DeleteReview removes a review. Only admins may delete reviews; the
// deletion is audited in the service log.
func (s *ReviewService) DeleteReview(ctx context.Context, actorID uuid.UUID, actorRole auth.Role, reviewID uuid.UUID) (*ReviewDTO, error) {
	if actorRole != auth.RoleAdmin {
		return nil, domain.NewForbiddenError("only admins can delete reviews")
	}

	rv, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := s.reviews.Delete(ctx, rv.ID()); err != nil {
		return nil, err
	}

	s.logger.Info("review deleted by admin",
		zap.String("review_id", rv.ID().String()),
		zap.String("booking_id", rv.BookingID().String()),
		zap.String("admin_id", actorID.String()),
	)

	result := toReviewDTO(rv)
	return &result, nil
}

func toReviewDTO(rv *reviewDomain.Review) ReviewDTO {
	return ReviewDTO{
		ID:        rv.ID(),
		UserID:    rv.UserID(),
		BookingID: rv.BookingID(),
		Rating:    rv.Rating(),
		Comment:   rv.Comment(),
		CreatedAt: rv.CreatedAt(),
	}
}
