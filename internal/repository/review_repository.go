package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Velora-Rentals/service-rental/internal/domain"
	reviewDomain "github.com/Velora-Rentals/service-rental/internal/domain/review"
)

// ReviewModel is the GORM model for the reviews table. The composite unique
// index on (user_id, booking_id) is the last line of defense against
// concurrent duplicate submissions.
type ReviewModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_booking"`
	BookingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_user_booking"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"size:2000"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ReviewModel) TableName() string {
	return "reviews"
}

// GormReviewRepository is the GORM-based implementation of ReviewRepository.
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository.
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID retrieves a review by its unique identifier.
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*reviewDomain.Review, error) {
	var model ReviewModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Review", id.String())
		}
		return nil, fmt.Errorf("failed to find review by ID: %w", err)
	}
	return toDomainReview(&model), nil
}

// FindByBookingID retrieves the review attached to a booking.
func (r *GormReviewRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*reviewDomain.Review, error) {
	var model ReviewModel
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Review", bookingID.String())
		}
		return nil, fmt.Errorf("failed to find review by booking: %w", err)
	}
	return toDomainReview(&model), nil
}

// ExistsForUserAndBooking reports whether the user already reviewed the booking.
func (r *GormReviewRepository) ExistsForUserAndBooking(ctx context.Context, userID, bookingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ReviewModel{}).
		Where("user_id = ? AND booking_id = ?", userID, bookingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}
	return count > 0, nil
}

// Save persists a new review. A unique-constraint violation surfaces as a
// duplicate-review domain error.
func (r *GormReviewRepository) Save(ctx context.Context, rev *reviewDomain.Review) error {
	model := toReviewModel(rev)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewDuplicateReviewError(model.BookingID.String())
		}
		return fmt.Errorf("failed to save review: %w", err)
	}
	return nil
}

// Delete removes a review (admin moderation).
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&ReviewModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Review", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toReviewModel(rev *reviewDomain.Review) *ReviewModel {
	return &ReviewModel{
		ID:        rev.ID(),
		UserID:    rev.UserID(),
		BookingID: rev.BookingID(),
		Rating:    rev.Rating(),
		Comment:   rev.Comment(),
		CreatedAt: rev.CreatedAt(),
	}
}

func toDomainReview(m *ReviewModel) *reviewDomain.Review {
	return reviewDomain.ReconstructReview(m.ID, m.UserID, m.BookingID, m.Rating, m.Comment, m.CreatedAt)
}
