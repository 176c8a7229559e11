package review

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Velora-Rentals/service-rental/internal/domain"
)

func TestNewReview(t *testing.T) {
	r, err := NewReview(uuid.New(), uuid.New(), 4, "smooth pickup, clean car")
	require.NoError(t, err)
	assert.Equal(t, 4, r.Rating())
	assert.NotEqual(t, uuid.Nil, r.ID())
}

func TestNewReviewRatingBounds(t *testing.T) {
	for _, rating := range []int{0, -1, 6, 100} {
		_, err := NewReview(uuid.New(), uuid.New(), rating, "")
		require.Error(t, err, "rating %d", rating)
		assert.Equal(t, domain.CodeInvalidRating, domain.CodeOf(err))
	}

	for rating := 1; rating <= 5; rating++ {
		_, err := NewReview(uuid.New(), uuid.New(), rating, "")
		assert.NoError(t, err, "rating %d", rating)
	}
}

func TestNewReviewValidation(t *testing.T) {
	_, err := NewReview(uuid.Nil, uuid.New(), 3, "")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = NewReview(uuid.New(), uuid.Nil, 3, "")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}
