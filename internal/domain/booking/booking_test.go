package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Velora-Rentals/service-rental/internal/domain"
)

func newTestBooking(t *testing.T) *Booking {
	t.Helper()
	dates := ReconstructDateRange(day(2025, time.June, 10), day(2025, time.June, 12))
	bk, err := NewBooking(uuid.New(), uuid.New(), dates, 5000, "EUR", "Berlin HBF", "Berlin HBF", "")
	require.NoError(t, err)
	return bk
}

func TestNewBooking(t *testing.T) {
	bk := newTestBooking(t)

	assert.Equal(t, StatusPending, bk.Status())
	assert.NotEqual(t, uuid.Nil, bk.ID())
	assert.Regexp(t, `^RN-[A-Z0-9]{6}$`, bk.Reference())
	assert.Equal(t, int64(5000), bk.TotalPriceCents())
	assert.Equal(t, int64(1), bk.Version())
	assert.Nil(t, bk.ConfirmedAt())
}

func TestNewBookingValidation(t *testing.T) {
	dates := ReconstructDateRange(day(2025, time.June, 10), day(2025, time.June, 12))

	_, err := NewBooking(uuid.Nil, uuid.New(), dates, 5000, "EUR", "", "", "")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = NewBooking(uuid.New(), uuid.Nil, dates, 5000, "EUR", "", "", "")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = NewBooking(uuid.New(), uuid.New(), dates, 0, "EUR", "", "", "")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestBookingHappyPathLifecycle(t *testing.T) {
	bk := newTestBooking(t)

	require.NoError(t, bk.Confirm())
	assert.Equal(t, StatusConfirmed, bk.Status())
	assert.NotNil(t, bk.ConfirmedAt())

	require.NoError(t, bk.Activate())
	assert.Equal(t, StatusActive, bk.Status())
	assert.NotNil(t, bk.ActivatedAt())

	require.NoError(t, bk.Complete())
	assert.Equal(t, StatusCompleted, bk.Status())
	assert.NotNil(t, bk.CompletedAt())
}

func TestBookingCancel(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Cancel("change of plans"))
	assert.Equal(t, StatusCancelled, bk.Status())
	assert.NotNil(t, bk.CancelledAt())
	assert.Equal(t, "change of plans", bk.CancelNote())

	// Cancelling again is an invalid transition, not a no-op.
	err := bk.Cancel("again")
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidTransition, domain.CodeOf(err))
}

func TestBookingCancelFromConfirmed(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Confirm())
	require.NoError(t, bk.Cancel(""))
	assert.Equal(t, StatusCancelled, bk.Status())
}

func TestBookingCancelFromActiveRejected(t *testing.T) {
	bk := newTestBooking(t)
	require.NoError(t, bk.Confirm())
	require.NoError(t, bk.Activate())

	err := bk.Cancel("too late")
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidTransition, domain.CodeOf(err))
	assert.Equal(t, StatusActive, bk.Status())
}

func TestBookingTransitionToRejectsSkips(t *testing.T) {
	bk := newTestBooking(t)

	err := bk.TransitionTo(StatusActive)
	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidTransition, domain.CodeOf(err))

	err = bk.TransitionTo(StatusCompleted)
	require.Error(t, err)
	assert.Equal(t, StatusPending, bk.Status())
}

func TestBookingIncrementVersion(t *testing.T) {
	bk := newTestBooking(t)
	bk.IncrementVersion()
	assert.Equal(t, int64(2), bk.Version())
}
