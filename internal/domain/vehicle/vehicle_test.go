package vehicle

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Velora-Rentals/service-rental/internal/domain"
)

func newTestVehicle(t *testing.T) *Vehicle {
	t.Helper()
	v, err := NewVehicle(uuid.New(), "B-RT 1234", "WVWZZZ1JZXW000001", "Volkswagen", "Golf", 2022, 4500, "EUR")
	require.NoError(t, err)
	return v
}

func TestNewVehicle(t *testing.T) {
	v := newTestVehicle(t)

	assert.Equal(t, StatusAvailable, v.Status())
	assert.True(t, v.IsActive())
	assert.True(t, v.IsBookable())
	assert.True(t, v.AcceptsBookings())
	assert.Equal(t, int64(1), v.Version())
}

func TestNewVehicleValidation(t *testing.T) {
	_, err := NewVehicle(uuid.Nil, "B-RT 1234", "VIN", "VW", "Golf", 2022, 4500, "EUR")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = NewVehicle(uuid.New(), "", "VIN", "VW", "Golf", 2022, 4500, "EUR")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = NewVehicle(uuid.New(), "B-RT 1234", "", "VW", "Golf", 2022, 4500, "EUR")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	_, err = NewVehicle(uuid.New(), "B-RT 1234", "VIN", "VW", "Golf", 2022, 0, "EUR")
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestMarkRentedAndAvailable(t *testing.T) {
	v := newTestVehicle(t)

	v.MarkRented()
	assert.Equal(t, StatusRented, v.Status())
	assert.False(t, v.IsBookable())
	assert.True(t, v.AcceptsBookings(), "rented vehicles still accept non-overlapping windows")

	// Idempotent both ways.
	v.MarkRented()
	assert.Equal(t, StatusRented, v.Status())

	v.MarkAvailable()
	assert.Equal(t, StatusAvailable, v.Status())
	v.MarkAvailable()
	assert.Equal(t, StatusAvailable, v.Status())
}

func TestProjectionWritesSkipSuspensions(t *testing.T) {
	v := newTestVehicle(t)
	require.NoError(t, v.Suspend(StatusMaintenance))

	v.MarkRented()
	assert.Equal(t, StatusMaintenance, v.Status())

	v.MarkAvailable()
	assert.Equal(t, StatusMaintenance, v.Status())
}

func TestSuspend(t *testing.T) {
	v := newTestVehicle(t)

	err := v.Suspend(StatusRented)
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))

	require.NoError(t, v.Suspend(StatusOutOfService))
	assert.False(t, v.AcceptsBookings())
	assert.False(t, v.IsBookable())
}

func TestSuspendRejectedWhileRented(t *testing.T) {
	v := newTestVehicle(t)
	v.MarkRented()

	err := v.Suspend(StatusMaintenance)
	require.Error(t, err)
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))
	assert.Equal(t, StatusRented, v.Status())
}

func TestReinstate(t *testing.T) {
	v := newTestVehicle(t)

	err := v.Reinstate()
	require.Error(t, err)
	assert.Equal(t, domain.CodeConflict, domain.CodeOf(err))

	require.NoError(t, v.Suspend(StatusMaintenance))
	require.NoError(t, v.Reinstate())
	assert.Equal(t, StatusAvailable, v.Status())
}

func TestDeactivate(t *testing.T) {
	v := newTestVehicle(t)
	v.Deactivate()

	assert.False(t, v.IsActive())
	assert.False(t, v.IsBookable())
	assert.False(t, v.AcceptsBookings())

	v.Activate()
	assert.True(t, v.AcceptsBookings())
}

func TestUpdateListing(t *testing.T) {
	v := newTestVehicle(t)

	require.NoError(t, v.UpdateListing("Volkswagen", "Golf GTI", 2023, 5900))
	assert.Equal(t, "Golf GTI", v.Model())
	assert.Equal(t, int64(5900), v.PricePerDayCents())

	err := v.UpdateListing("Volkswagen", "Golf GTI", 2023, -1)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}
