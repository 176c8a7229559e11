package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByReference retrieves a booking by its human-readable reference.
	FindByReference(ctx context.Context, reference string) (*Booking, error)

	// FindByUserID retrieves bookings made by a specific renter with pagination.
	FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindByVehicleID retrieves bookings for a specific vehicle with pagination.
	FindByVehicleID(ctx context.Context, vehicleID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindCancellableByUserID retrieves the renter's bookings that can still
	// be cancelled (pending or confirmed).
	FindCancellableByUserID(ctx context.Context, userID uuid.UUID) ([]*Booking, error)

	// CountBlockingForVehicle counts the bookings that block vehicle
	// deletion: every booking still in an accepted status, future-dated ones
	// included.
	CountBlockingForVehicle(ctx context.Context, vehicleID uuid.UUID) (int64, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Create persists a new pending booking. The overlap check against all
	// accepted bookings on the same vehicle, the bookability re-check, the
	// insert, and the vehicle's flip to rented must execute as one
	// transactional unit serialized per vehicle, so that of two concurrent
	// creates with overlapping intervals exactly one succeeds.
	Create(ctx context.Context, b *Booking) error

	// Update persists a status transition with optimistic locking and, in the
	// same transaction, re-derives the vehicle's status projection from the
	// remaining accepted bookings.
	Update(ctx context.Context, b *Booking) error
}
