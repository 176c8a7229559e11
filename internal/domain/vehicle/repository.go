package vehicle

import (
	"context"

	"github.com/google/uuid"
)

// VehicleRepository defines the persistence contract for vehicle aggregates.
//
// MarkRented and MarkAvailable are side-effect-only projection writes; the
// booking repository applies the equivalent writes inside the transaction
// that mutates the booking, so these standalone forms exist for owner-driven
// corrections and tests.
type VehicleRepository interface {
	// FindByID retrieves a vehicle by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)

	// FindByOwnerID retrieves vehicles listed by a specific agent with pagination.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*Vehicle, int64, error)

	// ListAvailable retrieves active, available vehicles with pagination.
	ListAvailable(ctx context.Context, page, limit int) ([]*Vehicle, int64, error)

	// Save persists a new vehicle.
	Save(ctx context.Context, v *Vehicle) error

	// Update persists changes to an existing vehicle with optimistic locking.
	Update(ctx context.Context, v *Vehicle) error

	// MarkRented idempotently sets the status projection to rented.
	MarkRented(ctx context.Context, id uuid.UUID) error

	// MarkAvailable idempotently sets the status projection to available.
	MarkAvailable(ctx context.Context, id uuid.UUID) error

	// Delete removes a vehicle. Implementations must reject the delete while
	// accepted or future-dated bookings still reference the vehicle.
	Delete(ctx context.Context, id uuid.UUID) error
}
