package vehicle

import (
	"time"

	"github.com/google/uuid"

	"github.com/Velora-Rentals/service-rental/internal/domain"
)

// Vehicle is the aggregate root for a rentable vehicle. Its status field is a
// cached projection of the vehicle's booking state: "rented" iff at least one
// accepted booking references it, "available" otherwise, unless the owner has
// forced a maintenance/out_of_service suspension.
type Vehicle struct {
	id               uuid.UUID
	ownerID          uuid.UUID
	licensePlate     string
	vin              string
	makeName         string
	model            string
	year             int
	pricePerDayCents int64
	currency         string
	status           Status
	isActive         bool
	version          int64
	createdAt        time.Time
	updatedAt        time.Time
}

// NewVehicle creates a new active vehicle listing with status=available.
func NewVehicle(
	ownerID uuid.UUID,
	licensePlate, vin, makeName, model string,
	year int,
	pricePerDayCents int64,
	currency string,
) (*Vehicle, error) {
	if ownerID == uuid.Nil {
		return nil, domain.NewValidationError("owner ID is required")
	}
	if licensePlate == "" {
		return nil, domain.NewValidationError("license plate is required")
	}
	if vin == "" {
		return nil, domain.NewValidationError("VIN is required")
	}
	if pricePerDayCents <= 0 {
		return nil, domain.NewValidationError("price per day must be positive")
	}

	now := time.Now().UTC()
	return &Vehicle{
		id:               uuid.New(),
		ownerID:          ownerID,
		licensePlate:     licensePlate,
		vin:              vin,
		makeName:         makeName,
		model:            model,
		year:             year,
		pricePerDayCents: pricePerDayCents,
		currency:         currency,
		status:           StatusAvailable,
		isActive:         true,
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// ReconstructVehicle rebuilds a Vehicle from persistence data (no validation).
func ReconstructVehicle(
	id, ownerID uuid.UUID,
	licensePlate, vin, makeName, model string,
	year int,
	pricePerDayCents int64,
	currency string,
	status Status,
	isActive bool,
	version int64,
	createdAt, updatedAt time.Time,
) *Vehicle {
	return &Vehicle{
		id:               id,
		ownerID:          ownerID,
		licensePlate:     licensePlate,
		vin:              vin,
		makeName:         makeName,
		model:            model,
		year:             year,
		pricePerDayCents: pricePerDayCents,
		currency:         currency,
		status:           status,
		isActive:         isActive,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// ID returns the vehicle's unique identifier.
func (v *Vehicle) ID() uuid.UUID { return v.id }

// OwnerID returns the owning agent's user ID.
func (v *Vehicle) OwnerID() uuid.UUID { return v.ownerID }

// LicensePlate returns the vehicle's license plate.
func (v *Vehicle) LicensePlate() string { return v.licensePlate }

// VIN returns the vehicle identification number.
func (v *Vehicle) VIN() string { return v.vin }

// Make returns the vehicle make.
func (v *Vehicle) Make() string { return v.makeName }

// Model returns the vehicle model.
func (v *Vehicle) Model() string { return v.model }

// Year returns the model year.
func (v *Vehicle) Year() int { return v.year }

// PricePerDayCents returns the daily rental rate in cents.
func (v *Vehicle) PricePerDayCents() int64 { return v.pricePerDayCents }

// Currency returns the currency code for the daily rate.
func (v *Vehicle) Currency() string { return v.currency }

// Status returns the current vehicle status.
func (v *Vehicle) Status() Status { return v.status }

// IsActive returns the listing flag; inactive vehicles are hidden and not bookable.
func (v *Vehicle) IsActive() bool { return v.isActive }

// Version returns the entity version for optimistic locking.
func (v *Vehicle) Version() int64 { return v.version }

// CreatedAt returns the creation timestamp.
func (v *Vehicle) CreatedAt() time.Time { return v.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (v *Vehicle) UpdatedAt() time.Time { return v.updatedAt }

// IsBookable reports whether the vehicle is rentable right now: active and
// with no accepted booking holding it. This is the cheap read-side answer for
// listings; the create path uses AcceptsBookings plus the overlap check.
func (v *Vehicle) IsBookable() bool {
	return v.isActive && v.status == StatusAvailable
}

// AcceptsBookings reports whether the vehicle is eligible for new bookings at
// all: active and not owner-suspended. A rented vehicle still accepts
// bookings for date windows its accepted bookings leave free; the overlap
// check decides per window.
func (v *Vehicle) AcceptsBookings() bool {
	return v.isActive && !v.status.IsSuspension()
}

// MarkRented flips the status projection to rented. Idempotent; does not
// overwrite an owner suspension. Callers are expected to have already
// validated the booking mutation that motivates the call.
func (v *Vehicle) MarkRented() {
	if v.status.IsSuspension() {
		return
	}
	v.status = StatusRented
	v.updatedAt = time.Now().UTC()
}

// MarkAvailable flips the status projection back to available. Idempotent;
// does not overwrite an owner suspension.
func (v *Vehicle) MarkAvailable() {
	if v.status.IsSuspension() {
		return
	}
	v.status = StatusAvailable
	v.updatedAt = time.Now().UTC()
}

// Suspend forces the vehicle into maintenance or out_of_service. Rejected
// while the vehicle is rented, since an accepted booking still references it.
func (v *Vehicle) Suspend(target Status) error {
	if !target.IsSuspension() {
		return domain.NewValidationError("suspension status must be maintenance or out_of_service")
	}
	if v.status == StatusRented {
		return domain.NewConflictError("vehicle has accepted bookings and cannot be suspended")
	}
	v.status = target
	v.updatedAt = time.Now().UTC()
	return nil
}

// Reinstate lifts an owner suspension, returning the vehicle to the pool.
func (v *Vehicle) Reinstate() error {
	if !v.status.IsSuspension() {
		return domain.NewConflictError("vehicle is not suspended")
	}
	v.status = StatusAvailable
	v.updatedAt = time.Now().UTC()
	return nil
}

// UpdateListing applies owner edits to the mutable listing fields.
func (v *Vehicle) UpdateListing(makeName, model string, year int, pricePerDayCents int64) error {
	if pricePerDayCents <= 0 {
		return domain.NewValidationError("price per day must be positive")
	}
	v.makeName = makeName
	v.model = model
	v.year = year
	v.pricePerDayCents = pricePerDayCents
	v.updatedAt = time.Now().UTC()
	return nil
}

// Deactivate soft-deletes the listing.
func (v *Vehicle) Deactivate() {
	v.isActive = false
	v.updatedAt = time.Now().UTC()
}

// Activate restores a soft-deleted listing.
func (v *Vehicle) Activate() {
	v.isActive = true
	v.updatedAt = time.Now().UTC()
}

// IncrementVersion bumps the version for optimistic locking.
func (v *Vehicle) IncrementVersion() {
	v.version++
	v.updatedAt = time.Now().UTC()
}
