package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/Velora-Rentals/service-rental/internal/domain"
)

const referenceChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for the rental booking domain.
type Booking struct {
	id              uuid.UUID
	reference       string
	userID          uuid.UUID
	vehicleID       uuid.UUID
	dates           DateRange
	status          Status
	totalPriceCents int64
	currency        string
	pickupLocation  string
	returnLocation  string
	notes           string

	confirmedAt *time.Time
	activatedAt *time.Time
	completedAt *time.Time
	cancelledAt *time.Time
	cancelNote  string

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateReference creates a booking reference in the format "RN-XXXXXX".
func generateReference() (string, error) {
	result := make([]byte, 6)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referenceChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking reference: %w", err)
		}
		result[i] = referenceChars[n.Int64()]
	}
	return "RN-" + string(result), nil
}

// NewBooking creates a new Booking aggregate with status=pending.
func NewBooking(
	userID uuid.UUID,
	vehicleID uuid.UUID,
	dates DateRange,
	totalPriceCents int64,
	currency string,
	pickupLocation, returnLocation, notes string,
) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, domain.NewValidationError("user ID is required")
	}
	if vehicleID == uuid.Nil {
		return nil, domain.NewValidationError("vehicle ID is required")
	}
	if totalPriceCents <= 0 {
		return nil, domain.NewValidationError("total price must be positive")
	}

	reference, err := generateReference()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		reference:       reference,
		userID:          userID,
		vehicleID:       vehicleID,
		dates:           dates,
		status:          StatusPending,
		totalPriceCents: totalPriceCents,
		currency:        currency,
		pickupLocation:  pickupLocation,
		returnLocation:  returnLocation,
		notes:           notes,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	reference string,
	userID, vehicleID uuid.UUID,
	dates DateRange,
	status Status,
	totalPriceCents int64,
	currency string,
	pickupLocation, returnLocation, notes string,
	confirmedAt, activatedAt, completedAt, cancelledAt *time.Time,
	cancelNote string,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		reference:       reference,
		userID:          userID,
		vehicleID:       vehicleID,
		dates:           dates,
		status:          status,
		totalPriceCents: totalPriceCents,
		currency:        currency,
		pickupLocation:  pickupLocation,
		returnLocation:  returnLocation,
		notes:           notes,
		confirmedAt:     confirmedAt,
		activatedAt:     activatedAt,
		completedAt:     completedAt,
		cancelledAt:     cancelledAt,
		cancelNote:      cancelNote,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

// ID returns the booking's unique identifier.
func (b *Booking) ID() uuid.UUID { return b.id }

// Reference returns the human-readable booking reference.
func (b *Booking) Reference() string { return b.reference }

// UserID returns the renter's user ID.
func (b *Booking) UserID() uuid.UUID { return b.userID }

// VehicleID returns the booked vehicle's ID.
func (b *Booking) VehicleID() uuid.UUID { return b.vehicleID }

// Dates returns the rental interval.
func (b *Booking) Dates() DateRange { return b.dates }

// Status returns the current booking status.
func (b *Booking) Status() Status { return b.status }

// TotalPriceCents returns the price computed at creation, immutable thereafter.
func (b *Booking) TotalPriceCents() int64 { return b.totalPriceCents }

// Currency returns the currency code.
func (b *Booking) Currency() string { return b.currency }

// PickupLocation returns the agreed pickup location, if any.
func (b *Booking) PickupLocation() string { return b.pickupLocation }

// ReturnLocation returns the agreed return location, if any.
func (b *Booking) ReturnLocation() string { return b.returnLocation }

// Notes returns any additional notes for the booking.
func (b *Booking) Notes() string { return b.notes }

// ConfirmedAt returns the time the booking was confirmed.
func (b *Booking) ConfirmedAt() *time.Time { return b.confirmedAt }

// ActivatedAt returns the time the rental was handed over.
func (b *Booking) ActivatedAt() *time.Time { return b.activatedAt }

// CompletedAt returns the time the vehicle was returned.
func (b *Booking) CompletedAt() *time.Time { return b.completedAt }

// CancelledAt returns the time the booking was cancelled.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// CancelNote returns the cancellation reason.
func (b *Booking) CancelNote() string { return b.cancelNote }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Confirm transitions the booking from pending to confirmed.
func (b *Booking) Confirm() error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusConfirmed))
	}
	now := time.Now().UTC()
	b.status = StatusConfirmed
	b.confirmedAt = &now
	b.updatedAt = now
	return nil
}

// Activate transitions the booking from confirmed to active at handover.
func (b *Booking) Activate() error {
	if !b.status.CanTransitionTo(StatusActive) {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusActive))
	}
	now := time.Now().UTC()
	b.status = StatusActive
	b.activatedAt = &now
	b.updatedAt = now
	return nil
}

// Complete transitions the booking from active to completed on return.
func (b *Booking) Complete() error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusCompleted))
	}
	now := time.Now().UTC()
	b.status = StatusCompleted
	b.completedAt = &now
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking to cancelled while still cancellable.
func (b *Booking) Cancel(reason string) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidTransitionError(string(b.status), string(StatusCancelled))
	}
	now := time.Now().UTC()
	b.status = StatusCancelled
	b.cancelNote = reason
	b.cancelledAt = &now
	b.updatedAt = now
	return nil
}

// TransitionTo dispatches to the behavior method for the target status.
// Cancellation carries no reason through this path; use Cancel directly when
// one is available.
func (b *Booking) TransitionTo(target Status) error {
	switch target {
	case StatusConfirmed:
		return b.Confirm()
	case StatusActive:
		return b.Activate()
	case StatusCompleted:
		return b.Complete()
	case StatusCancelled:
		return b.Cancel("")
	default:
		return domain.NewInvalidTransitionError(string(b.status), string(target))
	}
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
