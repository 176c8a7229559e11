package events

import (
	"time"

	"github.com/google/uuid"
)

// Topics this service produces to and consumes from.
const (
	TopicRentalEvents = "rental.events"
	TopicUserEvents   = "user.events"
)

// Event types on rental.events.
const (
	BookingRequested = "rental.booking.requested"
	BookingConfirmed = "rental.booking.confirmed"
	BookingActivated = "rental.booking.activated"
	BookingCompleted = "rental.booking.completed"
	BookingCancelled = "rental.booking.cancelled"
)

// Event types on user.events (produced by the identity service).
const (
	UserDeactivated = "user.account.deactivated"
)

// BookingRequestedEvent is published when a booking is created. Downstream,
// the notification service uses booking.confirmed as its confirmation-email
// trigger.
type BookingRequestedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Reference  string    `json:"reference"`
	UserID     uuid.UUID `json:"user_id"`
	VehicleID  uuid.UUID `json:"vehicle_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	TotalPrice int64     `json:"total_price_cents"`
	Currency   string    `json:"currency"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BookingStatusChangedEvent is published for confirm/activate/complete/cancel
// transitions.
type BookingStatusChangedEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	Reference  string    `json:"reference"`
	UserID     uuid.UUID `json:"user_id"`
	VehicleID  uuid.UUID `json:"vehicle_id"`
	ActorID    uuid.UUID `json:"actor_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// UserDeactivatedEvent is consumed from user.events when the identity service
// deactivates an account.
type UserDeactivatedEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
