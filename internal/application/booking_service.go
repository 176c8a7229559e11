package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Velora-Rentals/service-rental/internal/auth"
	"github.com/Velora-Rentals/service-rental/internal/domain"
	bookingDomain "github.com/Velora-Rentals/service-rental/internal/domain/booking"
	vehicleDomain "github.com/Velora-Rentals/service-rental/internal/domain/vehicle"
	"github.com/Velora-Rentals/service-rental/internal/events"
	"github.com/Velora-Rentals/service-rental/internal/kafka"
)

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	VehicleID      uuid.UUID `json:"vehicle_id" binding:"required"`
	StartDate      time.Time `json:"start_date" binding:"required"`
	EndDate        time.Time `json:"end_date" binding:"required"`
	PickupLocation string    `json:"pickup_location"`
	ReturnLocation string    `json:"return_location"`
	Notes          string    `json:"notes"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID  `json:"id"`
	Reference       string     `json:"reference"`
	UserID          uuid.UUID  `json:"user_id"`
	VehicleID       uuid.UUID  `json:"vehicle_id"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	Status          string     `json:"status"`
	TotalPriceCents int64      `json:"total_price_cents"`
	Currency        string     `json:"currency"`
	PickupLocation  string     `json:"pickup_location,omitempty"`
	ReturnLocation  string     `json:"return_location,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	ActivatedAt     *time.Time `json:"activated_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CancelNote      string     `json:"cancel_note,omitempty"`
	Version         int64      `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// BookingPolicy holds the tunable rules the engine enforces at create time.
type BookingPolicy struct {
	// MaxRentalDays caps the rental span in whole days; zero disables the cap.
	MaxRentalDays int
}

// BookingService is the application service orchestrating the booking engine:
// conflict-checked creation, the role-guarded status lifecycle, and the
// notification side effects of each transition.
type BookingService struct {
	bookings bookingDomain.BookingRepository
	vehicles vehicleDomain.VehicleRepository
	pricing  bookingDomain.PricingStrategy
	producer *kafka.Producer
	policy   BookingPolicy
	logger   *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	vehicles vehicleDomain.VehicleRepository,
	pricing bookingDomain.PricingStrategy,
	producer *kafka.Producer,
	policy BookingPolicy,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings: bookings,
		vehicles: vehicles,
		pricing:  pricing,
		producer: producer,
		policy:   policy,
		logger:   logger,
	}
}

// CreateBooking creates a new pending booking for the given renter. The
// overlap check and insert run atomically in the repository; a vehicle with
// an accepted booking in the requested window rejects with
// OVERLAPPING_BOOKING.
func (s *BookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	vehicle, err := s.vehicles.FindByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.AcceptsBookings() {
		return nil, domain.NewVehicleUnavailableError(vehicle.ID().String())
	}

	dates, err := bookingDomain.NewDateRange(req.StartDate, req.EndDate, time.Now().UTC(), s.policy.MaxRentalDays)
	if err != nil {
		return nil, err
	}

	priceCents, err := s.pricing.Calculate(vehicle.PricePerDayCents(), dates.Start(), dates.End())
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("pricing error: %v", err))
	}

	bk, err := bookingDomain.NewBooking(
		userID,
		vehicle.ID(),
		dates,
		priceCents,
		vehicle.Currency(),
		req.PickupLocation,
		req.ReturnLocation,
		req.Notes,
	)
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Create(ctx, bk); err != nil {
		return nil, err
	}

	s.publishBookingRequested(ctx, bk)

	result := toBookingDTO(bk)
	return &result, nil
}

// CreateBookingForCustomer lets an agent or admin book on a customer's
// behalf; the booking belongs to the customer, all other guards are the same.
func (s *BookingService) CreateBookingForCustomer(ctx context.Context, actorRole auth.Role, customerID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	if !actorRole.CanManageBookings() {
		return nil, domain.NewForbiddenError("only agents and admins may book on a customer's behalf")
	}
	if customerID == uuid.Nil {
		return nil, domain.NewValidationError("customer ID is required")
	}
	return s.CreateBooking(ctx, customerID, req)
}

// Transition applies a confirm/activate/complete move to a booking. The
// target status decides the capability required; cancellation goes through
// CancelBooking so ownership can be honored.
func (s *BookingService) Transition(ctx context.Context, actorID uuid.UUID, actorRole auth.Role, bookingID uuid.UUID, target bookingDomain.Status) (*BookingDTO, error) {
	if target == bookingDomain.StatusCancelled {
		return s.CancelBooking(ctx, actorID, actorRole, bookingID, "")
	}
	if !actorRole.CanManageBookings() {
		return nil, domain.NewForbiddenError("only agents and admins may drive booking transitions")
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	from := bk.Status()
	if err := bk.TransitionTo(target); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, bk, actorID, from, eventTypeFor(target))

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a pending or confirmed booking. Allowed for the
// booking's owner and for agents/admins; anyone else is rejected.
func (s *BookingService) CancelBooking(ctx context.Context, actorID uuid.UUID, actorRole auth.Role, bookingID uuid.UUID, reason string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if bk.UserID() != actorID && !actorRole.CanManageBookings() {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	from := bk.Status()
	if err := bk.Cancel(reason); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	s.publishStatusChanged(ctx, bk, actorID, from, events.BookingCancelled)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelAllForUser cancels every still-cancellable booking of a user. Driven
// by account-deactivation events; individual failures are logged and do not
// stop the sweep.
func (s *BookingService) CancelAllForUser(ctx context.Context, userID uuid.UUID, reason string) error {
	cancellable, err := s.bookings.FindCancellableByUserID(ctx, userID)
	if err != nil {
		return err
	}

	for _, bk := range cancellable {
		from := bk.Status()
		if err := bk.Cancel(reason); err != nil {
			continue
		}
		bk.IncrementVersion()
		if err := s.bookings.Update(ctx, bk); err != nil {
			s.logger.Error("failed to cancel booking for deactivated user",
				zap.String("booking_id", bk.ID().String()),
				zap.Error(err),
			)
			continue
		}
		s.publishStatusChanged(ctx, bk, userID, from, events.BookingCancelled)
	}
	return nil
}

// GetBooking retrieves a single booking by ID, visible to its renter and to
// agents/admins.
func (s *BookingService) GetBooking(ctx context.Context, actorID uuid.UUID, actorRole auth.Role, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if bk.UserID() != actorID && !actorRole.CanManageBookings() {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// GetUserBookings retrieves paginated bookings for a specific renter.
func (s *BookingService) GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// GetVehicleBookings retrieves paginated bookings for one vehicle (agent view).
func (s *BookingService) GetVehicleBookings(ctx context.Context, vehicleID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindByVehicleID(ctx, vehicleID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return toBookingDTOs(bookings), total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{TotalBookings: total, ByStatus: counts}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		Reference:       bk.Reference(),
		UserID:          bk.UserID(),
		VehicleID:       bk.VehicleID(),
		StartDate:       bk.Dates().Start(),
		EndDate:         bk.Dates().End(),
		Status:          string(bk.Status()),
		TotalPriceCents: bk.TotalPriceCents(),
		Currency:        bk.Currency(),
		PickupLocation:  bk.PickupLocation(),
		ReturnLocation:  bk.ReturnLocation(),
		Notes:           bk.Notes(),
		ConfirmedAt:     bk.ConfirmedAt(),
		ActivatedAt:     bk.ActivatedAt(),
		CompletedAt:     bk.CompletedAt(),
		CancelledAt:     bk.CancelledAt(),
		CancelNote:      bk.CancelNote(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func toBookingDTOs(bookings []*bookingDomain.Booking) []BookingDTO {
	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos
}

func eventTypeFor(target bookingDomain.Status) string {
	switch target {
	case bookingDomain.StatusConfirmed:
		return events.BookingConfirmed
	case bookingDomain.StatusActive:
		return events.BookingActivated
	case bookingDomain.StatusCompleted:
		return events.BookingCompleted
	default:
		return events.BookingCancelled
	}
}

func (s *BookingService) publishBookingRequested(ctx context.Context, bk *bookingDomain.Booking) {
	evt := events.BookingRequestedEvent{
		BookingID:  bk.ID(),
		Reference:  bk.Reference(),
		UserID:     bk.UserID(),
		VehicleID:  bk.VehicleID(),
		StartDate:  bk.Dates().Start(),
		EndDate:    bk.Dates().End(),
		TotalPrice: bk.TotalPriceCents(),
		Currency:   bk.Currency(),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicRentalEvents, events.BookingRequested, evt)
}

func (s *BookingService) publishStatusChanged(ctx context.Context, bk *bookingDomain.Booking, actorID uuid.UUID, from bookingDomain.Status, eventType string) {
	evt := events.BookingStatusChangedEvent{
		BookingID:  bk.ID(),
		Reference:  bk.Reference(),
		UserID:     bk.UserID(),
		VehicleID:  bk.VehicleID(),
		ActorID:    actorID,
		FromStatus: string(from),
		ToStatus:   string(bk.Status()),
		OccurredAt: time.Now().UTC(),
	}
	s.publishEvent(ctx, events.TopicRentalEvents, eventType, evt)
}

// publishEvent is fire-and-forget: a notification failure is logged and never
// rolls back or blocks the state transition it follows.
func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	if s.producer == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent("service-rental", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
