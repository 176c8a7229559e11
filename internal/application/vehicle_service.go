package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Velora-Rentals/service-rental/internal/auth"
	"github.com/Velora-Rentals/service-rental/internal/domain"
	bookingDomain "github.com/Velora-Rentals/service-rental/internal/domain/booking"
	vehicleDomain "github.com/Velora-Rentals/service-rental/internal/domain/vehicle"
)

// CreateVehicleRequest is the request DTO for listing a new vehicle.
type CreateVehicleRequest struct {
	LicensePlate     string `json:"license_plate" binding:"required"`
	VIN              string `json:"vin" binding:"required"`
	Make             string `json:"make"`
	Model            string `json:"model"`
	Year             int    `json:"year"`
	PricePerDayCents int64  `json:"price_per_day_cents" binding:"required"`
	Currency         string `json:"currency"`
}

// UpdateVehicleRequest is the request DTO for owner edits to a listing.
type UpdateVehicleRequest struct {
	Make             string `json:"make"`
	Model            string `json:"model"`
	Year             int    `json:"year"`
	PricePerDayCents int64  `json:"price_per_day_cents"`
}

// VehicleDTO is the API response representation of a vehicle.
type VehicleDTO struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          uuid.UUID `json:"owner_id"`
	LicensePlate     string    `json:"license_plate"`
	VIN              string    `json:"vin"`
	Make             string    `json:"make,omitempty"`
	Model            string    `json:"model,omitempty"`
	Year             int       `json:"year,omitempty"`
	PricePerDayCents int64     `json:"price_per_day_cents"`
	Currency         string    `json:"currency"`
	Status           string    `json:"status"`
	IsActive         bool      `json:"is_active"`
	Version          int64     `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

const defaultCurrency = "EUR"

// VehicleService implements use cases for fleet listings: the registry the
// booking engine consults, plus the owner-facing mutations around it.
type VehicleService struct {
	vehicles vehicleDomain.VehicleRepository
	bookings bookingDomain.BookingRepository
	logger   *zap.Logger
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(vehicles vehicleDomain.VehicleRepository, bookings bookingDomain.BookingRepository, logger *zap.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, bookings: bookings, logger: logger}
}

// CreateVehicle lists a new vehicle owned by the calling agent.
func (s *VehicleService) CreateVehicle(ctx context.Context, ownerID uuid.UUID, req CreateVehicleRequest) (*VehicleDTO, error) {
	currency := req.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	v, err := vehicleDomain.NewVehicle(ownerID, req.LicensePlate, req.VIN, req.Make, req.Model, req.Year, req.PricePerDayCents, currency)
	if err != nil {
		return nil, err
	}

	if err := s.vehicles.Save(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("vehicle listed",
		zap.String("vehicle_id", v.ID().String()),
		zap.String("owner_id", ownerID.String()),
	)

	result := toVehicleDTO(v)
	return &result, nil
}

// GetVehicle retrieves a single vehicle by ID.
func (s *VehicleService) GetVehicle(ctx context.Context, vehicleID uuid.UUID) (*VehicleDTO, error) {
	v, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	result := toVehicleDTO(v)
	return &result, nil
}

// IsBookable reports whether a vehicle can currently accept a new booking.
// Served from a read-committed view; the create path re-checks under lock.
func (s *VehicleService) IsBookable(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	v, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		if domain.IsCode(err, domain.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return v.IsBookable(), nil
}

// ListAvailableVehicles retrieves the bookable fleet with pagination.
func (s *VehicleService) ListAvailableVehicles(ctx context.Context, page, limit int) (*domain.PaginatedResult[VehicleDTO], error) {
	vehicles, total, err := s.vehicles.ListAvailable(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toVehicleDTOs(vehicles), total, page, limit)
	return &result, nil
}

// GetOwnerVehicles retrieves an agent's listings with pagination.
func (s *VehicleService) GetOwnerVehicles(ctx context.Context, ownerID uuid.UUID, page, limit int) (*domain.PaginatedResult[VehicleDTO], error) {
	vehicles, total, err := s.vehicles.FindByOwnerID(ctx, ownerID, page, limit)
	if err != nil {
		return nil, err
	}
	result := domain.NewPaginatedResult(toVehicleDTOs(vehicles), total, page, limit)
	return &result, nil
}

// UpdateVehicle applies owner edits to a listing. Admins may edit any listing.
func (s *VehicleService) UpdateVehicle(ctx context.Context, actorID uuid.UUID, actorRole auth.Role, vehicleID uuid.UUID, req UpdateVehicleRequest) (*VehicleDTO, error) {
	v, err := s.ownedVehicle(ctx, actorID, actorRole, vehicleID)
	if err != nil {
		return nil, err
	}

	if err := v.UpdateListing(req.Make, req.Model, req.Year, req.PricePerDayCents); err != nil {
		return nil, err
	}

	v.IncrementVersion()
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}

	result := toVehicleDTO(v)
	return &result, nil
}

// SuspendVehicle forces a vehicle into maintenance or out_of_service,
// removing it from the booking pool outside the booking lifecycle.
func (s *VehicleService) SuspendVehicle(ctx context.Context, actorID uuid.UUID, actorRole auth.Role, vehicleID uuid.UUID, target vehicleDomain.Status) (*VehicleDTO, error) {
	v, err := s.ownedVehicle(ctx, actorID, actorRole, vehicleID)
	if err != nil {
		return nil, err
	}

	if err := v.Suspend(target); err != nil {
		return nil, err
	}

	v.IncrementVersion()
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("vehicle suspended",
		zap.String("vehicle_id", v.ID().String()),
		zap.String("status", v.Status().String()),
	)

	result := toVehicleDTO(v)
	return &result, nil
}

// ReinstateVehicle lifts an owner suspension.
func (s *VehicleService) ReinstateVehicle(ctx context.Context, actorID uuid.UUID, actorRole auth.Role, vehicleID uuid.UUID) (*VehicleDTO, error) {
	v, err := s.ownedVehicle(ctx, actorID, actorRole, vehicleID)
	if err != nil {
		return nil, err
	}

	if err := v.Reinstate(); err != nil {
		return nil, err
	}

	v.IncrementVersion()
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}

	result := toVehicleDTO(v)
	return &result, nil
}

// DeleteVehicle removes a listing. Rejected with CONFLICT while accepted or
// future-dated bookings still reference the vehicle; owners who only want the
// listing hidden should deactivate instead.
func (s *VehicleService) DeleteVehicle(ctx context.Context, actorID uuid.UUID, actorRole auth.Role, vehicleID uuid.UUID) error {
	v, err := s.ownedVehicle(ctx, actorID, actorRole, vehicleID)
	if err != nil {
		return err
	}

	blocking, err := s.bookings.CountBlockingForVehicle(ctx, v.ID())
	if err != nil {
		return err
	}
	if blocking > 0 {
		return domain.NewConflictError("vehicle has active or future bookings and cannot be deleted")
	}

	if err := s.vehicles.Delete(ctx, v.ID()); err != nil {
		return err
	}

	s.logger.Info("vehicle deleted",
		zap.String("vehicle_id", v.ID().String()),
		zap.String("actor_id", actorID.String()),
	)
	return nil
}

// DeactivateVehicle hides a listing without touching its booking history.
func (s *VehicleService) DeactivateVehicle(ctx context.Context, actorID uuid.UUID, actorRole auth.Role, vehicleID uuid.UUID) (*VehicleDTO, error) {
	v, err := s.ownedVehicle(ctx, actorID, actorRole, vehicleID)
	if err != nil {
		return nil, err
	}

	v.Deactivate()
	v.IncrementVersion()
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}

	result := toVehicleDTO(v)
	return &result, nil
}

func (s *VehicleService) ownedVehicle(ctx context.Context, actorID uuid.UUID, actorRole auth.Role, vehicleID uuid.UUID) (*vehicleDomain.Vehicle, error) {
	v, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if v.OwnerID() != actorID && actorRole != auth.RoleAdmin {
		return nil, domain.NewForbiddenError("vehicle does not belong to this agent")
	}
	return v, nil
}

func toVehicleDTO(v *vehicleDomain.Vehicle) VehicleDTO {
	return VehicleDTO{
		ID:               v.ID(),
		OwnerID:          v.OwnerID(),
		LicensePlate:     v.LicensePlate(),
		VIN:              v.VIN(),
		Make:             v.Make(),
		Model:            v.Model(),
		Year:             v.Year(),
		PricePerDayCents: v.PricePerDayCents(),
		Currency:         v.Currency(),
		Status:           string(v.Status()),
		IsActive:         v.IsActive(),
		Version:          v.Version(),
		CreatedAt:        v.CreatedAt(),
		UpdatedAt:        v.UpdatedAt(),
	}
}

func toVehicleDTOs(vehicles []*vehicleDomain.Vehicle) []VehicleDTO {
	dtos := make([]VehicleDTO, len(vehicles))
	for i, v := range vehicles {
		dtos[i] = toVehicleDTO(v)
	}
	return dtos
}
