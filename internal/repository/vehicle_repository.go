package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Velora-Rentals/service-rental/internal/domain"
	vehicleDomain "github.com/Velora-Rentals/service-rental/internal/domain/vehicle"
)

// VehicleModel is the GORM model for the vehicles table.
type VehicleModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID          uuid.UUID `gorm:"type:uuid;index;not null"`
	LicensePlate     string    `gorm:"uniqueIndex;not null;size:20"`
	VIN              string    `gorm:"uniqueIndex;not null;size:17;column:vin"`
	Make             string    `gorm:"not null;size:100"`
	Model            string    `gorm:"not null;size:100"`
	Year             int       `gorm:"not null"`
	PricePerDayCents int64     `gorm:"not null"`
	Currency         string    `gorm:"not null;size:3"`
	Status           string    `gorm:"not null;size:20;index"`
	IsActive         bool      `gorm:"not null;default:true"`
	Version          int64     `gorm:"not null;default:1"`
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (VehicleModel) TableName() string {
	return "vehicles"
}

// GormVehicleRepository is the GORM-based implementation of VehicleRepository.
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository.
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID retrieves a vehicle by its unique identifier.
func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	var model VehicleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Vehicle", id.String())
		}
		return nil, fmt.Errorf("failed to find vehicle by ID: %w", err)
	}
	return toDomainVehicle(&model)
}

// FindByOwnerID retrieves vehicles listed by a specific agent with pagination.
func (r *GormVehicleRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]*vehicleDomain.Vehicle, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&VehicleModel{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	var models []VehicleModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find vehicles by owner: %w", err)
	}

	vehicles, err := toDomainVehicles(models)
	if err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

// ListAvailable retrieves active, available vehicles with pagination.
func (r *GormVehicleRepository) ListAvailable(ctx context.Context, page, limit int) ([]*vehicleDomain.Vehicle, int64, error) {
	query := r.db.WithContext(ctx).Model(&VehicleModel{}).
		Where("is_active = ? AND status = ?", true, string(vehicleDomain.StatusAvailable))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count available vehicles: %w", err)
	}

	var models []VehicleModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list available vehicles: %w", err)
	}

	vehicles, err := toDomainVehicles(models)
	if err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

// Save persists a new vehicle.
func (r *GormVehicleRepository) Save(ctx context.Context, v *vehicleDomain.Vehicle) error {
	model := toVehicleModel(v)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("a vehicle with this license plate or VIN already exists")
		}
		return fmt.Errorf("failed to save vehicle: %w", err)
	}
	return nil
}

// Update persists vehicle changes with optimistic locking.
func (r *GormVehicleRepository) Update(ctx context.Context, v *vehicleDomain.Vehicle) error {
	model := toVehicleModel(v)
	expectedVersion := v.Version() - 1

	result := r.db.WithContext(ctx).Model(&VehicleModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"make":                model.Make,
			"model":               model.Model,
			"year":                model.Year,
			"price_per_day_cents": model.PricePerDayCents,
			"currency":            model.Currency,
			"status":              model.Status,
			"is_active":           model.IsActive,
			"version":             model.Version,
			"updated_at":          model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("vehicle was modified by another transaction")
	}
	return nil
}

// MarkRented idempotently sets the status projection to rented.
func (r *GormVehicleRepository) MarkRented(ctx context.Context, id uuid.UUID) error {
	return setVehicleStatus(r.db.WithContext(ctx), id, vehicleDomain.StatusRented)
}

// MarkAvailable idempotently sets the status projection to available.
func (r *GormVehicleRepository) MarkAvailable(ctx context.Context, id uuid.UUID) error {
	return setVehicleStatus(r.db.WithContext(ctx), id, vehicleDomain.StatusAvailable)
}

// Delete removes a vehicle row. The caller is responsible for verifying no
// accepted bookings still reference it.
func (r *GormVehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&VehicleModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Vehicle", id.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toVehicleModel(v *vehicleDomain.Vehicle) *VehicleModel {
	return &VehicleModel{
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

func toDomainVehicle(m *VehicleModel) (*vehicleDomain.Vehicle, error) {
	status, err := vehicleDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return vehicleDomain.ReconstructVehicle(
		m.ID,
		m.OwnerID,
		m.LicensePlate,
		m.VIN,
		m.Make,
		m.Model,
		m.Year,
		m.PricePerDayCents,
		m.Currency,
		status,
		m.IsActive,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainVehicles(models []VehicleModel) ([]*vehicleDomain.Vehicle, error) {
	vehicles := make([]*vehicleDomain.Vehicle, len(models))
	for i, m := range models {
		v, err := toDomainVehicle(&m)
		if err != nil {
			return nil, err
		}
		vehicles[i] = v
	}
	return vehicles, nil
}
