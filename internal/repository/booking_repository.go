package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Velora-Rentals/service-rental/internal/domain"
	bookingDomain "github.com/Velora-Rentals/service-rental/internal/domain/booking"
	vehicleDomain "github.com/Velora-Rentals/service-rental/internal/domain/vehicle"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Reference       string     `gorm:"uniqueIndex;not null;size:20"`
	UserID          uuid.UUID  `gorm:"type:uuid;index;not null"`
	VehicleID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	StartDate       time.Time  `gorm:"type:date;not null;index"`
	EndDate         time.Time  `gorm:"type:date;not null"`
	Status          string     `gorm:"not null;size:20;index"`
	TotalPriceCents int64      `gorm:"not null"`
	Currency        string     `gorm:"not null;size:3"`
	PickupLocation  string     `gorm:"size:255"`
	ReturnLocation  string     `gorm:"size:255"`
	Notes           string     `gorm:"size:1000"`
	ConfirmedAt     *time.Time `gorm:""`
	ActivatedAt     *time.Time `gorm:""`
	CompletedAt     *time.Time `gorm:""`
	CancelledAt     *time.Time `gorm:""`
	CancelNote      string     `gorm:"size:500"`
	Version         int64      `gorm:"not null;default:1"`
	CreatedAt       time.Time  `gorm:"not null"`
	UpdatedAt       time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// acceptedStatuses are the booking states that occupy a vehicle, as stored.
var acceptedStatuses = []string{
	string(bookingDomain.StatusPending),
	string(bookingDomain.StatusConfirmed),
	string(bookingDomain.StatusActive),
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByReference retrieves a booking by its human-readable reference.
func (r *GormBookingRepository) FindByReference(ctx context.Context, reference string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", reference)
		}
		return nil, fmt.Errorf("failed to find booking by reference: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByUserID retrieves bookings for a specific renter with pagination.
func (r *GormBookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPage(ctx, "user_id = ?", userID, page, limit)
}

// FindByVehicleID retrieves bookings for a specific vehicle with pagination.
func (r *GormBookingRepository) FindByVehicleID(ctx context.Context, vehicleID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	return r.findPage(ctx, "vehicle_id = ?", vehicleID, page, limit)
}

// FindCancellableByUserID retrieves the renter's pending and confirmed bookings.
func (r *GormBookingRepository) FindCancellableByUserID(ctx context.Context, userID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []string{
			string(bookingDomain.StatusPending),
			string(bookingDomain.StatusConfirmed),
		}).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find cancellable bookings: %w", err)
	}
	return toDomainBookings(models)
}

// CountBlockingForVehicle counts bookings that block vehicle deletion.
func (r *GormBookingRepository) CountBlockingForVehicle(ctx context.Context, vehicleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Where("vehicle_id = ? AND status IN ?", vehicleID, acceptedStatuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count blocking bookings: %w", err)
	}
	return count, nil
}

// Create persists a new pending booking. The vehicle row is locked FOR
// UPDATE for the duration of the transaction, which serializes concurrent
// creates per vehicle: the overlap check, the insert and the status
// projection commit as one unit or not at all.
func (r *GormBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vm VehicleModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", model.VehicleID).
			First(&vm).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Vehicle", model.VehicleID.String())
			}
			return fmt.Errorf("failed to lock vehicle row: %w", err)
		}

		if !vm.IsActive || vehicleDomain.Status(vm.Status).IsSuspension() {
			return domain.NewVehicleUnavailableError(vm.ID.String())
		}

		// Half-open interval intersection: [s1,e1) and [s2,e2) overlap iff
		// s1 < e2 AND s2 < e1.
		var overlapping int64
		err = tx.Model(&BookingModel{}).
			Where("vehicle_id = ? AND status IN ? AND start_date < ? AND end_date > ?",
				model.VehicleID, acceptedStatuses, model.EndDate, model.StartDate).
			Count(&overlapping).Error
		if err != nil {
			return fmt.Errorf("failed to run overlap check: %w", err)
		}
		if overlapping > 0 {
			return domain.NewOverlappingBookingError(model.VehicleID.String())
		}

		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}

		return setVehicleStatus(tx, vm.ID, vehicleDomain.StatusRented)
	})
}

// Update persists a status transition with optimistic locking and re-derives
// the vehicle's status projection inside the same transaction.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the vehicle first, mirroring Create's lock order.
		var vm VehicleModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", model.VehicleID).
			First(&vm).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Vehicle", model.VehicleID.String())
			}
			return fmt.Errorf("failed to lock vehicle row: %w", err)
		}

		// Optimistic locking: IncrementVersion ran before Update, so the row
		// must still carry the previous version.
		expectedVersion := bk.Version() - 1
		result := tx.Model(&BookingModel{}).
			Where("id = ? AND version = ?", model.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":       model.Status,
				"confirmed_at": model.ConfirmedAt,
				"activated_at": model.ActivatedAt,
				"completed_at": model.CompletedAt,
				"cancelled_at": model.CancelledAt,
				"cancel_note":  model.CancelNote,
				"version":      model.Version,
				"updated_at":   model.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update booking: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewConflictError("booking was modified by another transaction")
		}

		return syncVehicleStatus(tx, vm.ID)
	})
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

func (r *GormBookingRepository) findPage(ctx context.Context, cond string, arg uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where(cond, arg).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where(cond, arg).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// syncVehicleStatus re-derives the vehicle status projection from the
// remaining accepted bookings. Owner suspensions are never overwritten.
// Callers must hold the vehicle row lock.
func syncVehicleStatus(tx *gorm.DB, vehicleID uuid.UUID) error {
	var accepted int64
	err := tx.Model(&BookingModel{}).
		Where("vehicle_id = ? AND status IN ?", vehicleID, acceptedStatuses).
		Count(&accepted).Error
	if err != nil {
		return fmt.Errorf("failed to count accepted bookings: %w", err)
	}

	target := vehicleDomain.StatusAvailable
	if accepted > 0 {
		target = vehicleDomain.StatusRented
	}
	return setVehicleStatus(tx, vehicleID, target)
}

// setVehicleStatus writes the status projection, skipping suspended vehicles.
func setVehicleStatus(tx *gorm.DB, vehicleID uuid.UUID, status vehicleDomain.Status) error {
	err := tx.Model(&VehicleModel{}).
		Where("id = ? AND status NOT IN ?", vehicleID, []string{
			string(vehicleDomain.StatusMaintenance),
			string(vehicleDomain.StatusOutOfService),
		}).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update vehicle status: %w", err)
	}
	return nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
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

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	status, err := bookingDomain.ParseStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.Reference,
		m.UserID,
		m.VehicleID,
		bookingDomain.ReconstructDateRange(m.StartDate, m.EndDate),
		status,
		m.TotalPriceCents,
		m.Currency,
		m.PickupLocation,
		m.ReturnLocation,
		m.Notes,
		m.ConfirmedAt,
		m.ActivatedAt,
		m.CompletedAt,
		m.CancelledAt,
		m.CancelNote,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
