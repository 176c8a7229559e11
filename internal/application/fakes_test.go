package application_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/Velora-Rentals/service-rental/internal/domain"
	bookingDomain "github.com/Velora-Rentals/service-rental/internal/domain/booking"
	reviewDomain "github.com/Velora-Rentals/service-rental/internal/domain/review"
	vehicleDomain "github.com/Velora-Rentals/service-rental/internal/domain/vehicle"
)

// cloneBooking detaches an aggregate from the store so in-flight mutations
// only land on Update, like a row fetch would.
func cloneBooking(bk *bookingDomain.Booking) *bookingDomain.Booking {
	return bookingDomain.ReconstructBooking(
		bk.ID(), bk.Reference(), bk.UserID(), bk.VehicleID(), bk.Dates(),
		bk.Status(), bk.TotalPriceCents(), bk.Currency(),
		bk.PickupLocation(), bk.ReturnLocation(), bk.Notes(),
		bk.ConfirmedAt(), bk.ActivatedAt(), bk.CompletedAt(), bk.CancelledAt(),
		bk.CancelNote(), bk.Version(), bk.CreatedAt(), bk.UpdatedAt(),
	)
}

func cloneVehicle(v *vehicleDomain.Vehicle) *vehicleDomain.Vehicle {
	return vehicleDomain.ReconstructVehicle(
		v.ID(), v.OwnerID(), v.LicensePlate(), v.VIN(), v.Make(), v.Model(),
		v.Year(), v.PricePerDayCents(), v.Currency(), v.Status(), v.IsActive(),
		v.Version(), v.CreatedAt(), v.UpdatedAt(),
	)
}

type fakeVehicleRepo struct {
	mu       sync.Mutex
	vehicles map[uuid.UUID]*vehicleDomain.Vehicle
}

func newFakeVehicleRepo() *fakeVehicleRepo {
	return &fakeVehicleRepo{vehicles: make(map[uuid.UUID]*vehicleDomain.Vehicle)}
}

func (r *fakeVehicleRepo) FindByID(_ context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.vehicles[id]
	if !ok {
		return nil, domain.NewNotFoundError("Vehicle", id.String())
	}
	return cloneVehicle(v), nil
}

func (r *fakeVehicleRepo) FindByOwnerID(_ context.Context, ownerID uuid.UUID, page, limit int) ([]*vehicleDomain.Vehicle, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*vehicleDomain.Vehicle
	for _, v := range r.vehicles {
		if v.OwnerID() == ownerID {
			out = append(out, cloneVehicle(v))
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeVehicleRepo) ListAvailable(_ context.Context, page, limit int) ([]*vehicleDomain.Vehicle, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*vehicleDomain.Vehicle
	for _, v := range r.vehicles {
		if v.IsBookable() {
			out = append(out, cloneVehicle(v))
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeVehicleRepo) Save(_ context.Context, v *vehicleDomain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.vehicles {
		if existing.LicensePlate() == v.LicensePlate() || existing.VIN() == v.VIN() {
			return domain.NewConflictError("a vehicle with this license plate or VIN already exists")
		}
	}
	r.vehicles[v.ID()] = cloneVehicle(v)
	return nil
}

func (r *fakeVehicleRepo) Update(_ context.Context, v *vehicleDomain.Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.vehicles[v.ID()]
	if !ok {
		return domain.NewNotFoundError("Vehicle", v.ID().String())
	}
	if stored.Version() != v.Version()-1 {
		return domain.NewConflictError("vehicle was modified by another transaction")
	}
	r.vehicles[v.ID()] = cloneVehicle(v)
	return nil
}

func (r *fakeVehicleRepo) MarkRented(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.vehicles[id]; ok {
		v.MarkRented()
	}
	return nil
}

func (r *fakeVehicleRepo) MarkAvailable(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.vehicles[id]; ok {
		v.MarkAvailable()
	}
	return nil
}

func (r *fakeVehicleRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicles[id]; !ok {
		return domain.NewNotFoundError("Vehicle", id.String())
	}
	delete(r.vehicles, id)
	return nil
}

// fakeBookingRepo mirrors the transactional contract of the real repository:
// Create runs the overlap check, insert and vehicle flip under one lock, and
// Update enforces the optimistic version.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookingDomain.Booking
	vehicles *fakeVehicleRepo
}

func newFakeBookingRepo(vehicles *fakeVehicleRepo) *fakeBookingRepo {
	return &fakeBookingRepo{
		bookings: make(map[uuid.UUID]*bookingDomain.Booking),
		vehicles: vehicles,
	}
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bk, ok := r.bookings[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return cloneBooking(bk), nil
}

func (r *fakeBookingRepo) FindByReference(_ context.Context, reference string) (*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, bk := range r.bookings {
		if bk.Reference() == reference {
			return cloneBooking(bk), nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", reference)
}

func (r *fakeBookingRepo) FindByUserID(_ context.Context, userID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.UserID() == userID {
			out = append(out, cloneBooking(bk))
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindByVehicleID(_ context.Context, vehicleID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.VehicleID() == vehicleID {
			out = append(out, cloneBooking(bk))
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) FindCancellableByUserID(_ context.Context, userID uuid.UUID) ([]*bookingDomain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		if bk.UserID() == userID && bk.Status().CanBeCancelled() {
			out = append(out, cloneBooking(bk))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountBlockingForVehicle(_ context.Context, vehicleID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, bk := range r.bookings {
		if bk.VehicleID() == vehicleID && bk.Status().IsAccepted() {
			count++
		}
	}
	return count, nil
}

func (r *fakeBookingRepo) ListAll(_ context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*bookingDomain.Booking
	for _, bk := range r.bookings {
		out = append(out, cloneBooking(bk))
	}
	return out, int64(len(out)), nil
}

func (r *fakeBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, bk := range r.bookings {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

func (r *fakeBookingRepo) Create(ctx context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	vehicle, err := r.vehicles.FindByID(ctx, bk.VehicleID())
	if err != nil {
		return err
	}
	if !vehicle.AcceptsBookings() {
		return domain.NewVehicleUnavailableError(vehicle.ID().String())
	}

	for _, existing := range r.bookings {
		if existing.VehicleID() == bk.VehicleID() &&
			existing.Status().IsAccepted() &&
			existing.Dates().Overlaps(bk.Dates()) {
			return domain.NewOverlappingBookingError(bk.VehicleID().String())
		}
	}

	r.bookings[bk.ID()] = cloneBooking(bk)
	_ = r.vehicles.MarkRented(ctx, bk.VehicleID())
	return nil
}

func (r *fakeBookingRepo) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[bk.ID()]
	if !ok {
		return domain.NewNotFoundError("Booking", bk.ID().String())
	}
	if stored.Version() != bk.Version()-1 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	r.bookings[bk.ID()] = cloneBooking(bk)

	var accepted bool
	for _, other := range r.bookings {
		if other.VehicleID() == bk.VehicleID() && other.Status().IsAccepted() {
			accepted = true
			break
		}
	}
	if accepted {
		_ = r.vehicles.MarkRented(ctx, bk.VehicleID())
	} else {
		_ = r.vehicles.MarkAvailable(ctx, bk.VehicleID())
	}
	return nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[uuid.UUID]*reviewDomain.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]*reviewDomain.Review)}
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*reviewDomain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rev, ok := r.reviews[id]
	if !ok {
		return nil, domain.NewNotFoundError("Review", id.String())
	}
	return rev, nil
}

func (r *fakeReviewRepo) FindByBookingID(_ context.Context, bookingID uuid.UUID) (*reviewDomain.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rev := range r.reviews {
		if rev.BookingID() == bookingID {
			return rev, nil
		}
	}
	return nil, domain.NewNotFoundError("Review", bookingID.String())
}

func (r *fakeReviewRepo) ExistsForUserAndBooking(_ context.Context, userID, bookingID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rev := range r.reviews {
		if rev.UserID() == userID && rev.BookingID() == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) Save(_ context.Context, rev *reviewDomain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.UserID() == rev.UserID() && existing.BookingID() == rev.BookingID() {
			return domain.NewDuplicateReviewError(rev.BookingID().String())
		}
	}
	r.reviews[rev.ID()] = rev
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return domain.NewNotFoundError("Review", id.String())
	}
	delete(r.reviews, id)
	return nil
}
