package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/booking"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
)

// activeBookingCond mirrors booking.IsActive in SQL: only rows matching
// it occupy their interval for collision purposes. The composite index
// on (barbershop_id, barber_id, start_at) carries the day queries.
const activeBookingCond = "cancelled_at IS NULL AND payment_status <> 'failed' " +
	"AND (payment_method = 'in_person' OR payment_status = 'paid' OR charge_ref IS NOT NULL)"

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Barbershop / Barber / Service
// --------------------------------------------------

func (r *BookingGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).First(&shop, id).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *BookingGormRepository) GetBarbershopBySlug(
	ctx context.Context,
	slug string,
) (*models.Barbershop, error) {

	var shop models.Barbershop
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&shop).Error; err != nil {
		return nil, err
	}
	return &shop, nil
}

func (r *BookingGormRepository) GetBarber(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ?", barberID, barbershopID).
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

func (r *BookingGormRepository) GetLiveServices(
	ctx context.Context,
	barbershopID uint,
	serviceIDs []uint,
) ([]models.Service, error) {

	var services []models.Service
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND id IN ? AND deleted_at IS NULL", barbershopID, serviceIDs).
		Order("id ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

// --------------------------------------------------
// Opening hours
// --------------------------------------------------

func (r *BookingGormRepository) GetOpeningHours(
	ctx context.Context,
	barbershopID uint,
	weekday int,
) (*models.OpeningHours, error) {

	var oh models.OpeningHours
	if err := r.db.WithContext(ctx).
		Where("barbershop_id = ? AND weekday = ?", barbershopID, weekday).
		First(&oh).Error; err != nil {
		return nil, err
	}
	return &oh, nil
}

// --------------------------------------------------
// Booking ledger
// --------------------------------------------------

func (r *BookingGormRepository) ListActiveBookingsForDay(
	ctx context.Context,
	barbershopID uint,
	barberID *uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Where("barbershop_id = ?", barbershopID).
		Where(activeBookingCond).
		Where("start_at >= ? AND start_at < ?", dayStart, dayEnd)

	if barberID != nil {
		q = q.Where("barber_id = ?", *barberID)
	}

	var bookings []models.Booking
	if err := q.Order("start_at ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) GetBookingByID(
	ctx context.Context,
	id uint,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) GetBookingByChargeRef(
	ctx context.Context,
	chargeRef string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Where("charge_ref = ?", chargeRef).
		First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) ListBookingsForUser(
	ctx context.Context,
	userID uint,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Preload("Barber").
		Where("user_id = ?", userID).
		Order("start_at DESC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	// services already exist; only the join rows are written
	return r.db.WithContext(ctx).Omit("Services.*").Create(b).Error
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Omit("Services").Save(b).Error
}

func (r *BookingGormRepository) CountFutureActiveBookingsForBarber(
	ctx context.Context,
	barberID uint,
	now time.Time,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("barber_id = ?", barberID).
		Where(activeBookingCond).
		Where("start_at > ?", now).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// --------------------------------------------------
// Critical section
// --------------------------------------------------

// Atomic runs fn in a transaction holding the day's advisory lock, so
// the collision recheck and the insert are one serializable unit even
// across service instances.
func (r *BookingGormRepository) Atomic(
	ctx context.Context,
	key string,
	fn func(r domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
			return err
		}
		return fn(NewBookingGormRepository(tx))
	})
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
