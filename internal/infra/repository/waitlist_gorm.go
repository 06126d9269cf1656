package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/waitlist"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
)

type WaitlistGormRepository struct {
	db      *gorm.DB
	booking *BookingGormRepository
}

func NewWaitlistGormRepository(db *gorm.DB) *WaitlistGormRepository {
	return &WaitlistGormRepository{
		db:      db,
		booking: NewBookingGormRepository(db),
	}
}

// tupleScope narrows a query to one waitlist tuple. A nil barber is
// part of the key and must match IS NULL, not any barber.
func tupleScope(q *gorm.DB, t domain.Tuple) *gorm.DB {
	q = q.Where("barbershop_id = ? AND service_id = ? AND date_day = ?",
		t.BarbershopID, t.ServiceID, t.DateDay)
	if t.BarberID == nil {
		return q.Where("barber_id IS NULL")
	}
	return q.Where("barber_id = ?", *t.BarberID)
}

// --------------------------------------------------
// Reference data (shared with the booking repository)
// --------------------------------------------------

func (r *WaitlistGormRepository) GetBarbershopByID(
	ctx context.Context,
	id uint,
) (*models.Barbershop, error) {
	return r.booking.GetBarbershopByID(ctx, id)
}

func (r *WaitlistGormRepository) GetBarber(
	ctx context.Context,
	barbershopID uint,
	barberID uint,
) (*models.Barber, error) {
	return r.booking.GetBarber(ctx, barbershopID, barberID)
}

func (r *WaitlistGormRepository) GetLiveService(
	ctx context.Context,
	barbershopID uint,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND barbershop_id = ? AND deleted_at IS NULL", serviceID, barbershopID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Queue
// --------------------------------------------------

func (r *WaitlistGormRepository) CreateEntry(
	ctx context.Context,
	e *models.WaitlistEntry,
) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *WaitlistGormRepository) GetEntryByID(
	ctx context.Context,
	id uint,
) (*models.WaitlistEntry, error) {

	var e models.WaitlistEntry
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *WaitlistGormRepository) FirstActiveEntry(
	ctx context.Context,
	t domain.Tuple,
) (*models.WaitlistEntry, error) {

	var e models.WaitlistEntry
	err := tupleScope(r.db.WithContext(ctx), t).
		Where("status = ?", domain.StatusActive).
		Order("created_at ASC, id ASC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *WaitlistGormRepository) ActiveEntryForUser(
	ctx context.Context,
	t domain.Tuple,
	userID uint,
) (*models.WaitlistEntry, error) {

	var e models.WaitlistEntry
	err := tupleScope(r.db.WithContext(ctx), t).
		Where("status = ? AND user_id = ?", domain.StatusActive, userID).
		Order("created_at ASC, id ASC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *WaitlistGormRepository) CountActiveAhead(
	ctx context.Context,
	e *models.WaitlistEntry,
) (int64, error) {

	t := domain.Tuple{
		BarbershopID: e.BarbershopID,
		BarberID:     e.BarberID,
		ServiceID:    e.ServiceID,
		DateDay:      e.DateDay,
	}

	var count int64
	err := tupleScope(r.db.WithContext(ctx).Model(&models.WaitlistEntry{}), t).
		Where("status = ?", domain.StatusActive).
		Where("created_at < ? OR (created_at = ? AND id < ?)", e.CreatedAt, e.CreatedAt, e.ID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *WaitlistGormRepository) CountActive(
	ctx context.Context,
	t domain.Tuple,
) (int64, error) {

	var count int64
	err := tupleScope(r.db.WithContext(ctx).Model(&models.WaitlistEntry{}), t).
		Where("status = ?", domain.StatusActive).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *WaitlistGormRepository) CountActiveForBarber(
	ctx context.Context,
	barberID uint,
) (int64, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("barber_id = ? AND status = ?", barberID, domain.StatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *WaitlistGormRepository) ListEntriesForUser(
	ctx context.Context,
	userID uint,
) ([]models.WaitlistEntry, error) {

	var entries []models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Preload("Barber").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// --------------------------------------------------
// Conditional transitions
// --------------------------------------------------

func (r *WaitlistGormRepository) CancelEntry(
	ctx context.Context,
	entryID uint,
	userID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("id = ? AND user_id = ? AND status = ?", entryID, userID, domain.StatusActive).
		Update("status", domain.StatusCanceled)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *WaitlistGormRepository) MarkFulfilled(
	ctx context.Context,
	entryID uint,
	bookingID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("id = ? AND status = ?", entryID, domain.StatusActive).
		Updates(map[string]any{
			"status":               domain.StatusFulfilled,
			"fulfilled_booking_id": bookingID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *WaitlistGormRepository) MarkFulfilledSeen(
	ctx context.Context,
	entryID uint,
	userID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("id = ? AND user_id = ? AND status = ? AND fulfilled_seen_at IS NULL",
			entryID, userID, domain.StatusFulfilled).
		Update("fulfilled_seen_at", time.Now())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --------------------------------------------------
// Booking side (fulfillment)
// --------------------------------------------------

func (r *WaitlistGormRepository) ListActiveBookingsForDay(
	ctx context.Context,
	barbershopID uint,
	barberID *uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Booking, error) {
	return r.booking.ListActiveBookingsForDay(ctx, barbershopID, barberID, dayStart, dayEnd)
}

func (r *WaitlistGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.booking.CreateBooking(ctx, b)
}

// --------------------------------------------------
// Critical section
// --------------------------------------------------

func (r *WaitlistGormRepository) Atomic(
	ctx context.Context,
	key string,
	fn func(r domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
			return err
		}
		return fn(NewWaitlistGormRepository(tx))
	})
}

// Compile-time check
var _ domain.Repository = (*WaitlistGormRepository)(nil)
