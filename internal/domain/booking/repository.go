package booking

import (
	"context"
	"time"

	"github.com/clipperdesk/clipperdesk-api/internal/models"
)

type Repository interface {
	// -------- Barbershop --------
	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	GetBarbershopBySlug(
		ctx context.Context,
		slug string,
	) (*models.Barbershop, error)

	// -------- Barber --------
	GetBarber(
		ctx context.Context,
		barbershopID uint,
		barberID uint,
	) (*models.Barber, error)

	// -------- Service --------
	GetLiveServices(
		ctx context.Context,
		barbershopID uint,
		serviceIDs []uint,
	) ([]models.Service, error)

	// -------- Opening hours --------
	GetOpeningHours(
		ctx context.Context,
		barbershopID uint,
		weekday int,
	) (*models.OpeningHours, error)

	// -------- Booking ledger --------
	ListActiveBookingsForDay(
		ctx context.Context,
		barbershopID uint,
		barberID *uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Booking, error)

	GetBookingByID(
		ctx context.Context,
		id uint,
	) (*models.Booking, error)

	GetBookingByChargeRef(
		ctx context.Context,
		chargeRef string,
	) (*models.Booking, error)

	ListBookingsForUser(
		ctx context.Context,
		userID uint,
	) ([]models.Booking, error)

	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	CountFutureActiveBookingsForBarber(
		ctx context.Context,
		barberID uint,
		now time.Time,
	) (int64, error)

	// -------- Critical section --------
	// Atomic runs fn under mutual exclusion for the given
	// (barbershop, barber, day) key. Everything fn does through the
	// repository it receives happens inside one serializable unit;
	// the collision recheck and the insert must share it.
	Atomic(
		ctx context.Context,
		key string,
		fn func(r Repository) error,
	) error
}
