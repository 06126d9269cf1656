package waitlist

import (
	"context"
	"time"

	"github.com/clipperdesk/clipperdesk-api/internal/models"
)

// Tuple is the key scoping one FIFO queue.
type Tuple struct {
	BarbershopID uint
	BarberID     *uint
	ServiceID    uint
	DateDay      string // YYYY-MM-DD
}

type Repository interface {
	// -------- Reference data --------
	GetBarbershopByID(
		ctx context.Context,
		id uint,
	) (*models.Barbershop, error)

	GetBarber(
		ctx context.Context,
		barbershopID uint,
		barberID uint,
	) (*models.Barber, error)

	GetLiveService(
		ctx context.Context,
		barbershopID uint,
		serviceID uint,
	) (*models.Service, error)

	// -------- Queue --------
	CreateEntry(
		ctx context.Context,
		e *models.WaitlistEntry,
	) error

	GetEntryByID(
		ctx context.Context,
		id uint,
	) (*models.WaitlistEntry, error)

	// FirstActiveEntry returns the head of the queue for the tuple,
	// ordered by (created_at, id), or nil when the queue is empty.
	FirstActiveEntry(
		ctx context.Context,
		t Tuple,
	) (*models.WaitlistEntry, error)

	ActiveEntryForUser(
		ctx context.Context,
		t Tuple,
		userID uint,
	) (*models.WaitlistEntry, error)

	// CountActiveAhead counts ACTIVE entries in the same tuple with a
	// strictly earlier (created_at, id); position = 1 + this count.
	CountActiveAhead(
		ctx context.Context,
		e *models.WaitlistEntry,
	) (int64, error)

	CountActive(
		ctx context.Context,
		t Tuple,
	) (int64, error)

	CountActiveForBarber(
		ctx context.Context,
		barberID uint,
	) (int64, error)

	ListEntriesForUser(
		ctx context.Context,
		userID uint,
	) ([]models.WaitlistEntry, error)

	// -------- Conditional transitions --------
	// Each returns false when zero rows matched, i.e. a concurrent
	// transition landed first.
	CancelEntry(
		ctx context.Context,
		entryID uint,
		userID uint,
	) (bool, error)

	MarkFulfilled(
		ctx context.Context,
		entryID uint,
		bookingID uint,
	) (bool, error)

	MarkFulfilledSeen(
		ctx context.Context,
		entryID uint,
		userID uint,
	) (bool, error)

	// -------- Booking side (fulfillment) --------
	ListActiveBookingsForDay(
		ctx context.Context,
		barbershopID uint,
		barberID *uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Booking, error)

	CreateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	// -------- Critical section --------
	// Same mutual-exclusion discipline as booking creation: the free
	// recheck, the booking insert and the status flip share one unit.
	Atomic(
		ctx context.Context,
		key string,
		fn func(r Repository) error,
	) error
}
