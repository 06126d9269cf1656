package booking

import (
	"time"

	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
	"github.com/clipperdesk/clipperdesk-api/internal/timeslot"
)

// ===============================
// Domain Actions
// ===============================

// IsActive decides whether a booking occupies its interval on the shop
// timeline. Cancelled and failed-payment bookings never collide; a
// Stripe booking counts once it is paid or holds a charge reference.
func IsActive(b *models.Booking) bool {
	if b.CancelledAt != nil {
		return false
	}
	if b.PaymentStatus == PaymentStatusFailed {
		return false
	}
	return b.PaymentMethod == PaymentMethodInPerson ||
		b.PaymentStatus == PaymentStatusPaid ||
		b.ChargeRef != nil
}

// Cancel marks the booking cancelled. Only future, not-yet-cancelled
// bookings may be cancelled.
func Cancel(b *models.Booking, now time.Time) error {
	if b.CancelledAt != nil {
		return httperr.ErrBusiness("already_cancelled")
	}
	if !b.StartAt.After(now) {
		return httperr.ErrBusiness("booking_in_past")
	}
	b.CancelledAt = &now
	return nil
}

// BusyIntervals projects the active bookings of one day onto the
// minute-of-day axis for overlap checks.
func BusyIntervals(bookings []models.Booking) []timeslot.Interval {
	var busy []timeslot.Interval
	for i := range bookings {
		b := &bookings[i]
		if !IsActive(b) {
			continue
		}
		busy = append(busy, timeslot.Interval{
			StartMin: timeslot.MinuteOfDay(b.StartAt),
			EndMin:   timeslot.MinuteOfDay(b.StartAt) + b.DurationMin,
		})
	}
	return busy
}
