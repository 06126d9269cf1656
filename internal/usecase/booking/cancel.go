package booking

import (
	"context"
	"log"
	"time"

	"github.com/clipperdesk/clipperdesk-api/internal/audit"
	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/booking"
	waitlistdomain "github.com/clipperdesk/clipperdesk-api/internal/domain/waitlist"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/locking"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
	"github.com/clipperdesk/clipperdesk-api/internal/notify"
	"github.com/clipperdesk/clipperdesk-api/internal/payments"
	"github.com/clipperdesk/clipperdesk-api/internal/timezone"
)

// Fulfiller hands a released interval to the waitlist engine. Its
// failure never reverses the cancellation that triggered it.
type Fulfiller interface {
	Fulfill(ctx context.Context, rel waitlistdomain.Release) error
}

type CancelBooking struct {
	repo      domain.Repository
	gateway   payments.Gateway
	notifier  notify.Notifier
	fulfiller Fulfiller
	audit     *audit.Dispatcher
	now       func() time.Time
}

func NewCancelBooking(
	repo domain.Repository,
	gateway payments.Gateway,
	notifier notify.Notifier,
	fulfiller Fulfiller,
	auditD *audit.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:      repo,
		gateway:   gateway,
		notifier:  notifier,
		fulfiller: fulfiller,
		audit:     auditD,
		now:       time.Now,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	bookingID uint,
	userID uint,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	if b.UserID != userID {
		return nil, httperr.ErrBusiness("not_owner")
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, b.BarbershopID)
	if err != nil {
		return nil, err
	}
	loc := timezone.Location(shop.Timezone)
	now := uc.now().In(loc)

	// Refund and cancellation commit together: a failed refund leaves
	// the booking active. The day lock also keeps a concurrent cancel
	// of the same booking from refunding twice.
	key := locking.DayKey(b.BarbershopID, b.BarberID, b.StartAt.In(loc))

	var cancelled *models.Booking
	err = uc.repo.Atomic(ctx, key, func(r domain.Repository) error {
		fresh, err := r.GetBookingByID(ctx, bookingID)
		if err != nil {
			return httperr.ErrBusiness("booking_not_found")
		}

		if err := domain.Cancel(fresh, now); err != nil {
			return err
		}

		if fresh.ChargeRef != nil {
			if err := uc.gateway.Refund(ctx, *fresh.ChargeRef, "booking_cancelled"); err != nil {
				return httperr.ErrBusiness("refund_failed")
			}
		}

		if err := r.UpdateBooking(ctx, fresh); err != nil {
			return err
		}
		cancelled = fresh
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: cancelled.BarbershopID,
		UserID:       &userID,
		Action:       audit.ActionBookingCancelled,
		Entity:       "booking",
		EntityID:     &cancelled.ID,
	})

	if err := uc.notifier.CancelPending(ctx, cancelled.ID); err != nil {
		log.Printf("notify: cancel pending jobs for booking %d failed: %v", cancelled.ID, err)
	}
	if err := uc.notifier.Publish(ctx, notify.Event{
		Type:         notify.EventBookingCanceled,
		BarbershopID: cancelled.BarbershopID,
		BookingID:    cancelled.ID,
		UserID:       cancelled.UserID,
		StartAt:      cancelled.StartAt,
	}); err != nil {
		log.Printf("notify: booking %d canceled event failed: %v", cancelled.ID, err)
	}

	// The cancellation is already committed; fulfillment is best
	// effort and its errors stop here.
	if err := uc.fulfiller.Fulfill(ctx, waitlistdomain.Release{
		BarbershopID: cancelled.BarbershopID,
		BarberID:     cancelled.BarberID,
		ServiceID:    cancelled.ServiceID,
		StartAt:      cancelled.StartAt,
		EndAt:        cancelled.EndAt,
		DurationMin:  cancelled.DurationMin,
	}); err != nil {
		log.Printf("waitlist: fulfillment after booking %d cancel failed: %v", cancelled.ID, err)
	}

	return cancelled, nil
}
