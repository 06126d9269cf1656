package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/clipperdesk/clipperdesk-api/internal/audit"
	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/booking"
	"github.com/clipperdesk/clipperdesk-api/internal/domain/schedule"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/locking"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
	"github.com/clipperdesk/clipperdesk-api/internal/notify"
	"github.com/clipperdesk/clipperdesk-api/internal/payments"
	"github.com/clipperdesk/clipperdesk-api/internal/timeslot"
	"github.com/clipperdesk/clipperdesk-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	BarbershopID uint
	BarberID     *uint
	ServiceIDs   []uint

	UserID uint

	Date  string // YYYY-MM-DD
	Time  string // HH:MM
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	gateway  payments.Gateway
	notifier notify.Notifier
	audit    *audit.Dispatcher
	currency string
	now      func() time.Time
}

func NewCreateBooking(
	repo domain.Repository,
	gateway payments.Gateway,
	notifier notify.Notifier,
	auditD *audit.Dispatcher,
	currency string,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		gateway:  gateway,
		notifier: notifier,
		audit:    auditD,
		currency: currency,
		now:      time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	if len(in.ServiceIDs) == 0 {
		return nil, httperr.ErrBusiness("no_services")
	}

	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, httperr.ErrBusiness("barbershop_not_found")
	}
	if !shop.Active {
		return nil, httperr.ErrBusiness("barbershop_inactive")
	}

	loc := timezone.Location(shop.Timezone)
	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date_or_time")
	}

	now := uc.now().In(loc)
	if !start.After(now) {
		return nil, httperr.ErrBusiness("start_in_past")
	}

	services, err := uc.repo.GetLiveServices(ctx, shop.ID, in.ServiceIDs)
	if err != nil || len(services) != len(in.ServiceIDs) {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	duration := 0
	var price int64
	for _, s := range services {
		duration += s.DurationMin
		price += s.PriceCents
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	// Non-exclusive shops pin every booking to a barber; exclusive
	// shops have a single implicit one.
	barberID := in.BarberID
	if shop.Exclusive {
		barberID = nil
	} else {
		if barberID == nil {
			return nil, httperr.ErrBusiness("barber_required")
		}
		if _, err := uc.repo.GetBarber(ctx, shop.ID, *barberID); err != nil {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
	}

	oh, err := uc.repo.GetOpeningHours(ctx, shop.ID, int(start.Weekday()))
	if err != nil {
		return nil, httperr.ErrBusiness("outside_opening_hours")
	}
	if !schedule.FromOpeningHours(oh).Fits(timeslot.MinuteOfDay(start), duration) {
		return nil, httperr.ErrBusiness("outside_opening_hours")
	}

	b := &models.Booking{
		BarbershopID: shop.ID,
		BarberID:     barberID,
		UserID:       in.UserID,
		ServiceID:    services[0].ID,
		Services:     services,
		DurationMin:  duration,
		PriceCents:   price,
		StartAt:      start,
		EndAt:        end,
		Notes:        in.Notes,
	}

	// Stripe shops charge first; no charge, no booking. The record
	// stays pending until reconciliation observes the charge outcome.
	if shop.StripeEnabled {
		chargeRef, err := uc.gateway.Charge(ctx, price, uc.currency, payments.Meta{
			BarbershopID: shop.ID,
			CustomerID:   in.UserID,
			BookingRef:   fmt.Sprintf("%d-%s-%s", shop.ID, in.Date, in.Time),
			Description:  services[0].Name,
		})
		if err != nil {
			return nil, httperr.ErrBusiness("payment_failed")
		}
		b.PaymentMethod = domain.PaymentMethodStripe
		b.PaymentStatus = domain.PaymentStatusPending
		b.ChargeRef = &chargeRef
	} else {
		b.PaymentMethod = domain.PaymentMethodInPerson
		b.PaymentStatus = domain.PaymentStatusPending
	}

	// Collision recheck and insert share one critical section per
	// (barbershop, barber, day); the availability endpoint is only
	// advisory.
	key := locking.DayKey(shop.ID, barberID, start)
	dayStart, dayEnd := timeslot.DayBounds(start)

	err = uc.repo.Atomic(ctx, key, func(r domain.Repository) error {
		existing, err := r.ListActiveBookingsForDay(ctx, shop.ID, barberID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		if timeslot.Overlaps(timeslot.MinuteOfDay(start), duration, domain.BusyIntervals(existing)) {
			return httperr.ErrBusiness("time_conflict")
		}
		return r.CreateBooking(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &in.UserID,
		Action:       audit.ActionBookingCreated,
		Entity:       "booking",
		EntityID:     &b.ID,
	})

	if err := uc.notifier.Publish(ctx, notify.Event{
		Type:         notify.EventBookingCreated,
		BarbershopID: shop.ID,
		BookingID:    b.ID,
		UserID:       in.UserID,
		StartAt:      b.StartAt,
	}); err != nil {
		log.Printf("notify: booking %d created event failed: %v", b.ID, err)
	}

	return b, nil
}
