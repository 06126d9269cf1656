package waitlist

import (
	"context"
	"log"

	"github.com/clipperdesk/clipperdesk-api/internal/audit"
	bookingdomain "github.com/clipperdesk/clipperdesk-api/internal/domain/booking"
	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/waitlist"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/locking"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
	"github.com/clipperdesk/clipperdesk-api/internal/notify"
	"github.com/clipperdesk/clipperdesk-api/internal/timeslot"
	"github.com/clipperdesk/clipperdesk-api/internal/timezone"
)

// Engine converts the head of a waitlist queue into a confirmed booking
// when a matching interval is released. One release fulfills at most
// one entry; if the head's recheck fails the engine stops rather than
// scanning further down the queue.
type Engine struct {
	repo     domain.Repository
	notifier notify.Notifier
	audit    *audit.Dispatcher
}

func NewEngine(repo domain.Repository, notifier notify.Notifier, auditD *audit.Dispatcher) *Engine {
	return &Engine{repo: repo, notifier: notifier, audit: auditD}
}

func (e *Engine) Fulfill(ctx context.Context, rel domain.Release) error {
	shop, err := e.repo.GetBarbershopByID(ctx, rel.BarbershopID)
	if err != nil {
		return err
	}

	loc := timezone.Location(shop.Timezone)
	start := rel.StartAt.In(loc)

	tuple := domain.Tuple{
		BarbershopID: rel.BarbershopID,
		BarberID:     rel.BarberID,
		ServiceID:    rel.ServiceID,
		DateDay:      timeslot.DayKey(start),
	}

	var fulfilled *models.WaitlistEntry
	var booked *models.Booking

	// Same critical section as direct booking creation: two releases
	// racing for adjacent intervals, or a release racing a fresh
	// booking request, must serialize on the day key.
	key := locking.DayKey(rel.BarbershopID, rel.BarberID, start)
	dayStart, dayEnd := timeslot.DayBounds(start)

	err = e.repo.Atomic(ctx, key, func(r domain.Repository) error {
		entry, err := r.FirstActiveEntry(ctx, tuple)
		if err != nil {
			return err
		}
		if entry == nil {
			// empty queue: a release with nobody waiting is a no-op
			return nil
		}

		// Defensive recheck: another fulfillment or a direct booking
		// may have taken the interval. Fail closed, no-op.
		existing, err := r.ListActiveBookingsForDay(ctx, rel.BarbershopID, rel.BarberID, dayStart, dayEnd)
		if err != nil {
			return err
		}
		startMin := timeslot.MinuteOfDay(start)
		if timeslot.Overlaps(startMin, rel.DurationMin, bookingdomain.BusyIntervals(existing)) {
			return nil
		}

		service, err := r.GetLiveService(ctx, rel.BarbershopID, rel.ServiceID)
		if err != nil {
			return err
		}

		// The fulfilled booking takes the released interval as-is and
		// settles in person.
		b := &models.Booking{
			BarbershopID:  rel.BarbershopID,
			BarberID:      rel.BarberID,
			UserID:        entry.UserID,
			ServiceID:     service.ID,
			Services:      []models.Service{*service},
			DurationMin:   rel.DurationMin,
			PriceCents:    service.PriceCents,
			StartAt:       rel.StartAt,
			EndAt:         rel.EndAt,
			PaymentMethod: bookingdomain.PaymentMethodInPerson,
			PaymentStatus: bookingdomain.PaymentStatusPending,
		}
		if err := r.CreateBooking(ctx, b); err != nil {
			return err
		}

		ok, err := r.MarkFulfilled(ctx, entry.ID, b.ID)
		if err != nil {
			return err
		}
		if !ok {
			// the customer left between the read and the flip; undo
			// the insert by failing the unit
			return httperr.ErrBusiness("waitlist_entry_not_active")
		}

		entry.Status = domain.StatusFulfilled
		entry.FulfilledBookingID = &b.ID
		fulfilled = entry
		booked = b
		return nil
	})
	if err != nil {
		return err
	}
	if fulfilled == nil {
		return nil
	}

	e.audit.Dispatch(audit.Event{
		BarbershopID: rel.BarbershopID,
		UserID:       &fulfilled.UserID,
		Action:       audit.ActionWaitlistFulfilled,
		Entity:       "waitlist_entry",
		EntityID:     &fulfilled.ID,
	})

	if err := e.notifier.Publish(ctx, notify.Event{
		Type:         notify.EventWaitlistFulfilled,
		BarbershopID: rel.BarbershopID,
		BookingID:    booked.ID,
		UserID:       fulfilled.UserID,
		StartAt:      booked.StartAt,
		EntryID:      &fulfilled.ID,
	}); err != nil {
		log.Printf("notify: waitlist entry %d fulfilled event failed: %v", fulfilled.ID, err)
	}

	return nil
}
