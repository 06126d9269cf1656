package booking

import (
	"context"
	"time"

	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/booking"
	"github.com/clipperdesk/clipperdesk-api/internal/domain/schedule"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/timeslot"
	"github.com/clipperdesk/clipperdesk-api/internal/timezone"
)

// GetAvailability is the advisory read path: the list it returns is
// re-verified server-side at checkout time.
type GetAvailability struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetAvailability(repo domain.Repository) *GetAvailability {
	return &GetAvailability{repo: repo, now: time.Now}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {

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

	// Exclusive shops run one timeline; a pinned barber narrows the
	// collision scope, no barber means the whole shop.
	barberID := in.BarberID
	if shop.Exclusive {
		barberID = nil
	} else if barberID != nil {
		if _, err := uc.repo.GetBarber(ctx, shop.ID, *barberID); err != nil {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
	}

	services, err := uc.repo.GetLiveServices(ctx, shop.ID, in.ServiceIDs)
	if err != nil || len(services) != len(in.ServiceIDs) {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	duration := 0
	for _, s := range services {
		duration += s.DurationMin
	}

	loc := timezone.Location(shop.Timezone)
	day := in.Date.In(loc)

	oh, err := uc.repo.GetOpeningHours(ctx, shop.ID, int(day.Weekday()))
	if err != nil {
		// not configured = closed
		return []domain.TimeSlot{}, nil
	}

	window := schedule.FromOpeningHours(oh)
	if window.Closed {
		return []domain.TimeSlot{}, nil
	}

	dayStart, dayEnd := timeslot.DayBounds(day)
	bookings, err := uc.repo.ListActiveBookingsForDay(ctx, shop.ID, barberID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	busy := domain.BusyIntervals(bookings)

	now := uc.now().In(loc)
	today := timeslot.SameDay(day, now)
	nowMin := timeslot.MinuteOfDay(now)

	// a day already behind us has no bookable starts at all
	if !today && day.Before(now) {
		return []domain.TimeSlot{}, nil
	}

	slots := []domain.TimeSlot{}
	for start := window.OpenMinute; start+duration <= window.CloseMinute; start += timeslot.StepMinutes {
		// same-day requests only offer starts after the current time
		if today && start <= nowMin {
			continue
		}
		if timeslot.Overlaps(start, duration, busy) {
			continue
		}

		slots = append(slots, domain.TimeSlot{
			Start: timeslot.FormatMinute(start),
			End:   timeslot.FormatMinute(start + duration),
		})
	}

	return slots, nil
}
