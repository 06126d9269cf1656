package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/booking"
	"github.com/clipperdesk/clipperdesk-api/internal/locking"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
	"github.com/clipperdesk/clipperdesk-api/internal/notify"
	"github.com/clipperdesk/clipperdesk-api/internal/payments"
)

// ======================================================
// FAKE REPOSITORY
// ======================================================

// fakeRepo is an in-memory domain.Repository. Atomic serializes on the
// day key with the same mutex discipline the gorm implementation gets
// from the advisory lock.
type fakeRepo struct {
	mu    sync.Mutex
	locks *locking.Keyed

	shops    map[uint]*models.Barbershop
	barbers  map[uint]*models.Barber
	services map[uint]*models.Service
	hours    map[string]*models.OpeningHours // "shopID:weekday"

	bookings map[uint]*models.Booking
	nextID   uint
}

var errNotFound = errors.New("not found")

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		locks:    locking.NewKeyed(),
		shops:    map[uint]*models.Barbershop{},
		barbers:  map[uint]*models.Barber{},
		services: map[uint]*models.Service{},
		hours:    map[string]*models.OpeningHours{},
		bookings: map[uint]*models.Booking{},
		nextID:   1,
	}
}

var _ domain.Repository = (*fakeRepo)(nil)

func (f *fakeRepo) GetBarbershopByID(_ context.Context, id uint) (*models.Barbershop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.shops[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetBarbershopBySlug(_ context.Context, slug string) (*models.Barbershop, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.shops {
		if s.Slug == slug {
			cp := *s
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetBarber(_ context.Context, shopID, barberID uint) (*models.Barber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.barbers[barberID]; ok && b.BarbershopID == shopID {
		cp := *b
		return &cp, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetLiveServices(_ context.Context, shopID uint, ids []uint) ([]models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Service
	for _, id := range ids {
		s, ok := f.services[id]
		if !ok || s.BarbershopID != shopID || s.IsDeleted() {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeRepo) GetOpeningHours(_ context.Context, shopID uint, weekday int) (*models.OpeningHours, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if oh, ok := f.hours[fmt.Sprintf("%d:%d", shopID, weekday)]; ok {
		cp := *oh
		return &cp, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) ListActiveBookingsForDay(
	_ context.Context,
	shopID uint,
	barberID *uint,
	dayStart, dayEnd time.Time,
) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.BarbershopID != shopID {
			continue
		}
		if barberID != nil && (b.BarberID == nil || *b.BarberID != *barberID) {
			continue
		}
		if b.StartAt.Before(dayStart) || !b.StartAt.Before(dayEnd) {
			continue
		}
		if !domain.IsActive(b) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeRepo) GetBookingByID(_ context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetBookingByChargeRef(_ context.Context, ref string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ChargeRef != nil && *b.ChargeRef == ref {
			cp := *b
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRepo) ListBookingsForUser(_ context.Context, userID uint) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateBooking(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.nextID
	f.nextID++
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.bookings[b.ID]; !ok {
		return errNotFound
	}
	cp := *b
	f.bookings[b.ID] = &cp
	return nil
}

func (f *fakeRepo) CountFutureActiveBookingsForBarber(_ context.Context, barberID uint, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.bookings {
		if b.BarberID != nil && *b.BarberID == barberID && b.StartAt.After(now) && domain.IsActive(b) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) Atomic(_ context.Context, key string, fn func(r domain.Repository) error) error {
	return f.locks.Do(key, func() error {
		return fn(f)
	})
}

// --------- Fixture helpers ---------

func (f *fakeRepo) addShop(s models.Barbershop) *models.Barbershop {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == 0 {
		s.ID = f.nextID
		f.nextID++
	}
	f.shops[s.ID] = &s
	return &s
}

func (f *fakeRepo) addBarber(b models.Barber) *models.Barber {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID == 0 {
		b.ID = f.nextID
		f.nextID++
	}
	f.barbers[b.ID] = &b
	return &b
}

func (f *fakeRepo) addService(s models.Service) *models.Service {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == 0 {
		s.ID = f.nextID
		f.nextID++
	}
	f.services[s.ID] = &s
	return &s
}

func (f *fakeRepo) setHours(shopID uint, weekday, open, closeMin int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hours[fmt.Sprintf("%d:%d", shopID, weekday)] = &models.OpeningHours{
		BarbershopID: shopID,
		Weekday:      weekday,
		OpenMinute:   open,
		CloseMinute:  closeMin,
	}
}

func (f *fakeRepo) setHoursAllWeek(shopID uint, open, closeMin int) {
	for wd := 0; wd < 7; wd++ {
		f.setHours(shopID, wd, open, closeMin)
	}
}

// ======================================================
// FAKE COLLABORATORS
// ======================================================

type fakeGateway struct {
	mu         sync.Mutex
	charges    int
	refunds    []string
	chargeErr  error
	refundErr  error
	nextCharge string
}

func (g *fakeGateway) Charge(_ context.Context, _ int64, _ string, _ payments.Meta) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	g.charges++
	if g.nextCharge != "" {
		return g.nextCharge, nil
	}
	return fmt.Sprintf("pi_%d", g.charges), nil
}

func (g *fakeGateway) Refund(_ context.Context, chargeRef, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refunds = append(g.refunds, chargeRef)
	return nil
}

type fakeNotifier struct {
	mu        sync.Mutex
	published []notify.Event
	cancelled []uint
}

func (n *fakeNotifier) Publish(_ context.Context, ev notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.published = append(n.published, ev)
	return nil
}

func (n *fakeNotifier) CancelPending(_ context.Context, bookingID uint) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, bookingID)
	return nil
}
