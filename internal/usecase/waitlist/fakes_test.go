package waitlist

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	bookingdomain "github.com/clipperdesk/clipperdesk-api/internal/domain/booking"
	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/waitlist"
	"github.com/clipperdesk/clipperdesk-api/internal/locking"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
	"github.com/clipperdesk/clipperdesk-api/internal/notify"
)

// ======================================================
// FAKE REPOSITORY
// ======================================================

type fakeRepo struct {
	mu    sync.Mutex
	locks *locking.Keyed

	shops    map[uint]*models.Barbershop
	barbers  map[uint]*models.Barber
	services map[uint]*models.Service

	entries  map[uint]*models.WaitlistEntry
	bookings map[uint]*models.Booking

	nextID uint
	clock  time.Time
}

var errNotFound = errors.New("not found")

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		locks:    locking.NewKeyed(),
		shops:    map[uint]*models.Barbershop{},
		barbers:  map[uint]*models.Barber{},
		services: map[uint]*models.Service{},
		entries:  map[uint]*models.WaitlistEntry{},
		bookings: map[uint]*models.Booking{},
		nextID:   1,
		clock:    time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC),
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

func (f *fakeRepo) GetBarber(_ context.Context, shopID, barberID uint) (*models.Barber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.barbers[barberID]; ok && b.BarbershopID == shopID {
		cp := *b
		return &cp, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) GetLiveService(_ context.Context, shopID, serviceID uint) (*models.Service, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.services[serviceID]; ok && s.BarbershopID == shopID && !s.IsDeleted() {
		cp := *s
		return &cp, nil
	}
	return nil, errNotFound
}

func (f *fakeRepo) CreateEntry(_ context.Context, e *models.WaitlistEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.nextID
	f.nextID++
	// strictly increasing created_at, matching DB insert order
	f.clock = f.clock.Add(time.Second)
	e.CreatedAt = f.clock
	cp := *e
	f.entries[e.ID] = &cp
	return nil
}

func (f *fakeRepo) GetEntryByID(_ context.Context, id uint) (*models.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entries[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, errNotFound
}

func matchesTuple(e *models.WaitlistEntry, t domain.Tuple) bool {
	if e.BarbershopID != t.BarbershopID || e.ServiceID != t.ServiceID || e.DateDay != t.DateDay {
		return false
	}
	if t.BarberID == nil {
		return e.BarberID == nil
	}
	return e.BarberID != nil && *e.BarberID == *t.BarberID
}

func (f *fakeRepo) activeByTuple(t domain.Tuple) []*models.WaitlistEntry {
	var out []*models.WaitlistEntry
	for _, e := range f.entries {
		if e.Status == domain.StatusActive && matchesTuple(e, t) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (f *fakeRepo) FirstActiveEntry(_ context.Context, t domain.Tuple) (*models.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	active := f.activeByTuple(t)
	if len(active) == 0 {
		return nil, nil
	}
	cp := *active[0]
	return &cp, nil
}

func (f *fakeRepo) ActiveEntryForUser(_ context.Context, t domain.Tuple, userID uint) (*models.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.activeByTuple(t) {
		if e.UserID == userID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) CountActiveAhead(_ context.Context, e *models.WaitlistEntry) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := domain.Tuple{
		BarbershopID: e.BarbershopID,
		BarberID:     e.BarberID,
		ServiceID:    e.ServiceID,
		DateDay:      e.DateDay,
	}
	var n int64
	for _, other := range f.activeByTuple(t) {
		if other.CreatedAt.Before(e.CreatedAt) ||
			(other.CreatedAt.Equal(e.CreatedAt) && other.ID < e.ID) {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountActive(_ context.Context, t domain.Tuple) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.activeByTuple(t))), nil
}

func (f *fakeRepo) CountActiveForBarber(_ context.Context, barberID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.entries {
		if e.Status == domain.StatusActive && e.BarberID != nil && *e.BarberID == barberID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) ListEntriesForUser(_ context.Context, userID uint) ([]models.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.WaitlistEntry
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeRepo) CancelEntry(_ context.Context, entryID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryID]
	if !ok || e.UserID != userID || e.Status != domain.StatusActive {
		return false, nil
	}
	e.Status = domain.StatusCanceled
	return true, nil
}

func (f *fakeRepo) MarkFulfilled(_ context.Context, entryID, bookingID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryID]
	if !ok || e.Status != domain.StatusActive {
		return false, nil
	}
	e.Status = domain.StatusFulfilled
	e.FulfilledBookingID = &bookingID
	return true, nil
}

func (f *fakeRepo) MarkFulfilledSeen(_ context.Context, entryID, userID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryID]
	if !ok || e.UserID != userID || e.Status != domain.StatusFulfilled || e.FulfilledSeenAt != nil {
		return false, nil
	}
	now := f.clock
	e.FulfilledSeenAt = &now
	return true, nil
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
		if !bookingdomain.IsActive(b) {
			continue
		}
		out = append(out, *b)
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

func (f *fakeRepo) Atomic(_ context.Context, key string, fn func(r domain.Repository) error) error {
	return f.locks.Do(key, func() error {
		return fn(f)
	})
}

// --------- Fixture helpers ---------

func (f *fakeRepo) bookingByID(id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, errNotFound
}

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

// ======================================================
// FAKE NOTIFIER
// ======================================================

type fakeNotifier struct {
	mu        sync.Mutex
	published []notify.Event
}

func (n *fakeNotifier) Publish(_ context.Context, ev notify.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.published = append(n.published, ev)
	return nil
}

func (n *fakeNotifier) CancelPending(context.Context, uint) error { return nil }
