package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipperdesk/clipperdesk-api/internal/audit"
	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/booking"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
)

var testClock = func() time.Time {
	return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
}

func createFixture(t *testing.T) (*fakeRepo, *fakeGateway, *fakeNotifier, *CreateBooking, *models.Barbershop, *models.Service) {
	t.Helper()

	repo := newFakeRepo()
	shop := repo.addShop(models.Barbershop{
		Name:      "Main Street Cuts",
		Slug:      "main-street",
		Active:    true,
		Exclusive: true,
		Timezone:  "UTC",
	})
	svc := repo.addService(models.Service{
		BarbershopID: shop.ID,
		Name:         "Haircut",
		DurationMin:  30,
		PriceCents:   3000,
	})
	repo.setHoursAllWeek(shop.ID, 9*60, 18*60)

	gateway := &fakeGateway{}
	notifier := &fakeNotifier{}
	dispatcher := audit.NewDispatcher(nil)
	t.Cleanup(dispatcher.Close)

	uc := NewCreateBooking(repo, gateway, notifier, dispatcher, "usd")
	uc.now = testClock

	return repo, gateway, notifier, uc, shop, svc
}

func TestCreateBookingInPerson(t *testing.T) {
	_, gateway, notifier, uc, shop, svc := createFixture(t)

	b, err := uc.Execute(context.Background(), CreateBookingInput{
		BarbershopID: shop.ID,
		ServiceIDs:   []uint{svc.ID},
		UserID:       7,
		Date:         "2026-03-10",
		Time:         "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentMethodInPerson, b.PaymentMethod)
	assert.Equal(t, domain.PaymentStatusPending, b.PaymentStatus)
	assert.Nil(t, b.ChargeRef)
	assert.Nil(t, b.BarberID) // exclusive shop
	assert.Equal(t, 30, b.DurationMin)
	assert.Equal(t, int64(3000), b.PriceCents)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC), b.StartAt)
	assert.Equal(t, time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC), b.EndAt)

	assert.Equal(t, 0, gateway.charges)
	require.Len(t, notifier.published, 1)
	assert.Equal(t, "booking_created", notifier.published[0].Type)
}

func TestCreateBookingStripeChargesFirst(t *testing.T) {
	repo, gateway, _, uc, shop, svc := createFixture(t)

	repo.shops[shop.ID].StripeEnabled = true
	gateway.nextCharge = "pi_test_123"

	b, err := uc.Execute(context.Background(), CreateBookingInput{
		BarbershopID: shop.ID,
		ServiceIDs:   []uint{svc.ID},
		UserID:       7,
		Date:         "2026-03-10",
		Time:         "10:00",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentMethodStripe, b.PaymentMethod)
	assert.Equal(t, domain.PaymentStatusPending, b.PaymentStatus)
	require.NotNil(t, b.ChargeRef)
	assert.Equal(t, "pi_test_123", *b.ChargeRef)
	assert.Equal(t, 1, gateway.charges)
}

func TestCreateBookingPaymentDeclined(t *testing.T) {
	repo, gateway, _, uc, shop, svc := createFixture(t)

	repo.shops[shop.ID].StripeEnabled = true
	gateway.chargeErr = errors.New("card_declined")

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		BarbershopID: shop.ID,
		ServiceIDs:   []uint{svc.ID},
		UserID:       7,
		Date:         "2026-03-10",
		Time:         "10:00",
	})
	assert.True(t, httperr.IsBusiness(err, "payment_failed"))
	assert.Empty(t, repo.bookings)
}

func TestCreateBookingConflict(t *testing.T) {
	_, _, _, uc, shop, svc := createFixture(t)

	in := CreateBookingInput{
		BarbershopID: shop.ID,
		ServiceIDs:   []uint{svc.ID},
		UserID:       7,
		Date:         "2026-03-10",
		Time:         "10:00",
	}

	_, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	in.UserID = 8
	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "time_conflict"))

	// a touching interval is fine: [10:30, 11:00) after [10:00, 10:30)
	in.Time = "10:30"
	_, err = uc.Execute(context.Background(), in)
	assert.NoError(t, err)
}

func TestCreateBookingConcurrentSameSlot(t *testing.T) {
	repo, _, _, uc, shop, svc := createFixture(t)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), CreateBookingInput{
				BarbershopID: shop.ID,
				ServiceIDs:   []uint{svc.ID},
				UserID:       uint(100 + i),
				Date:         "2026-03-10",
				Time:         "10:00",
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.True(t, httperr.IsBusiness(err, "time_conflict"))
		}
	}
	assert.Equal(t, 1, wins)
	assert.Len(t, repo.bookings, 1)
}

func TestCreateBookingOutsideOpeningHours(t *testing.T) {
	_, _, _, uc, shop, svc := createFixture(t)

	for _, tc := range []string{"08:30", "17:45", "20:00"} {
		_, err := uc.Execute(context.Background(), CreateBookingInput{
			BarbershopID: shop.ID,
			ServiceIDs:   []uint{svc.ID},
			UserID:       7,
			Date:         "2026-03-10",
			Time:         tc,
		})
		assert.True(t, httperr.IsBusiness(err, "outside_opening_hours"), "time %s", tc)
	}
}

func TestCreateBookingInPast(t *testing.T) {
	_, _, _, uc, shop, svc := createFixture(t)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		BarbershopID: shop.ID,
		ServiceIDs:   []uint{svc.ID},
		UserID:       7,
		Date:         "2026-03-09",
		Time:         "11:00", // clock is 12:00 that day
	})
	assert.True(t, httperr.IsBusiness(err, "start_in_past"))
}

func TestCreateBookingBarberRules(t *testing.T) {
	repo, _, _, uc, _, _ := createFixture(t)

	multi := repo.addShop(models.Barbershop{
		Name:     "Crew Cuts",
		Slug:     "crew",
		Active:   true,
		Timezone: "UTC",
	})
	svc := repo.addService(models.Service{
		BarbershopID: multi.ID,
		DurationMin:  30,
		PriceCents:   2500,
	})
	barber := repo.addBarber(models.Barber{BarbershopID: multi.ID, Name: "Alex"})
	repo.setHoursAllWeek(multi.ID, 9*60, 18*60)

	in := CreateBookingInput{
		BarbershopID: multi.ID,
		ServiceIDs:   []uint{svc.ID},
		UserID:       7,
		Date:         "2026-03-10",
		Time:         "10:00",
	}

	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "barber_required"))

	unknown := uint(9999)
	in.BarberID = &unknown
	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "barber_not_found"))

	in.BarberID = &barber.ID
	b, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, b.BarberID)
	assert.Equal(t, barber.ID, *b.BarberID)
}

func TestCreateBookingPerBarberTimelines(t *testing.T) {
	repo, _, _, uc, _, _ := createFixture(t)

	multi := repo.addShop(models.Barbershop{
		Name: "Crew Cuts", Slug: "crew", Active: true, Timezone: "UTC",
	})
	svc := repo.addService(models.Service{
		BarbershopID: multi.ID, DurationMin: 30, PriceCents: 2500,
	})
	alex := repo.addBarber(models.Barber{BarbershopID: multi.ID, Name: "Alex"})
	sam := repo.addBarber(models.Barber{BarbershopID: multi.ID, Name: "Sam"})
	repo.setHoursAllWeek(multi.ID, 9*60, 18*60)

	in := CreateBookingInput{
		BarbershopID: multi.ID,
		BarberID:     &alex.ID,
		ServiceIDs:   []uint{svc.ID},
		UserID:       7,
		Date:         "2026-03-10",
		Time:         "10:00",
	}
	_, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	// same slot with the other barber does not collide
	in.BarberID = &sam.ID
	in.UserID = 8
	_, err = uc.Execute(context.Background(), in)
	assert.NoError(t, err)
}
