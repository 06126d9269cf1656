package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipperdesk/clipperdesk-api/internal/models"
)

func TestIsActive(t *testing.T) {
	now := time.Now()
	ref := "pi_1"

	cases := []struct {
		name string
		b    models.Booking
		want bool
	}{
		{"in person pending", models.Booking{PaymentMethod: PaymentMethodInPerson, PaymentStatus: PaymentStatusPending}, true},
		{"cancelled", models.Booking{PaymentMethod: PaymentMethodInPerson, PaymentStatus: PaymentStatusPending, CancelledAt: &now}, false},
		{"stripe paid", models.Booking{PaymentMethod: PaymentMethodStripe, PaymentStatus: PaymentStatusPaid}, true},
		{"stripe failed", models.Booking{PaymentMethod: PaymentMethodStripe, PaymentStatus: PaymentStatusFailed, ChargeRef: &ref}, false},
		{"stripe pending with charge ref", models.Booking{PaymentMethod: PaymentMethodStripe, PaymentStatus: PaymentStatusPending, ChargeRef: &ref}, true},
		{"stripe pending without charge ref", models.Booking{PaymentMethod: PaymentMethodStripe, PaymentStatus: PaymentStatusPending}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsActive(&tc.b))
		})
	}
}

func TestCancel(t *testing.T) {
	now := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	b := &models.Booking{StartAt: now.Add(time.Hour)}
	require.NoError(t, Cancel(b, now))
	require.NotNil(t, b.CancelledAt)
	assert.Equal(t, now, *b.CancelledAt)

	// idempotence is rejected, not silently absorbed
	err := Cancel(b, now)
	assert.EqualError(t, err, "already_cancelled")

	past := &models.Booking{StartAt: now.Add(-time.Minute)}
	err = Cancel(past, now)
	assert.EqualError(t, err, "booking_in_past")
	assert.Nil(t, past.CancelledAt)
}

func TestBusyIntervals(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	cancelled := day.Add(8 * time.Hour)

	bookings := []models.Booking{
		{
			StartAt: day.Add(10 * time.Hour), DurationMin: 30,
			PaymentMethod: PaymentMethodInPerson, PaymentStatus: PaymentStatusPending,
		},
		{
			StartAt: day.Add(14 * time.Hour), DurationMin: 60,
			PaymentMethod: PaymentMethodInPerson, PaymentStatus: PaymentStatusPending,
			CancelledAt: &cancelled,
		},
	}

	busy := BusyIntervals(bookings)
	require.Len(t, busy, 1)
	assert.Equal(t, 600, busy[0].StartMin)
	assert.Equal(t, 630, busy[0].EndMin)
}
