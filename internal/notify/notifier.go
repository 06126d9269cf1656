// Package notify hands booking lifecycle events to the delivery side
// (WhatsApp/SMS workers live outside this service; they drain the job
// queue this package writes).
package notify

import (
	"context"
	"time"
)

const (
	EventBookingCreated    = "booking_created"
	EventBookingCanceled   = "booking_canceled"
	EventWaitlistFulfilled = "waitlist_fulfilled"
)

type Event struct {
	Type         string    `json:"type"`
	BarbershopID uint      `json:"barbershop_id"`
	BookingID    uint      `json:"booking_id"`
	UserID       uint      `json:"user_id"`
	StartAt      time.Time `json:"start_at"`
	EntryID      *uint     `json:"entry_id,omitempty"`
}

type Notifier interface {
	// Publish schedules whatever messages the event implies
	// (confirmation now, reminder before start).
	Publish(ctx context.Context, ev Event) error

	// CancelPending drops every not-yet-sent job tied to a booking.
	CancelPending(ctx context.Context, bookingID uint) error
}

// Noop satisfies Notifier for tests and notification-less deployments.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error      { return nil }
func (Noop) CancelPending(context.Context, uint) error { return nil }
