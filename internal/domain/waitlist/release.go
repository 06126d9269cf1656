package waitlist

import "time"

// Release describes an interval freed by a booking cancellation; it is
// what the fulfillment engine consumes.
type Release struct {
	BarbershopID uint
	BarberID     *uint
	ServiceID    uint

	StartAt     time.Time
	EndAt       time.Time
	DurationMin int
}
