package audit

import "log"

// Actions recorded by the booking core.
const (
	ActionBookingCreated    = "booking_created"
	ActionBookingCancelled  = "booking_cancelled"
	ActionPaymentReconciled = "payment_reconciled"
	ActionWaitlistJoined    = "waitlist_joined"
	ActionWaitlistLeft      = "waitlist_left"
	ActionWaitlistFulfilled = "waitlist_fulfilled"
)

type Event struct {
	BarbershopID uint
	UserID       *uint
	Action       string
	Entity       string
	EntityID     *uint
	Metadata     any
}

type Dispatcher struct {
	logger *Logger
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(logger *Logger) *Dispatcher {
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, 100),
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if d.logger == nil {
			continue
		}
		if err := d.logger.Log(
			ev.BarbershopID,
			ev.UserID,
			ev.Action,
			ev.Entity,
			ev.EntityID,
			ev.Metadata,
		); err != nil {
			log.Println("audit error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		// queue full: drop the event, never block the request path
		log.Println("audit queue full, dropping event")
	}
}

// Close drains the queue; call on shutdown.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
