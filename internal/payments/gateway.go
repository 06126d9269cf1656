// Package payments is the contract the booking core needs from the
// payment provider: an idempotent charge producing a reference, and a
// refund by that reference.
package payments

import "context"

type Meta struct {
	BarbershopID uint
	BookingRef   string
	CustomerID   uint
	Description  string
}

type Gateway interface {
	// Charge returns the provider's charge reference. Callers persist
	// it on the booking; reconciliation and refunds key on it.
	Charge(ctx context.Context, amountCents int64, currency string, meta Meta) (string, error)

	// Refund reverses a charge. Any error is a hard stop for the
	// cancellation that requested it.
	Refund(ctx context.Context, chargeRef string, reason string) error
}
