package booking

import (
	"context"

	"github.com/clipperdesk/clipperdesk-api/internal/audit"
	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/booking"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
)

// ReconcilePayment applies the charge outcome observed by the payment
// provider: pending bookings move to paid or failed by charge
// reference. Failed bookings stop counting toward collisions.
type ReconcilePayment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewReconcilePayment(repo domain.Repository, auditD *audit.Dispatcher) *ReconcilePayment {
	return &ReconcilePayment{repo: repo, audit: auditD}
}

func (uc *ReconcilePayment) Execute(
	ctx context.Context,
	chargeRef string,
	status string,
) (*models.Booking, error) {

	b, err := uc.repo.GetBookingByChargeRef(ctx, chargeRef)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.CanReconcile(b.PaymentStatus, status); err != nil {
		return nil, err
	}

	b.PaymentStatus = status
	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: b.BarbershopID,
		Action:       audit.ActionPaymentReconciled,
		Entity:       "booking",
		EntityID:     &b.ID,
		Metadata:     map[string]string{"status": status},
	})

	return b, nil
}
