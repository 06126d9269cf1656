package booking

import "github.com/clipperdesk/clipperdesk-api/internal/httperr"

// ===============================
// Payment method / status
// ===============================

const (
	PaymentMethodInPerson = "in_person"
	PaymentMethodStripe   = "stripe"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// ===============================
// Validations
// ===============================

func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// CanReconcile guards the pending -> paid/failed transition driven by
// the payment webhook.
func CanReconcile(current, next string) error {
	if current != PaymentStatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	if next != PaymentStatusPaid && next != PaymentStatusFailed {
		return httperr.ErrBusiness("invalid_payment_status")
	}
	return nil
}
