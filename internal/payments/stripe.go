package payments

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/paymentintent"
	"github.com/stripe/stripe-go/v79/refund"
)

// StripeGateway charges through PaymentIntents. The intent id is the
// charge reference persisted on the booking.
type StripeGateway struct{}

func NewStripeGateway(secretKey string) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{}
}

func (g *StripeGateway) Charge(ctx context.Context, amountCents int64, currency string, meta Meta) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amountCents),
		Currency:    stripe.String(currency),
		Description: stripe.String(meta.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	// A fresh key per attempt; the client library replays it on its
	// own network-level retries, so one attempt never double-charges.
	params.IdempotencyKey = stripe.String(uuid.NewString())
	params.AddMetadata("barbershop_id", strconv.FormatUint(uint64(meta.BarbershopID), 10))
	params.AddMetadata("customer_id", strconv.FormatUint(uint64(meta.CustomerID), 10))
	params.AddMetadata("booking_ref", meta.BookingRef)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe charge: %w", err)
	}
	return pi.ID, nil
}

func (g *StripeGateway) Refund(ctx context.Context, chargeRef string, reason string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(chargeRef),
	}
	params.Context = ctx
	if reason != "" {
		params.AddMetadata("reason", reason)
	}

	if _, err := refund.New(params); err != nil {
		return fmt.Errorf("stripe refund: %w", err)
	}
	return nil
}

// Compile-time check
var _ Gateway = (*StripeGateway)(nil)
