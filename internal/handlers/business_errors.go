package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
)

// businessStatus maps domain error codes onto HTTP statuses. Codes not
// listed here fall back to 400.
var businessStatus = map[string]int{
	"barbershop_not_found":         http.StatusNotFound,
	"barber_not_found":             http.StatusNotFound,
	"service_not_found":            http.StatusNotFound,
	"booking_not_found":            http.StatusNotFound,
	"waitlist_entry_not_found":     http.StatusNotFound,
	"not_owner":                    http.StatusForbidden,
	"payment_failed":               http.StatusPaymentRequired,
	"time_conflict":                http.StatusConflict,
	"refund_failed":                http.StatusConflict,
	"waitlist_entry_not_active":    http.StatusConflict,
	"waitlist_entry_not_fulfilled": http.StatusConflict,
	"already_cancelled":            http.StatusConflict,
}

var businessMessage = map[string]string{
	"barbershop_not_found":         "Barbershop not found.",
	"barbershop_inactive":          "Barbershop is not accepting bookings.",
	"barber_not_found":             "Barber not found.",
	"barber_required":              "A barber must be chosen for this barbershop.",
	"service_not_found":            "Service not found.",
	"no_services":                  "At least one service is required.",
	"invalid_date":                 "Invalid date.",
	"invalid_date_or_time":         "Invalid date or time.",
	"date_in_past":                 "Date is in the past.",
	"start_in_past":                "Start time is in the past.",
	"outside_opening_hours":        "Requested time is outside opening hours.",
	"time_conflict":                "Requested time is no longer available.",
	"payment_failed":               "Payment was declined.",
	"refund_failed":                "Refund failed; the booking was not cancelled.",
	"booking_not_found":            "Booking not found.",
	"booking_in_past":              "Past bookings cannot be cancelled.",
	"already_cancelled":            "Booking is already cancelled.",
	"not_owner":                    "You do not own this resource.",
	"waitlist_entry_not_active":    "Waitlist entry is not active.",
	"waitlist_entry_not_fulfilled": "Waitlist entry has not been fulfilled.",
	"payment_not_reconcilable":     "Payment cannot be reconciled in its current state.",
	"invalid_weekday":              "Weekday must be between 0 and 6.",
	"invalid_opening_hours":        "Open time must come before close time.",
	"barber_has_commitments":       "Barber still has future bookings or waitlist entries.",
}

// writeBusiness translates a use case error into an HTTP response.
// Returns false when err is not a business error, so callers can fall
// through to a 500.
func writeBusiness(c *gin.Context, err error) bool {
	var be httperr.BusinessError
	if !errors.As(err, &be) {
		return false
	}

	status, ok := businessStatus[be.Code]
	if !ok {
		status = http.StatusBadRequest
	}

	msg, ok := businessMessage[be.Code]
	if !ok {
		msg = "Request could not be processed."
	}

	httperr.Write(c, status, be.Code, msg)
	return true
}
