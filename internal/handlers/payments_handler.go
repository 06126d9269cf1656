package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	bookinguc "github.com/clipperdesk/clipperdesk-api/internal/usecase/booking"
)

// PaymentsHandler receives charge outcomes from the payment provider.
type PaymentsHandler struct {
	reconcileUC *bookinguc.ReconcilePayment
}

func NewPaymentsHandler(reconcileUC *bookinguc.ReconcilePayment) *PaymentsHandler {
	return &PaymentsHandler{reconcileUC: reconcileUC}
}

type ReconcileRequest struct {
	ChargeRef string `json:"charge_ref" binding:"required"`
	Status    string `json:"status" binding:"required"` // paid | failed
}

func (h *PaymentsHandler) Reconcile(c *gin.Context) {
	var req ReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	booking, err := h.reconcileUC.Execute(c.Request.Context(), req.ChargeRef, req.Status)
	if err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_reconcile", "Failed to reconcile payment.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"booking_id":     booking.ID,
		"payment_status": booking.PaymentStatus,
	})
}
