package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/booking"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/httpresp"
	"github.com/clipperdesk/clipperdesk-api/internal/middleware"
	bookinguc "github.com/clipperdesk/clipperdesk-api/internal/usecase/booking"
)

type BookingHandler struct {
	repo     domain.Repository
	createUC *bookinguc.CreateBooking
	cancelUC *bookinguc.CancelBooking
}

func NewBookingHandler(
	repo domain.Repository,
	createUC *bookinguc.CreateBooking,
	cancelUC *bookinguc.CancelBooking,
) *BookingHandler {
	return &BookingHandler{
		repo:     repo,
		createUC: createUC,
		cancelUC: cancelUC,
	}
}

// --------- Requests ---------

type CreateBookingRequest struct {
	BarbershopID uint   `json:"barbershop_id" binding:"required"`
	BarberID     *uint  `json:"barber_id"`
	ServiceIDs   []uint `json:"service_ids" binding:"required"`
	Date         string `json:"date" binding:"required"` // YYYY-MM-DD
	Time         string `json:"time" binding:"required"` // HH:MM
	Notes        string `json:"notes"`
}

// --------- Handlers ---------

// Create books a slot for the authenticated customer.
func (h *BookingHandler) Create(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	booking, err := h.createUC.Execute(c.Request.Context(), bookinguc.CreateBookingInput{
		BarbershopID: req.BarbershopID,
		BarberID:     req.BarberID,
		ServiceIDs:   req.ServiceIDs,
		UserID:       userID,
		Date:         req.Date,
		Time:         req.Time,
		Notes:        req.Notes,
	})
	if err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_create_booking", "Failed to create booking.")
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// ListMine returns the authenticated user's bookings, newest first.
func (h *BookingHandler) ListMine(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	bookings, err := h.repo.ListBookingsForUser(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Failed to list bookings.")
		return
	}

	httpresp.List(c, bookings)
}

// Cancel releases the interval and, if paid online, refunds first.
func (h *BookingHandler) Cancel(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	bookingID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_booking_id", "Invalid booking id.")
		return
	}

	booking, err := h.cancelUC.Execute(c.Request.Context(), uint(bookingID), userID)
	if err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_cancel_booking", "Failed to cancel booking.")
		return
	}

	httpresp.OK(c, booking)
}
