package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/waitlist"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/httpresp"
	"github.com/clipperdesk/clipperdesk-api/internal/middleware"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
	waitlistuc "github.com/clipperdesk/clipperdesk-api/internal/usecase/waitlist"
)

type WaitlistHandler struct {
	repo     domain.Repository
	joinUC   *waitlistuc.Join
	leaveUC  *waitlistuc.Leave
	statusUC *waitlistuc.GetStatus
	seenUC   *waitlistuc.MarkSeen
}

func NewWaitlistHandler(
	repo domain.Repository,
	joinUC *waitlistuc.Join,
	leaveUC *waitlistuc.Leave,
	statusUC *waitlistuc.GetStatus,
	seenUC *waitlistuc.MarkSeen,
) *WaitlistHandler {
	return &WaitlistHandler{
		repo:     repo,
		joinUC:   joinUC,
		leaveUC:  leaveUC,
		statusUC: statusUC,
		seenUC:   seenUC,
	}
}

// --------- Requests ---------

type JoinWaitlistRequest struct {
	BarbershopID uint   `json:"barbershop_id" binding:"required"`
	BarberID     *uint  `json:"barber_id"`
	ServiceID    uint   `json:"service_id" binding:"required"`
	Date         string `json:"date" binding:"required"` // YYYY-MM-DD
}

// --------- Handlers ---------

// Join appends the authenticated user to the queue for a fully booked
// day and answers with their position.
func (h *WaitlistHandler) Join(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	var req JoinWaitlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	res, err := h.joinUC.Execute(c.Request.Context(), waitlistuc.JoinInput{
		BarbershopID: req.BarbershopID,
		BarberID:     req.BarberID,
		ServiceID:    req.ServiceID,
		DateDay:      req.Date,
		UserID:       userID,
	})
	if err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_join_waitlist", "Failed to join waitlist.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"entry":    res.Entry,
		"position": res.Position,
	})
}

// Leave cancels an active entry owned by the caller.
func (h *WaitlistHandler) Leave(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_entry_id", "Invalid waitlist entry id.")
		return
	}

	if err := h.leaveUC.Execute(c.Request.Context(), uint(entryID), userID); err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_leave_waitlist", "Failed to leave waitlist.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "canceled"})
}

// ListMine returns the caller's waitlist entries across shops.
// ?active=true keeps only entries still waiting or awaiting an ack.
func (h *WaitlistHandler) ListMine(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	entries, err := h.repo.ListEntriesForUser(c.Request.Context(), userID)
	if err != nil {
		httperr.Internal(c, "failed_to_list_waitlist", "Failed to list waitlist entries.")
		return
	}

	if c.Query("active") == "true" {
		live := make([]models.WaitlistEntry, 0, len(entries))
		for _, e := range entries {
			if !domain.IsTerminal(e.Status) || (e.Status == domain.StatusFulfilled && e.FulfilledSeenAt == nil) {
				live = append(live, e)
			}
		}
		entries = live
	}

	httpresp.List(c, entries)
}

// Status reports the caller's position in one queue.
func (h *WaitlistHandler) Status(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	t, ok := parseTupleQuery(c)
	if !ok {
		return
	}

	status, err := h.statusUC.Execute(c.Request.Context(), t, userID)
	if err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_get_status", "Failed to get waitlist status.")
		return
	}

	httpresp.OK(c, status)
}

// Seen acknowledges a fulfillment notification.
func (h *WaitlistHandler) Seen(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserID)

	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_entry_id", "Invalid waitlist entry id.")
		return
	}

	if err := h.seenUC.Execute(c.Request.Context(), uint(entryID), userID); err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_mark_seen", "Failed to acknowledge fulfillment.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "seen"})
}

// --------- Helpers ---------

func parseTupleQuery(c *gin.Context) (domain.Tuple, bool) {
	var t domain.Tuple

	shopID, err := strconv.ParseUint(c.Query("barbershop_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barbershop_id", "Invalid barbershop id.")
		return t, false
	}

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return t, false
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return t, false
	}

	t.BarbershopID = uint(shopID)
	t.ServiceID = uint(serviceID)
	t.DateDay = date

	if raw := c.Query("barber_id"); raw != "" {
		barberID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_barber_id", "Invalid barber id.")
			return t, false
		}
		id := uint(barberID)
		t.BarberID = &id
	}

	return t, true
}
