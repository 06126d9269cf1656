package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	bookingdomain "github.com/clipperdesk/clipperdesk-api/internal/domain/booking"
	waitlistdomain "github.com/clipperdesk/clipperdesk-api/internal/domain/waitlist"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/httpresp"
	"github.com/clipperdesk/clipperdesk-api/internal/middleware"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
)

type BarberHandler struct {
	db           *gorm.DB
	bookingRepo  bookingdomain.Repository
	waitlistRepo waitlistdomain.Repository
}

func NewBarberHandler(
	db *gorm.DB,
	bookingRepo bookingdomain.Repository,
	waitlistRepo waitlistdomain.Repository,
) *BarberHandler {
	return &BarberHandler{
		db:           db,
		bookingRepo:  bookingRepo,
		waitlistRepo: waitlistRepo,
	}
}

type CreateBarberRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *BarberHandler) List(c *gin.Context) {
	shopID := c.GetUint(middleware.ContextBarbershopID)

	var barbers []models.Barber
	if err := h.db.
		Where("barbershop_id = ?", shopID).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Failed to list barbers.")
		return
	}

	httpresp.List(c, barbers)
}

func (h *BarberHandler) Create(c *gin.Context) {
	shopID := c.GetUint(middleware.ContextBarbershopID)

	var shop models.Barbershop
	if err := h.db.First(&shop, shopID).Error; err != nil {
		httperr.Internal(c, "barbershop_not_found", "Barbershop not found.")
		return
	}
	if shop.Exclusive {
		httperr.BadRequest(c, "shop_is_exclusive", "Single-barber shops have no roster.")
		return
	}

	var req CreateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	barber := models.Barber{
		BarbershopID: shopID,
		Name:         req.Name,
	}

	if err := h.db.Create(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_create_barber", "Failed to create barber.")
		return
	}

	c.JSON(http.StatusCreated, barber)
}

// Delete removes a barber, refused while they still carry future
// bookings or active waitlist entries.
func (h *BarberHandler) Delete(c *gin.Context) {
	shopID := c.GetUint(middleware.ContextBarbershopID)

	barberID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_barber_id", "Invalid barber id.")
		return
	}

	var barber models.Barber
	if err := h.db.
		Where("id = ? AND barbershop_id = ?", barberID, shopID).
		First(&barber).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barber not found.")
		return
	}

	ctx := c.Request.Context()

	bookings, err := h.bookingRepo.CountFutureActiveBookingsForBarber(ctx, barber.ID, time.Now())
	if err != nil {
		httperr.Internal(c, "failed_to_delete_barber", "Failed to delete barber.")
		return
	}

	entries, err := h.waitlistRepo.CountActiveForBarber(ctx, barber.ID)
	if err != nil {
		httperr.Internal(c, "failed_to_delete_barber", "Failed to delete barber.")
		return
	}

	if bookings > 0 || entries > 0 {
		httperr.Conflict(c, "barber_has_commitments",
			"Barber still has future bookings or waitlist entries.")
		return
	}

	if err := h.db.Delete(&barber).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_barber", "Failed to delete barber.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
