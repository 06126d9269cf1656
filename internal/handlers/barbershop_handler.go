package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/middleware"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
)

type BarbershopHandler struct {
	db *gorm.DB
}

func NewBarbershopHandler(db *gorm.DB) *BarbershopHandler {
	return &BarbershopHandler{db: db}
}

type UpdateBarbershopRequest struct {
	Name          *string `json:"name"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	Timezone      *string `json:"timezone"`
	Active        *bool   `json:"active"`
	Exclusive     *bool   `json:"exclusive"`
	StripeEnabled *bool   `json:"stripe_enabled"`
}

func (h *BarbershopHandler) Get(c *gin.Context) {
	shopID := c.GetUint(middleware.ContextBarbershopID)

	var shop models.Barbershop
	if err := h.db.First(&shop, shopID).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbershop not found.")
		return
	}

	c.JSON(http.StatusOK, shop)
}

func (h *BarbershopHandler) Update(c *gin.Context) {
	shopID := c.GetUint(middleware.ContextBarbershopID)

	var shop models.Barbershop
	if err := h.db.First(&shop, shopID).Error; err != nil {
		httperr.NotFound(c, "barbershop_not_found", "Barbershop not found.")
		return
	}

	var req UpdateBarbershopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		shop.Name = *req.Name
	}
	if req.Phone != nil {
		shop.Phone = *req.Phone
	}
	if req.Address != nil {
		shop.Address = *req.Address
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		shop.Timezone = *req.Timezone
	}
	if req.Active != nil {
		shop.Active = *req.Active
	}
	if req.StripeEnabled != nil {
		shop.StripeEnabled = *req.StripeEnabled
	}

	// Flipping to exclusive collapses the shop into one timeline, which
	// would silently merge per-barber schedules. Refuse while any barber
	// still has future active bookings.
	if req.Exclusive != nil && *req.Exclusive && !shop.Exclusive {
		var count int64
		if err := h.db.Model(&models.Booking{}).
			Where("barbershop_id = ? AND barber_id IS NOT NULL AND start_at > ? AND cancelled_at IS NULL",
				shop.ID, time.Now()).
			Count(&count).Error; err != nil {
			httperr.Internal(c, "failed_to_update_barbershop", "Failed to update barbershop.")
			return
		}
		if count > 0 {
			httperr.Conflict(c, "barbers_have_bookings",
				"Barbers still have future bookings; the shop cannot become single-barber.")
			return
		}
	}
	if req.Exclusive != nil {
		shop.Exclusive = *req.Exclusive
	}

	if err := h.db.Save(&shop).Error; err != nil {
		httperr.Internal(c, "failed_to_update_barbershop", "Failed to update barbershop.")
		return
	}

	c.JSON(http.StatusOK, shop)
}
