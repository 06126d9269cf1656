package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/httpresp"
	"github.com/clipperdesk/clipperdesk-api/internal/middleware"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

// --------- Requests ---------

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DurationMin int    `json:"duration_min" binding:"required,min=1"`
	PriceCents  int64  `json:"price_cents" binding:"required,min=0"`
	Category    string `json:"category"`
}

type UpdateServiceRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	DurationMin *int    `json:"duration_min"`
	PriceCents  *int64  `json:"price_cents"`
	Category    *string `json:"category"`
}

// --------- Handlers ---------

func (h *ServiceHandler) List(c *gin.Context) {
	shopID := c.GetUint(middleware.ContextBarbershopID)

	var services []models.Service
	if err := h.db.
		Where("barbershop_id = ? AND deleted_at IS NULL", shopID).
		Order("id ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Failed to list services.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	shopID := c.GetUint(middleware.ContextBarbershopID)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	service := models.Service{
		BarbershopID: shopID,
		Name:         req.Name,
		Description:  req.Description,
		DurationMin:  req.DurationMin,
		PriceCents:   req.PriceCents,
		Category:     req.Category,
	}

	if err := h.db.Create(&service).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Failed to create service.")
		return
	}

	c.JSON(http.StatusCreated, service)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	shopID := c.GetUint(middleware.ContextBarbershopID)

	service, ok := h.liveService(c, shopID)
	if !ok {
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.DurationMin != nil {
		if *req.DurationMin < 1 {
			httperr.BadRequest(c, "invalid_duration", "Duration must be at least one minute.")
			return
		}
		service.DurationMin = *req.DurationMin
	}
	if req.PriceCents != nil {
		if *req.PriceCents < 0 {
			httperr.BadRequest(c, "invalid_price", "Price cannot be negative.")
			return
		}
		service.PriceCents = *req.PriceCents
	}
	if req.Category != nil {
		service.Category = *req.Category
	}

	if err := h.db.Save(service).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Failed to update service.")
		return
	}

	httpresp.OK(c, service)
}

// Delete soft-removes a service. Existing bookings keep their copied
// duration and price, so the row itself stays.
func (h *ServiceHandler) Delete(c *gin.Context) {
	shopID := c.GetUint(middleware.ContextBarbershopID)

	service, ok := h.liveService(c, shopID)
	if !ok {
		return
	}

	now := time.Now()
	service.DeletedAt = &now

	if err := h.db.Save(service).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_service", "Failed to delete service.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// --------- Helpers ---------

func (h *ServiceHandler) liveService(c *gin.Context, shopID uint) (*models.Service, bool) {
	serviceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return nil, false
	}

	var service models.Service
	if err := h.db.
		Where("id = ? AND barbershop_id = ? AND deleted_at IS NULL", serviceID, shopID).
		First(&service).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return nil, false
	}

	return &service, true
}
