package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/booking"
	waitlistdomain "github.com/clipperdesk/clipperdesk-api/internal/domain/waitlist"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
	"github.com/clipperdesk/clipperdesk-api/internal/timezone"
	bookinguc "github.com/clipperdesk/clipperdesk-api/internal/usecase/booking"
	waitlistuc "github.com/clipperdesk/clipperdesk-api/internal/usecase/waitlist"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// ShopResolver is the slice of the booking repository the public
// surface needs to turn a slug into a shop.
type ShopResolver interface {
	GetBarbershopBySlug(ctx context.Context, slug string) (*models.Barbershop, error)
}

type PublicHandler struct {
	db             *gorm.DB
	repo           ShopResolver
	availabilityUC *bookinguc.GetAvailability
	statusUC       *waitlistuc.GetStatus
}

func NewPublicHandler(
	db *gorm.DB,
	repo ShopResolver,
	availabilityUC *bookinguc.GetAvailability,
	statusUC *waitlistuc.GetStatus,
) *PublicHandler {
	return &PublicHandler{
		db:             db,
		repo:           repo,
		availabilityUC: availabilityUC,
		statusUC:       statusUC,
	}
}

////////////////////////////////////////////////////////
// BARBERSHOP
////////////////////////////////////////////////////////

// GetBarbershop resolves a shop by its public slug.
func (h *PublicHandler) GetBarbershop(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, shop)
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(strings.ToLower(c.Query("category")))
	query := strings.TrimSpace(strings.ToLower(c.Query("query")))

	q := h.db.
		Where("barbershop_id = ? AND deleted_at IS NULL", shop.ID)

	if category != "" {
		q = q.Where("LOWER(category) = ?", category)
	}

	if query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var services []models.Service
	if err := q.Order("id ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Failed to list services.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"barbershop": shop,
		"services":   services,
	})
}

////////////////////////////////////////////////////////
// BARBERS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	// exclusive shops do not expose a barber roster
	if shop.Exclusive {
		c.JSON(http.StatusOK, gin.H{"barbers": []models.Barber{}})
		return
	}

	var barbers []models.Barber
	if err := h.db.
		Where("barbershop_id = ?", shop.ID).
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_barbers", "Failed to list barbers.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"barbers": barbers})
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

// Availability answers the open slots for a day, slug-addressed so the
// booking page needs no auth.
func (h *PublicHandler) Availability(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	loc := timezone.Location(shop.Timezone)
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	serviceIDs, ok := parseServiceIDs(c)
	if !ok {
		return
	}

	var barberID *uint
	if raw := c.Query("barber_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_barber_id", "Invalid barber id.")
			return
		}
		v := uint(id)
		barberID = &v
	}

	slots, err := h.availabilityUC.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarbershopID: shop.ID,
		BarberID:     barberID,
		ServiceIDs:   serviceIDs,
		Date:         date,
	})
	if err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_get_availability", "Failed to compute availability.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":  dateStr,
		"slots": slots,
	})
}

// WaitlistStatus exposes the queue length of a tuple without requiring
// a session. Position is reported only when a logged-in user hits the
// authenticated status route.
func (h *PublicHandler) WaitlistStatus(c *gin.Context) {
	shop, ok := h.shopBySlug(c)
	if !ok {
		return
	}

	serviceID, err := strconv.ParseUint(c.Query("service_id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	date := c.Query("date")
	if date == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	t := waitlistdomain.Tuple{
		BarbershopID: shop.ID,
		ServiceID:    uint(serviceID),
		DateDay:      date,
	}
	if raw := c.Query("barber_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_barber_id", "Invalid barber id.")
			return
		}
		v := uint(id)
		t.BarberID = &v
	}

	status, err := h.statusUC.Execute(c.Request.Context(), t, 0)
	if err != nil {
		if writeBusiness(c, err) {
			return
		}
		httperr.Internal(c, "failed_to_get_status", "Failed to get waitlist status.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"queue_length": status.QueueLength})
}

////////////////////////////////////////////////////////
// HELPERS
////////////////////////////////////////////////////////

func (h *PublicHandler) shopBySlug(c *gin.Context) (*models.Barbershop, bool) {
	shop, err := h.repo.GetBarbershopBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil || !shop.Active {
		httperr.NotFound(c, "barbershop_not_found", "Barbershop not found.")
		return nil, false
	}

	return shop, true
}

// parseServiceIDs reads the comma-separated service_ids query param.
func parseServiceIDs(c *gin.Context) ([]uint, bool) {
	raw := strings.TrimSpace(c.Query("service_ids"))
	if raw == "" {
		httperr.BadRequest(c, "missing_service_ids", "At least one service id is required.")
		return nil, false
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_service_ids", "Invalid service id list.")
			return nil, false
		}
		ids = append(ids, uint(id))
	}

	return ids, true
}
