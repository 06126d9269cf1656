package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clipperdesk/clipperdesk-api/internal/domain/schedule"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/middleware"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
	"github.com/clipperdesk/clipperdesk-api/internal/timeslot"
)

type OpeningHoursHandler struct {
	db *gorm.DB
}

func NewOpeningHoursHandler(db *gorm.DB) *OpeningHoursHandler {
	return &OpeningHoursHandler{db: db}
}

type OpeningDayConfig struct {
	Weekday int    `json:"weekday"`
	Closed  bool   `json:"closed"`
	Open    string `json:"open"`  // HH:MM
	Close   string `json:"close"` // HH:MM, 24:00 allowed
}

type OpeningHoursUpdateRequest struct {
	Days []OpeningDayConfig `json:"days" binding:"required"`
}

type openingDayView struct {
	Weekday int    `json:"weekday"`
	Closed  bool   `json:"closed"`
	Open    string `json:"open,omitempty"`
	Close   string `json:"close,omitempty"`
}

// Get returns the configured week; weekdays with no row read as closed.
func (h *OpeningHoursHandler) Get(c *gin.Context) {
	shopID := c.GetUint(middleware.ContextBarbershopID)

	var rows []models.OpeningHours
	if err := h.db.
		Where("barbershop_id = ?", shopID).
		Order("weekday ASC").
		Find(&rows).Error; err != nil {
		httperr.Internal(c, "failed_to_get_opening_hours", "Failed to load opening hours.")
		return
	}

	byDay := make(map[int]models.OpeningHours, len(rows))
	for _, r := range rows {
		byDay[r.Weekday] = r
	}

	week := make([]openingDayView, 0, 7)
	for wd := 0; wd < 7; wd++ {
		r, ok := byDay[wd]
		if !ok || r.Closed {
			week = append(week, openingDayView{Weekday: wd, Closed: true})
			continue
		}
		week = append(week, openingDayView{
			Weekday: wd,
			Open:    timeslot.FormatMinute(r.OpenMinute),
			Close:   timeslot.FormatMinute(r.CloseMinute),
		})
	}

	c.JSON(http.StatusOK, gin.H{"days": week})
}

// Update upserts the submitted weekdays. Each open day must carry a
// valid window; days omitted from the request are left untouched.
func (h *OpeningHoursHandler) Update(c *gin.Context) {
	shopID := c.GetUint(middleware.ContextBarbershopID)

	var req OpeningHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	rows := make([]models.OpeningHours, 0, len(req.Days))
	for _, day := range req.Days {
		row := models.OpeningHours{
			BarbershopID: shopID,
			Weekday:      day.Weekday,
			Closed:       day.Closed,
		}

		if !day.Closed {
			open, err := timeslot.ParseMinute(day.Open)
			if err != nil {
				httperr.BadRequest(c, "invalid_opening_hours", "Invalid open time.")
				return
			}
			closeMin, err := timeslot.ParseMinute(day.Close)
			if err != nil {
				httperr.BadRequest(c, "invalid_opening_hours", "Invalid close time.")
				return
			}
			row.OpenMinute = open
			row.CloseMinute = closeMin
		}

		if err := schedule.Validate(&row); err != nil {
			if writeBusiness(c, err) {
				return
			}
			httperr.BadRequest(c, "invalid_opening_hours", "Invalid opening hours.")
			return
		}

		rows = append(rows, row)
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "barbershop_id"}, {Name: "weekday"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"open_minute", "close_minute", "closed", "updated_at",
				}),
			}).Create(&rows[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_opening_hours", "Failed to save opening hours.")
		return
	}

	h.Get(c)
}
