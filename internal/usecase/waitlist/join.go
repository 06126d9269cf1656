package waitlist

import (
	"context"
	"time"

	"github.com/clipperdesk/clipperdesk-api/internal/audit"
	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/waitlist"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
	"github.com/clipperdesk/clipperdesk-api/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type JoinInput struct {
	BarbershopID uint
	BarberID     *uint
	ServiceID    uint
	DateDay      string // YYYY-MM-DD
	UserID       uint
}

type JoinResult struct {
	Entry    *models.WaitlistEntry
	Position int64
}

// ======================================================
// USE CASE
// ======================================================

type Join struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewJoin(repo domain.Repository, auditD *audit.Dispatcher) *Join {
	return &Join{repo: repo, audit: auditD, now: time.Now}
}

func (uc *Join) Execute(ctx context.Context, in JoinInput) (*JoinResult, error) {
	shop, err := uc.repo.GetBarbershopByID(ctx, in.BarbershopID)
	if err != nil {
		return nil, httperr.ErrBusiness("barbershop_not_found")
	}
	if !shop.Active {
		return nil, httperr.ErrBusiness("barbershop_inactive")
	}

	barberID := in.BarberID
	if shop.Exclusive {
		barberID = nil
	} else {
		if barberID == nil {
			return nil, httperr.ErrBusiness("barber_required")
		}
		if _, err := uc.repo.GetBarber(ctx, shop.ID, *barberID); err != nil {
			return nil, httperr.ErrBusiness("barber_not_found")
		}
	}

	if _, err := uc.repo.GetLiveService(ctx, shop.ID, in.ServiceID); err != nil {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	loc := timezone.Location(shop.Timezone)
	day, err := time.ParseInLocation("2006-01-02", in.DateDay, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	// a day already fully behind us cannot be waited for
	now := uc.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if day.Before(today) {
		return nil, httperr.ErrBusiness("date_in_past")
	}

	entry := &models.WaitlistEntry{
		UserID:       in.UserID,
		BarbershopID: shop.ID,
		BarberID:     barberID,
		ServiceID:    in.ServiceID,
		DateDay:      in.DateDay,
		Status:       domain.StatusActive,
	}
	if err := uc.repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	ahead, err := uc.repo.CountActiveAhead(ctx, entry)
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: shop.ID,
		UserID:       &in.UserID,
		Action:       audit.ActionWaitlistJoined,
		Entity:       "waitlist_entry",
		EntityID:     &entry.ID,
	})

	return &JoinResult{Entry: entry, Position: ahead + 1}, nil
}
