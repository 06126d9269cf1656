package waitlist

import (
	"context"

	"github.com/clipperdesk/clipperdesk-api/internal/audit"
	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/waitlist"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
)

type Leave struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewLeave(repo domain.Repository, auditD *audit.Dispatcher) *Leave {
	return &Leave{repo: repo, audit: auditD}
}

// Execute flips exactly one ACTIVE entry owned by the requester to
// CANCELED. The update is conditional on the current status, so a
// racing fulfillment and a racing leave cannot both apply: whichever
// lands first wins and the other sees zero rows.
func (uc *Leave) Execute(ctx context.Context, entryID uint, userID uint) error {
	ok, err := uc.repo.CancelEntry(ctx, entryID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrBusiness("waitlist_entry_not_active")
	}

	entry, err := uc.repo.GetEntryByID(ctx, entryID)
	if err == nil {
		uc.audit.Dispatch(audit.Event{
			BarbershopID: entry.BarbershopID,
			UserID:       &userID,
			Action:       audit.ActionWaitlistLeft,
			Entity:       "waitlist_entry",
			EntityID:     &entry.ID,
		})
	}

	return nil
}
