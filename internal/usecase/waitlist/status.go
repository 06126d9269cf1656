package waitlist

import (
	"context"

	domain "github.com/clipperdesk/clipperdesk-api/internal/domain/waitlist"
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
)

type QueueStatus struct {
	InQueue     bool  `json:"in_queue"`
	Position    int64 `json:"position"`
	QueueLength int64 `json:"queue_length"`
}

type GetStatus struct {
	repo domain.Repository
}

func NewGetStatus(repo domain.Repository) *GetStatus {
	return &GetStatus{repo: repo}
}

// Execute reports the caller's 1-based position among ACTIVE entries of
// the tuple, ordered by (created_at, id). Position is 0 when the caller
// is not queued.
func (uc *GetStatus) Execute(ctx context.Context, t domain.Tuple, userID uint) (*QueueStatus, error) {
	length, err := uc.repo.CountActive(ctx, t)
	if err != nil {
		return nil, err
	}

	st := &QueueStatus{QueueLength: length}

	entry, err := uc.repo.ActiveEntryForUser(ctx, t, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return st, nil
	}

	ahead, err := uc.repo.CountActiveAhead(ctx, entry)
	if err != nil {
		return nil, err
	}

	st.InQueue = true
	st.Position = ahead + 1
	return st, nil
}

// MarkSeen records that the user dismissed the "you got a slot" banner
// for a fulfilled entry.
type MarkSeen struct {
	repo domain.Repository
}

func NewMarkSeen(repo domain.Repository) *MarkSeen {
	return &MarkSeen{repo: repo}
}

func (uc *MarkSeen) Execute(ctx context.Context, entryID uint, userID uint) error {
	ok, err := uc.repo.MarkFulfilledSeen(ctx, entryID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return httperr.ErrBusiness("waitlist_entry_not_fulfilled")
	}
	return nil
}
