// Package schedule resolves a barbershop's open window for a weekday.
package schedule

import (
	"github.com/clipperdesk/clipperdesk-api/internal/httperr"
	"github.com/clipperdesk/clipperdesk-api/internal/models"
	"github.com/clipperdesk/clipperdesk-api/internal/timeslot"
)

// Window is the resolved open/closed window of one weekday, in minutes
// since local midnight.
type Window struct {
	OpenMinute  int
	CloseMinute int
	Closed      bool
}

// ClosedWindow is what an unconfigured weekday resolves to.
var ClosedWindow = Window{Closed: true}

// FromOpeningHours maps a stored row to a Window. A nil row (weekday
// not configured) is closed.
func FromOpeningHours(oh *models.OpeningHours) Window {
	if oh == nil || oh.Closed {
		return ClosedWindow
	}
	return Window{
		OpenMinute:  oh.OpenMinute,
		CloseMinute: oh.CloseMinute,
	}
}

// Fits reports whether [startMin, startMin+durationMin) lies entirely
// inside the open window.
func (w Window) Fits(startMin, durationMin int) bool {
	if w.Closed {
		return false
	}
	return startMin >= w.OpenMinute && startMin+durationMin <= w.CloseMinute
}

// Validate enforces the owning-mutation invariant: an open weekday has
// 0 <= open < close <= 1440.
func Validate(oh *models.OpeningHours) error {
	if oh.Weekday < 0 || oh.Weekday > 6 {
		return httperr.ErrBusiness("invalid_weekday")
	}
	if oh.Closed {
		return nil
	}
	if oh.OpenMinute < 0 || oh.CloseMinute > timeslot.MinutesPerDay {
		return httperr.ErrBusiness("invalid_opening_hours")
	}
	if oh.CloseMinute <= oh.OpenMinute {
		return httperr.ErrBusiness("invalid_opening_hours")
	}
	return nil
}
