package waitlist

// ===============================
// Entry Status
// ===============================

const (
	StatusActive    = "active"
	StatusFulfilled = "fulfilled"
	StatusCanceled  = "canceled"
	StatusExpired   = "expired"
)

// Terminal statuses are never reopened; expiry is driven externally,
// the engine here only produces fulfilled and canceled.
func IsTerminal(status string) bool {
	switch status {
	case StatusFulfilled, StatusCanceled, StatusExpired:
		return true
	}
	return false
}
