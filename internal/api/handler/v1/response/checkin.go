package response

import "github.com/Toms422/trial-master-pro/internal/domain"

const (
	CheckInStatusPending          = "pending"
	CheckInStatusCompleted        = "completed"
	CheckInStatusAlreadySubmitted = "already_submitted"
)

// CheckInResponse is the public form contract: a pending token carries the
// participant snapshot for prefill; a completed one carries only the status,
// so the page shows the friendly terminal view instead of the form.
type CheckInResponse struct {
	Status      string              `json:"status"`
	Participant *domain.Participant `json:"participant,omitempty"`
}

type WhatsAppLinkResponse struct {
	Link string `json:"link"`
}

type BulkDeleteResponse struct {
	Deleted int64 `json:"deleted"`
}
