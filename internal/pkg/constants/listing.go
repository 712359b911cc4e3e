package constants

// Listing statuses used by the moderation workflow. The store does not constrain
// the column to these values.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Audit actions written by listing mutations.
const (
	ActionApproved = "approved"
	ActionRejected = "rejected"
	ActionEdited   = "edited"
)

// DefaultAdmin is recorded when a mutation does not name its actor.
const DefaultAdmin = "admin"

// ValidStatuses is the set of statuses the dashboard knows how to render.
var ValidStatuses = []string{StatusPending, StatusApproved, StatusRejected}

// IsKnownStatus returns true if status is one of ValidStatuses.
func IsKnownStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}
