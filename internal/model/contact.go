package model

import "time"

// ContactMessage statuses. A message starts as StatusNew and only moves
// forward through the lifecycle; StatusClosed is terminal.
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusResponded  = "responded"
	StatusClosed     = "closed"
)

// ContactMessage priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// DefaultSource tags submissions that arrived through the public site form.
const DefaultSource = "website"

// statusRank orders the lifecycle. Transitions may only move to an equal or
// higher rank, and nothing leaves StatusClosed.
var statusRank = map[string]int{
	StatusNew:        0,
	StatusInProgress: 1,
	StatusResponded:  2,
	StatusClosed:     3,
}

// ValidStatus reports whether s is one of the four lifecycle statuses.
func ValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether a message may move from one status to
// another. Same-status "transitions" are allowed so admins can update notes
// without changing state.
func CanTransition(from, to string) bool {
	fr, ok := statusRank[from]
	if !ok {
		return false
	}
	tr, ok := statusRank[to]
	if !ok {
		return false
	}
	if from == StatusClosed {
		return to == StatusClosed
	}
	return tr >= fr
}

// ContactMessage represents a single inbound contact-form submission.
type ContactMessage struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone,omitempty"`
	Company     string     `json:"company,omitempty"`
	Service     string     `json:"service"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Source      string     `json:"source"`
	AdminNotes  string     `json:"admin_notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

// ContactResponse is an admin reply recorded against one ContactMessage.
// Responses are immutable once created and are deleted with their parent.
type ContactResponse struct {
	ID               string    `json:"id"`
	ContactMessageID string    `json:"contact_message_id"`
	AdminEmail       string    `json:"admin_email"`
	ResponseMessage  string    `json:"response_message"`
	FollowUpAction   string    `json:"follow_up_action,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ContactListOptions carries filter and pagination parameters for listing
// contact messages.
type ContactListOptions struct {
	// Status filters by message status: "" or "all" return all messages.
	Status string
	Limit  int
	Offset int
}

// Pagination describes the slice of a list result relative to the full set.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}
