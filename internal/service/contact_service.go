package service

import (
	"context"

	"github.com/nexaworks/site-backend/internal/model"
)

// SubmitInput is a raw contact-form submission before validation.
type SubmitInput struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Service string
	Message string
}

// RespondInput is an admin reply to a contact message.
type RespondInput struct {
	AdminEmail      string
	ResponseMessage string
	FollowUpAction  string
}

// ListInput carries page-based pagination and an optional status filter.
type ListInput struct {
	Page     int
	PageSize int
	Status   string
}

// ContactService defines the business logic for the contact workflow:
// validation, status lifecycle, persistence orchestration and best-effort
// notifications.
type ContactService interface {
	// Submit validates the input, stores a new contact message with default
	// status/priority/source and returns the stored record. The admin
	// channel is notified best-effort.
	Submit(ctx context.Context, in SubmitInput) (*model.ContactMessage, error)

	// List returns contact messages newest first with page metadata.
	List(ctx context.Context, in ListInput) ([]*model.ContactMessage, model.Pagination, error)

	// GetByID returns one contact message or repository.ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.ContactMessage, error)

	// UpdateStatus applies a caller-directed status transition, optionally
	// updating admin notes, and returns the updated record.
	UpdateStatus(ctx context.Context, id, status string, notes *string) (*model.ContactMessage, error)

	// Respond records an admin reply, marks the parent message responded
	// (unless closed) and notifies the submitter best-effort.
	Respond(ctx context.Context, id string, in RespondInput) (*model.ContactResponse, error)

	// ListResponses returns all replies recorded for a message.
	ListResponses(ctx context.Context, id string) ([]*model.ContactResponse, error)

	// Delete removes a message and, via cascade, its responses. This is an
	// administrative cleanup action, not part of the normal workflow.
	Delete(ctx context.Context, id string) error
}

// Notifier is the outbound messaging collaborator. Implementations must be
// non-blocking and must never propagate delivery failures to the caller.
type Notifier interface {
	NewContact(msg *model.ContactMessage)
	Response(resp *model.ContactResponse, msg *model.ContactMessage)
}
