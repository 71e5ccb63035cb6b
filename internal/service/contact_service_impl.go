package service

import (
	"context"
	"net/mail"
	"strings"

	"github.com/nexaworks/site-backend/internal/model"
	"github.com/nexaworks/site-backend/internal/repository"
)

const maxMessageLength = 5000

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo     repository.ContactRepository
	notifier Notifier
}

// NewContactService creates a ContactService backed by the given repository
// and notifier.
func NewContactService(repo repository.ContactRepository, notifier Notifier) ContactService {
	return &contactServiceImpl{repo: repo, notifier: notifier}
}

// validEmail reports whether s parses as a bare RFC 5322 address.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// Submit validates the input, persists the message with workflow defaults
// and fires the admin notification. No record is written when any field is
// invalid.
func (s *contactServiceImpl) Submit(ctx context.Context, in SubmitInput) (*model.ContactMessage, error) {
	v := &ValidationError{}
	if strings.TrimSpace(in.Name) == "" {
		v.invalid("name", "required")
	}
	switch {
	case strings.TrimSpace(in.Email) == "":
		v.invalid("email", "required")
	case !validEmail(in.Email):
		v.invalid("email", "malformed")
	}
	if strings.TrimSpace(in.Service) == "" {
		v.invalid("service", "required")
	}
	switch {
	case strings.TrimSpace(in.Message) == "":
		v.invalid("message", "required")
	case len([]rune(in.Message)) > maxMessageLength:
		v.invalid("message", "too long")
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	msg := &model.ContactMessage{
		Name:     strings.TrimSpace(in.Name),
		Email:    in.Email,
		Phone:    strings.TrimSpace(in.Phone),
		Company:  strings.TrimSpace(in.Company),
		Service:  strings.TrimSpace(in.Service),
		Message:  in.Message,
		Status:   model.StatusNew,
		Priority: model.PriorityMedium,
		Source:   model.DefaultSource,
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.notifier.NewContact(msg)
	return msg, nil
}

// List returns one page of messages, newest first.
func (s *contactServiceImpl) List(ctx context.Context, in ListInput) ([]*model.ContactMessage, model.Pagination, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	opts := model.ContactListOptions{
		Status: in.Status,
		Limit:  size,
		Offset: (page - 1) * size,
	}
	messages, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return messages, model.Pagination{Page: page, PageSize: size, Total: total}, nil
}

func (s *contactServiceImpl) GetByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus applies a caller-directed transition. The status must be one
// of the four lifecycle values and reachable from the current one; "closed"
// is terminal.
func (s *contactServiceImpl) UpdateStatus(ctx context.Context, id, status string, notes *string) (*model.ContactMessage, error) {
	if !model.ValidStatus(status) {
		return nil, (&ValidationError{}).invalid("status", "must be one of new, in_progress, responded, closed")
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(current.Status, status) {
		return nil, &TransitionError{From: current.Status, To: status}
	}
	return s.repo.UpdateStatus(ctx, id, status, notes)
}

// Respond records an admin reply. The repository advances the parent to
// "responded" and stamps responded_at in the same logical write; the
// submitter is then notified best-effort.
func (s *contactServiceImpl) Respond(ctx context.Context, id string, in RespondInput) (*model.ContactResponse, error) {
	v := &ValidationError{}
	switch {
	case strings.TrimSpace(in.AdminEmail) == "":
		v.invalid("adminEmail", "required")
	case !validEmail(in.AdminEmail):
		v.invalid("adminEmail", "malformed")
	}
	if strings.TrimSpace(in.ResponseMessage) == "" {
		v.invalid("responseMessage", "required")
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &model.ContactResponse{
		ContactMessageID: id,
		AdminEmail:       in.AdminEmail,
		ResponseMessage:  in.ResponseMessage,
		FollowUpAction:   strings.TrimSpace(in.FollowUpAction),
	}
	if err := s.repo.CreateResponse(ctx, resp); err != nil {
		return nil, err
	}

	s.notifier.Response(resp, msg)
	return resp, nil
}

func (s *contactServiceImpl) ListResponses(ctx context.Context, id string) ([]*model.ContactResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.ListResponses(ctx, id)
}

func (s *contactServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
