package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nexaworks/site-backend/internal/model"
	"github.com/nexaworks/site-backend/internal/repository"
	"github.com/nexaworks/site-backend/internal/service"
)

// ---------------------------------------------------------------------------
// mockContactService — function-field stub for handler tests
// ---------------------------------------------------------------------------

type mockContactService struct {
	submitFunc        func(ctx context.Context, in service.SubmitInput) (*model.ContactMessage, error)
	listFunc          func(ctx context.Context, in service.ListInput) ([]*model.ContactMessage, model.Pagination, error)
	getByIDFunc       func(ctx context.Context, id string) (*model.ContactMessage, error)
	updateStatusFunc  func(ctx context.Context, id, status string, notes *string) (*model.ContactMessage, error)
	respondFunc       func(ctx context.Context, id string, in service.RespondInput) (*model.ContactResponse, error)
	listResponsesFunc func(ctx context.Context, id string) ([]*model.ContactResponse, error)
	deleteFunc        func(ctx context.Context, id string) error
}

func (m *mockContactService) Submit(ctx context.Context, in service.SubmitInput) (*model.ContactMessage, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, in)
	}
	return &model.ContactMessage{}, nil
}

func (m *mockContactService) List(ctx context.Context, in service.ListInput) ([]*model.ContactMessage, model.Pagination, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, in)
	}
	return nil, model.Pagination{}, nil
}

func (m *mockContactService) GetByID(ctx context.Context, id string) (*model.ContactMessage, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.ContactMessage{}, nil
}

func (m *mockContactService) UpdateStatus(ctx context.Context, id, status string, notes *string) (*model.ContactMessage, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status, notes)
	}
	return &model.ContactMessage{}, nil
}

func (m *mockContactService) Respond(ctx context.Context, id string, in service.RespondInput) (*model.ContactResponse, error) {
	if m.respondFunc != nil {
		return m.respondFunc(ctx, id, in)
	}
	return &model.ContactResponse{}, nil
}

func (m *mockContactService) ListResponses(ctx context.Context, id string) ([]*model.ContactResponse, error) {
	if m.listResponsesFunc != nil {
		return m.listResponsesFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockContactService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// newRequestWithID builds a request routed through a mux so PathValue works.
func doRouted(t *testing.T, method, pattern, target, body string, fn http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc(method+" "+pattern, fn)
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success  bool                `json:"success"`
	Error    string              `json:"error"`
	Message  string              `json:"message"`
	Fields   []service.FieldError `json:"fields"`
	Contact  *model.ContactMessage `json:"contact"`
	Contacts []*model.ContactMessage `json:"contacts"`
	Response *model.ContactResponse `json:"response"`
	Pagination *model.Pagination   `json:"pagination"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

// ---------------------------------------------------------------------------
// POST /contact
// ---------------------------------------------------------------------------

func TestContactHandler_Submit_Created(t *testing.T) {
	var captured service.SubmitInput
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, in service.SubmitInput) (*model.ContactMessage, error) {
			captured = in
			return &model.ContactMessage{
				ID:        "abc-123",
				Name:      in.Name,
				Email:     in.Email,
				Service:   in.Service,
				Message:   in.Message,
				Status:    model.StatusNew,
				Priority:  model.PriorityMedium,
				Source:    model.DefaultSource,
				CreatedAt: time.Now().UTC(),
			}, nil
		},
	}
	h := NewContactHandler(mock)

	body := `{"name":"John Smith","email":"john@example.com","service":"AI Development","message":"Hello!"}`
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Error("expected success=true")
	}
	if env.Contact == nil || env.Contact.ID != "abc-123" {
		t.Errorf("expected contact in envelope, got %+v", env.Contact)
	}
	if env.Contact.Status != model.StatusNew {
		t.Errorf("expected status=new, got %q", env.Contact.Status)
	}
	if captured.Email != "john@example.com" {
		t.Errorf("input not forwarded: %+v", captured)
	}
}

func TestContactHandler_Submit_InvalidJSON(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error != "invalid_json" {
		t.Errorf("expected invalid_json kind, got %q", env.Error)
	}
}

func TestContactHandler_Submit_ValidationFieldsInBody(t *testing.T) {
	mock := &mockContactService{
		submitFunc: func(ctx context.Context, in service.SubmitInput) (*model.ContactMessage, error) {
			return nil, &service.ValidationError{Fields: []service.FieldError{
				{Field: "name", Reason: "required"},
				{Field: "email", Reason: "malformed"},
			}}
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("expected success=false")
	}
	if env.Error != "validation_failed" {
		t.Errorf("expected validation_failed, got %q", env.Error)
	}
	if len(env.Fields) != 2 {
		t.Errorf("expected both violated fields reported, got %+v", env.Fields)
	}
}

// ---------------------------------------------------------------------------
// GET /contacts
// ---------------------------------------------------------------------------

func TestContactHandler_List_ForwardsQueryParams(t *testing.T) {
	var captured service.ListInput
	mock := &mockContactService{
		listFunc: func(ctx context.Context, in service.ListInput) ([]*model.ContactMessage, model.Pagination, error) {
			captured = in
			return []*model.ContactMessage{{ID: "1"}}, model.Pagination{Page: 2, PageSize: 5, Total: 11}, nil
		},
	}
	h := NewContactHandler(mock)

	req := httptest.NewRequest(http.MethodGet, "/contacts?page=2&page_size=5&status=new", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Page != 2 || captured.PageSize != 5 || captured.Status != "new" {
		t.Errorf("params not forwarded: %+v", captured)
	}
	env := decodeEnvelope(t, rec)
	if env.Pagination == nil || env.Pagination.Total != 11 {
		t.Errorf("expected pagination metadata, got %+v", env.Pagination)
	}
}

func TestContactHandler_List_EmptyIsArray(t *testing.T) {
	h := NewContactHandler(&mockContactService{})

	req := httptest.NewRequest(http.MethodGet, "/contacts", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if !strings.Contains(rec.Body.String(), `"contacts":[]`) {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

// ---------------------------------------------------------------------------
// GET /contacts/{id}
// ---------------------------------------------------------------------------

func TestContactHandler_Get_NotFound(t *testing.T) {
	mock := &mockContactService{
		getByIDFunc: func(ctx context.Context, id string) (*model.ContactMessage, error) {
			return nil, repository.ErrNotFound
		},
	}
	h := NewContactHandler(mock)

	rec := doRouted(t, http.MethodGet, "/contacts/{id}", "/contacts/missing", "", h.Get)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error != "not_found" {
		t.Errorf("expected not_found kind, got %q", env.Error)
	}
}

// ---------------------------------------------------------------------------
// PATCH /contacts/{id}/status
// ---------------------------------------------------------------------------

func TestContactHandler_UpdateStatus_OK(t *testing.T) {
	var gotID, gotStatus string
	var gotNotes *string
	mock := &mockContactService{
		updateStatusFunc: func(ctx context.Context, id, status string, notes *string) (*model.ContactMessage, error) {
			gotID, gotStatus, gotNotes = id, status, notes
			return &model.ContactMessage{ID: id, Status: status}, nil
		},
	}
	h := NewContactHandler(mock)

	rec := doRouted(t, http.MethodPatch, "/contacts/{id}/status", "/contacts/abc/status",
		`{"status":"in_progress","notes":"following up"}`, h.UpdateStatus)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotID != "abc" || gotStatus != "in_progress" {
		t.Errorf("args not forwarded: id=%q status=%q", gotID, gotStatus)
	}
	if gotNotes == nil || *gotNotes != "following up" {
		t.Errorf("notes not forwarded: %v", gotNotes)
	}
}

func TestContactHandler_UpdateStatus_IllegalTransition(t *testing.T) {
	mock := &mockContactService{
		updateStatusFunc: func(ctx context.Context, id, status string, notes *string) (*model.ContactMessage, error) {
			return nil, &service.TransitionError{From: model.StatusClosed, To: model.StatusNew}
		},
	}
	h := NewContactHandler(mock)

	rec := doRouted(t, http.MethodPatch, "/contacts/{id}/status", "/contacts/abc/status",
		`{"status":"new"}`, h.UpdateStatus)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error != "invalid_transition" {
		t.Errorf("expected invalid_transition kind, got %q", env.Error)
	}
}

// ---------------------------------------------------------------------------
// POST /contacts/{id}/respond
// ---------------------------------------------------------------------------

func TestContactHandler_Respond_Created(t *testing.T) {
	mock := &mockContactService{
		respondFunc: func(ctx context.Context, id string, in service.RespondInput) (*model.ContactResponse, error) {
			return &model.ContactResponse{
				ID:               "resp-1",
				ContactMessageID: id,
				AdminEmail:       in.AdminEmail,
				ResponseMessage:  in.ResponseMessage,
				FollowUpAction:   in.FollowUpAction,
				CreatedAt:        time.Now().UTC(),
			}, nil
		},
	}
	h := NewContactHandler(mock)

	rec := doRouted(t, http.MethodPost, "/contacts/{id}/respond", "/contacts/abc/respond",
		`{"adminEmail":"admin@x.com","responseMessage":"On it","followUpAction":"schedule_call"}`, h.Respond)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Response == nil || env.Response.ID != "resp-1" {
		t.Errorf("expected response in envelope, got %+v", env.Response)
	}
	if env.Response.AdminEmail != "admin@x.com" || env.Response.FollowUpAction != "schedule_call" {
		t.Errorf("fields not carried: %+v", env.Response)
	}
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func TestWriteServiceError_Mapping(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantKind string
	}{
		{"validation", &service.ValidationError{Fields: []service.FieldError{{Field: "email", Reason: "required"}}}, http.StatusBadRequest, "validation_failed"},
		{"transition", &service.TransitionError{From: "closed", To: "new"}, http.StatusBadRequest, "invalid_transition"},
		{"not found", repository.ErrNotFound, http.StatusNotFound, "not_found"},
		{"constraint", &repository.ConstraintError{Err: errors.New("check failed")}, http.StatusBadGateway, "storage_rejected"},
		{"transient", &repository.TransientError{Err: errors.New("refused")}, http.StatusServiceUnavailable, "storage_unavailable"},
		{"partial", &repository.PartialWriteError{ResponseID: "r1", Err: errors.New("boom")}, http.StatusInternalServerError, "partial_write"},
		{"unknown", errors.New("surprise"), http.StatusInternalServerError, "internal_error"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeServiceError(rec, c.err)
			if rec.Code != c.wantCode {
				t.Errorf("code: want %d, got %d", c.wantCode, rec.Code)
			}
			env := decodeEnvelope(t, rec)
			if env.Error != c.wantKind {
				t.Errorf("kind: want %q, got %q", c.wantKind, env.Error)
			}
			if env.Success {
				t.Error("expected success=false")
			}
			if env.Message == "" {
				t.Error("expected human-readable message")
			}
		})
	}
}
