package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nexaworks/site-backend/internal/model"
	"github.com/nexaworks/site-backend/internal/service"
)

// ContactHandler maps the contact workflow operations onto HTTP routes.
type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler creates a ContactHandler with the given service.
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// submitRequest is the expected JSON body for POST /contact.
type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// Submit handles POST /contact.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON", nil)
		return
	}

	contact, err := h.contactService.Submit(r.Context(), service.SubmitInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Service: req.Service,
		Message: req.Message,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"contact": contact})
}

// List handles GET /contacts.
// Query params: page, page_size, status (all/new/in_progress/responded/closed).
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	in := service.ListInput{
		Page:     1,
		PageSize: 0, // service applies its default
		Status:   r.URL.Query().Get("status"),
	}
	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			in.Page = n
		}
	}
	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			in.PageSize = n
		}
	}

	contacts, page, err := h.contactService.List(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	// Return [] not null for empty lists
	if contacts == nil {
		contacts = []*model.ContactMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"contacts":   contacts,
		"pagination": page,
	})
}

// Get handles GET /contacts/{id}.
func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	contact, err := h.contactService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contact": contact})
}

// updateStatusRequest is the expected JSON body for PATCH /contacts/{id}/status.
type updateStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// UpdateStatus handles PATCH /contacts/{id}/status.
func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON", nil)
		return
	}

	contact, err := h.contactService.UpdateStatus(r.Context(), r.PathValue("id"), req.Status, req.Notes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"contact": contact})
}

// respondRequest is the expected JSON body for POST /contacts/{id}/respond.
type respondRequest struct {
	AdminEmail      string `json:"adminEmail"`
	ResponseMessage string `json:"responseMessage"`
	FollowUpAction  string `json:"followUpAction"`
}

// Respond handles POST /contacts/{id}/respond.
func (h *ContactHandler) Respond(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body is not valid JSON", nil)
		return
	}

	resp, err := h.contactService.Respond(r.Context(), r.PathValue("id"), service.RespondInput{
		AdminEmail:      req.AdminEmail,
		ResponseMessage: req.ResponseMessage,
		FollowUpAction:  req.FollowUpAction,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"response": resp})
}

// ListResponses handles GET /contacts/{id}/responses.
func (h *ContactHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	responses, err := h.contactService.ListResponses(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if responses == nil {
		responses = []*model.ContactResponse{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"responses": responses})
}

// Delete handles DELETE /contacts/{id} (administrative cleanup; responses are
// removed by the cascade).
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.contactService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}
