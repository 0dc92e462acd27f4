package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/quillhq/quill/internal/notes/domain"
	"github.com/quillhq/quill/internal/notes/service"
	"github.com/quillhq/quill/internal/notes/store"
	"github.com/quillhq/quill/pkg/httpx"
	"github.com/quillhq/quill/pkg/slogx"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// RoleErrorResponse reports a role-gate failure with both sides of the
// comparison so clients can render the required role.
type RoleErrorResponse struct {
	Error    string `json:"error"`
	Required string `json:"required"`
	Current  string `json:"current"`
}

// QuotaErrorResponse reports a free-tier limit rejection with enough detail
// to drive an upgrade prompt.
type QuotaErrorResponse struct {
	Error       string `json:"error"`
	Message     string `json:"message"`
	CurrentPlan string `json:"currentPlan"`
	Limit       int    `json:"limit"`
	Current     int    `json:"current"`
}

type TenantResponse struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	Subscription string `json:"subscription"`
}

type UserResponse struct {
	ID     string         `json:"id"`
	Email  string         `json:"email"`
	Role   string         `json:"role"`
	Tenant TenantResponse `json:"tenant"`
}

type NoteResponse struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Author    domain.NoteAuthor `json:"author"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expiresIn"`
	User      UserResponse `json:"user"`
}

type NoteListResponse struct {
	Notes        []NoteResponse `json:"notes"`
	Total        int            `json:"total"`
	Subscription string         `json:"subscription"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UpgradeResponse struct {
	Message   string         `json:"message"`
	Tenant    TenantResponse `json:"tenant"`
	NoteCount int            `json:"noteCount"`
}

type TenantStats struct {
	Notes     int `json:"notes"`
	Users     int `json:"users"`
	NoteLimit int `json:"noteLimit,omitempty"` // absent for pro tenants
}

type TenantMember struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type TenantInfoResponse struct {
	Tenant TenantResponse `json:"tenant"`
	Stats  TenantStats    `json:"stats"`
	Users  []TenantMember `json:"users"`
}

type BootstrapResponse struct {
	Message string   `json:"message"`
	Tenants []string `json:"tenants"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`

	Checks map[string]string `json:"checks,omitempty"`
}

func toTenantResponse(t domain.Tenant) TenantResponse {
	return TenantResponse{
		ID:           t.ID,
		Slug:         t.Slug,
		Name:         t.Name,
		Subscription: t.Subscription.String(),
	}
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:     u.ID,
		Email:  u.Email,
		Role:   u.Role.String(),
		Tenant: toTenantResponse(u.Tenant),
	}
}

func toNoteResponse(n domain.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Author:    n.Author,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func toNoteListResponse(list service.NoteList) NoteListResponse {
	notes := make([]NoteResponse, 0, len(list.Notes))
	for _, n := range list.Notes {
		notes = append(notes, toNoteResponse(n))
	}
	return NoteListResponse{
		Notes:        notes,
		Total:        list.Total,
		Subscription: list.Subscription.String(),
	}
}

// writeDomainError maps a service error onto the envelope exactly once.
// Anything unrecognized is a 500 with no detail leaked.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var roleErr *domain.RoleError
	var quotaErr *domain.QuotaError
	var valErr *domain.ValidationError

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_credentials",
			Message: "Invalid email or password",
		})

	case errors.Is(err, domain.ErrUnauthenticated):
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "authentication_required",
		})

	case errors.Is(err, domain.ErrTenantAccessDenied):
		httpx.WriteJSON(w, http.StatusForbidden, ErrorResponse{
			Error: "tenant_access_denied",
		})

	case errors.As(err, &roleErr):
		httpx.WriteJSON(w, http.StatusForbidden, RoleErrorResponse{
			Error:    "insufficient_permissions",
			Required: roleErr.Required.String(),
			Current:  roleErr.Actual.String(),
		})

	case errors.As(err, &quotaErr):
		httpx.WriteJSON(w, http.StatusForbidden, QuotaErrorResponse{
			Error:       "subscription_limit_exceeded",
			Message:     "Note limit reached. Upgrade to pro for unlimited notes.",
			CurrentPlan: quotaErr.Plan.String(),
			Limit:       quotaErr.Limit,
			Current:     quotaErr.Current,
		})

	case errors.As(err, &valErr):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Validation failed",
			Details: map[string]string{valErr.Field: valErr.Reason},
		})

	case errors.Is(err, domain.ErrAlreadySubscribed):
		httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "already_subscribed",
			Message: "Already subscribed",
		})

	case errors.Is(err, store.ErrNotFound):
		writeNoteNotFound(w)

	default:
		slogx.FromContext(r.Context()).Error("internal error", slog.Any("error", err))
		httpx.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "server_error",
			Message: "Internal server error",
		})
	}
}

// writeNoteNotFound renders the single 404 body used for both nonexistent
// and cross-tenant notes. One code path guarantees the bodies stay
// byte-identical.
func writeNoteNotFound(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusNotFound, ErrorResponse{
		Error:   "not_found",
		Message: "Note not found",
	})
}

func writeBadJSON(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "invalid_request",
		Message: "Request body must be valid JSON",
	})
}
