package http

import (
	"errors"
	"net/http"

	"github.com/quillhq/quill/internal/notes/service"
	"github.com/quillhq/quill/pkg/httpx"
	"github.com/quillhq/quill/pkg/slogx"
)

type BootstrapHandler struct {
	BootstrapService *service.BootstrapService
}

// ServeHTTP seeds the demo dataset into an empty database. Guarded by the
// X-Bootstrap-Token header; disabled entirely when no token is configured.
func (h *BootstrapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	l := slogx.FromContext(r.Context())

	if h.BootstrapService.Token == "" {
		httpx.WriteJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "Bootstrap endpoint is not enabled",
		})
		return
	}

	token := r.Header.Get("X-Bootstrap-Token")
	if token == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "Bootstrap token is required in X-Bootstrap-Token header",
		})
		return
	}

	slugs, err := h.BootstrapService.Bootstrap(r.Context(), token, nil)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBootstrapAlready):
			httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: "System has already been bootstrapped",
			})
		case errors.Is(err, service.ErrBootstrapUnauthorized):
			httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
				Error:   "unauthorized",
				Message: "Invalid bootstrap token",
			})
		default:
			writeDomainError(w, r, err)
		}
		return
	}

	l.Info("bootstrap complete")
	httpx.WriteJSON(w, http.StatusCreated, BootstrapResponse{
		Message: "Demo data created",
		Tenants: slugs,
	})
}
