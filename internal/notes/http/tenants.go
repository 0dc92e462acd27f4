package http

import (
	"net/http"

	"github.com/quillhq/quill/internal/notes/service"
	"github.com/quillhq/quill/pkg/httpx"
)

type TenantsHandler struct {
	TenantsService *service.TenantsService
}

// HandleUpgrade moves the caller's tenant to the pro plan. The tenant
// isolation guard has already matched {slug} to the caller, so the tenant id
// comes from the resolved user, not the URL.
func (h *TenantsHandler) HandleUpgrade(w http.ResponseWriter, r *http.Request) {
	user := userFromCtx(r.Context())

	res, err := h.TenantsService.Upgrade(r.Context(), user.TenantID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, UpgradeResponse{
		Message:   "Subscription upgraded to pro",
		Tenant:    toTenantResponse(res.Tenant),
		NoteCount: res.NoteCount,
	})
}

// HandleInfo returns the caller's tenant with usage stats and members.
func (h *TenantsHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	user := userFromCtx(r.Context())

	info, err := h.TenantsService.Info(r.Context(), user.TenantID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	members := make([]TenantMember, 0, len(info.Users))
	for _, u := range info.Users {
		members = append(members, TenantMember{
			ID:    u.ID,
			Email: u.Email,
			Role:  u.Role.String(),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, TenantInfoResponse{
		Tenant: toTenantResponse(info.Tenant),
		Stats: TenantStats{
			Notes:     info.NoteCount,
			Users:     info.UserCount,
			NoteLimit: info.NoteLimit,
		},
		Users: members,
	})
}
