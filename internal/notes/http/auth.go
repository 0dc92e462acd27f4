package http

import (
	"encoding/json"
	"net/http"

	"github.com/quillhq/quill/internal/notes/service"
	"github.com/quillhq/quill/pkg/httpx"
)

type LoginHandler struct {
	AuthService *service.AuthService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadJSON(w)
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		Token:     res.Token,
		ExpiresIn: res.ExpiresIn,
		User:      toUserResponse(res.User),
	})
}

// VerifyHandler echoes the caller's resolved identity. Sits behind
// RequireAuth, so reaching it proves the token maps to a live user.
type VerifyHandler struct{}

func (h *VerifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user := userFromCtx(r.Context())
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(user))
}
