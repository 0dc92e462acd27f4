package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/quillhq/quill/internal/notes/domain"
	"github.com/quillhq/quill/internal/notes/service"
	"github.com/quillhq/quill/pkg/httpx"
	"github.com/quillhq/quill/pkg/jwtx"
)

type ctxKey struct{}

// userFromCtx returns the resolved caller. Only valid behind RequireAuth.
func userFromCtx(ctx context.Context) domain.User {
	u, _ := ctx.Value(ctxKey{}).(domain.User)
	return u
}

// RequireAuth parses the bearer token, verifies it, and re-fetches the user
// from the store so every downstream check sees live role and tenant state.
// The resolved user lands in the request context.
func RequireAuth(auth *service.AuthService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
					Error: "authentication_required",
				})
				return
			}

			user, err := auth.Authenticate(r.Context(), strings.TrimSpace(token))
			if err != nil {
				switch {
				case isTokenError(err):
					httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
						Error: "invalid_token",
					})
				case errors.Is(err, domain.ErrUnauthenticated):
					httpx.WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
						Error: "authentication_required",
					})
				default:
					writeDomainError(w, r, err)
				}
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, user)
			ctx = httpx.WithUserID(ctx, user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func isTokenError(err error) bool {
	return errors.Is(err, jwtx.ErrMalformed) ||
		errors.Is(err, jwtx.ErrInvalidSig) ||
		errors.Is(err, jwtx.ErrIssuer) ||
		errors.Is(err, jwtx.ErrExpired) ||
		errors.Is(err, jwtx.ErrNotYetValid)
}

// RequireTenantSlug compares the {slug} path parameter against the caller's
// resolved tenant. Registered before RequireRole so a member probing another
// tenant's admin route sees the tenant failure, and a member on their own
// tenant sees the role failure.
func RequireTenantSlug() httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := userFromCtx(r.Context())
			if r.PathValue("slug") != user.Tenant.Slug {
				writeDomainError(w, r, domain.ErrTenantAccessDenied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole passes only callers holding exactly the required role.
func RequireRole(required domain.Role) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := userFromCtx(r.Context())
			if user.Role != required {
				writeDomainError(w, r, &domain.RoleError{
					Required: required,
					Actual:   user.Role,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
