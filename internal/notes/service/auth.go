package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/quillhq/quill/internal/notes/domain"
	"github.com/quillhq/quill/internal/notes/store"
	"github.com/quillhq/quill/pkg/cryptox"
	"github.com/quillhq/quill/pkg/jwtx"
	"github.com/quillhq/quill/pkg/slogx"
)

// AuthService issues access tokens on login and resolves tokens back into
// live users on every authenticated request.
type AuthService struct {
	Store     store.Store
	Signer    *jwtx.HS256
	Issuer    string
	AccessTTL time.Duration
}

// LoginResult carries a fresh access token together with the resolved user.
type LoginResult struct {
	Token     string
	ExpiresIn int // seconds
	User      domain.User
}

// Login verifies an email/password pair and mints an access token. A missing
// account and a wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	l := slogx.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	if email == "" || password == "" {
		return LoginResult{}, domain.ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Info("login rejected for unknown email")
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			l.Info("login rejected for wrong password", slog.String("user_id", user.ID))
			return LoginResult{}, domain.ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(user.ID, user.Email, s.Issuer, ttl, time.Now().UTC())
	token, err := s.Signer.Sign(claims)
	if err != nil {
		return LoginResult{}, err
	}

	l.Info("user logged in",
		slog.String("user_id", user.ID),
		slog.String("tenant_slug", user.Tenant.Slug),
	)

	return LoginResult{
		Token:     token,
		ExpiresIn: int(ttl / time.Second),
		User:      user,
	}, nil
}

// Authenticate validates a bearer token and re-fetches the subject from the
// store. Token claims are never trusted for role or tenant; a deleted user
// with a still-valid token gets domain.ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.User, error) {
	claims, err := s.Signer.Verify(token)
	if err != nil {
		return domain.User{}, err
	}

	user, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slogx.FromContext(ctx).Info("token subject no longer exists",
				slog.String("user_id", claims.Subject))
			return domain.User{}, domain.ErrUnauthenticated
		}
		return domain.User{}, err
	}

	return user, nil
}
