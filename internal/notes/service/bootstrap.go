package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/quillhq/quill/internal/notes/domain"
	"github.com/quillhq/quill/internal/notes/store"
	"github.com/quillhq/quill/pkg/cryptox"
	"github.com/quillhq/quill/pkg/idx"
	"github.com/quillhq/quill/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
)

// SeedTenant describes one tenant and its users to create at bootstrap.
type SeedTenant struct {
	Slug  string
	Name  string
	Users []SeedUser
}

// SeedUser describes one user to create at bootstrap.
type SeedUser struct {
	Email    string
	Password string
	Role     domain.Role
}

// DefaultSeed is the demo dataset: two free tenants with one admin and one
// member each, all sharing the password "password".
func DefaultSeed() []SeedTenant {
	return []SeedTenant{
		{
			Slug: "acme",
			Name: "Acme Corp",
			Users: []SeedUser{
				{Email: "admin@acme.test", Password: "password", Role: domain.RoleAdmin},
				{Email: "user@acme.test", Password: "password", Role: domain.RoleMember},
			},
		},
		{
			Slug: "globex",
			Name: "Globex Corporation",
			Users: []SeedUser{
				{Email: "admin@globex.test", Password: "password", Role: domain.RoleAdmin},
				{Email: "user@globex.test", Password: "password", Role: domain.RoleMember},
			},
		},
	}
}

// BootstrapService seeds an empty database with an initial set of tenants
// and users. It refuses to run twice.
type BootstrapService struct {
	Store store.Store
	Token string // pre-configured bootstrap token
}

// IsBootstrapped reports whether any tenant or user already exists.
func (s *BootstrapService) IsBootstrapped(ctx context.Context) (bool, error) {
	tenantsEmpty, err := s.Store.Tenants().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	usersEmpty, err := s.Store.Users().IsEmpty(ctx)
	if err != nil {
		return false, err
	}
	return !tenantsEmpty || !usersEmpty, nil
}

// Bootstrap creates the seed tenants and users in one transaction and
// returns the slugs of the tenants it created.
func (s *BootstrapService) Bootstrap(ctx context.Context, token string, seed []SeedTenant) ([]string, error) {
	l := slogx.FromContext(ctx)

	if bootstrapped, err := s.IsBootstrapped(ctx); err != nil {
		return nil, err
	} else if bootstrapped {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return nil, ErrBootstrapAlready
	}

	if s.Token == "" || token != s.Token {
		l.Warn("unauthorized bootstrap attempt")
		return nil, ErrBootstrapUnauthorized
	}

	if len(seed) == 0 {
		seed = DefaultSeed()
	}

	var slugs []string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		for _, st := range seed {
			tenantID := idx.New().String()
			if err := tx.Tenants().CreateTenant(ctx, domain.Tenant{
				ID:           tenantID,
				Slug:         st.Slug,
				Name:         st.Name,
				Subscription: domain.TierFree,
			}); err != nil {
				l.Error("failed to create seed tenant",
					slog.String("tenant_slug", st.Slug),
					slog.Any("error", err),
				)
				return err
			}

			for _, su := range st.Users {
				hash, err := cryptox.HashPassword(su.Password)
				if err != nil {
					return err
				}
				if err := tx.Users().CreateUser(ctx, domain.User{
					ID:           idx.New().String(),
					Email:        su.Email,
					PasswordHash: hash,
					Role:         su.Role,
					TenantID:     tenantID,
				}); err != nil {
					l.Error("failed to create seed user",
						slog.String("email", su.Email),
						slog.Any("error", err),
					)
					return err
				}
			}

			slugs = append(slugs, st.Slug)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	l.Info("successfully bootstrapped system", slog.Any("tenants", slugs))
	return slugs, nil
}
