package service

import (
	"context"
	"testing"

	"github.com/quillhq/quill/internal/notes/domain"
	"github.com/quillhq/quill/internal/notes/store"
	"github.com/quillhq/quill/internal/notes/store/drivers/sqlite"
	"github.com/quillhq/quill/pkg/cryptox"
	"github.com/quillhq/quill/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func createTenant(t *testing.T, s store.Store, slug string, tier domain.Tier) domain.Tenant {
	t.Helper()

	tenant := domain.Tenant{
		ID:           idx.New().String(),
		Slug:         slug,
		Name:         slug + " inc",
		Subscription: tier,
	}
	require.NoError(t, s.Tenants().CreateTenant(context.Background(), tenant))
	return tenant
}

func createUser(t *testing.T, s store.Store, tenant domain.Tenant, email, password string, role domain.Role) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		TenantID:     tenant.ID,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), user))

	// Resolve through the store so the tenant is populated, matching what
	// the auth middleware hands to services.
	resolved, err := s.Users().GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	return resolved
}
