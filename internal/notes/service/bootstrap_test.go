package service

import (
	"context"
	"testing"

	"github.com/quillhq/quill/internal/notes/domain"
	"github.com/stretchr/testify/require"
)

func TestBootstrap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	svc := &BootstrapService{Store: s, Token: "bootstrap-secret"}

	t.Run("fresh database is not bootstrapped", func(t *testing.T) {
		done, err := svc.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.False(t, done)
	})

	t.Run("wrong token rejected", func(t *testing.T) {
		_, err := svc.Bootstrap(ctx, "wrong", nil)
		require.ErrorIs(t, err, ErrBootstrapUnauthorized)
	})

	t.Run("seeds the demo dataset", func(t *testing.T) {
		slugs, err := svc.Bootstrap(ctx, "bootstrap-secret", nil)
		require.NoError(t, err)
		require.Equal(t, []string{"acme", "globex"}, slugs)

		acme, err := s.Tenants().GetTenantBySlug(ctx, "acme")
		require.NoError(t, err)
		require.Equal(t, domain.TierFree, acme.Subscription)

		admin, err := s.Users().GetUserByEmail(ctx, "admin@acme.test")
		require.NoError(t, err)
		require.Equal(t, domain.RoleAdmin, admin.Role)
		require.Equal(t, "acme", admin.Tenant.Slug)

		member, err := s.Users().GetUserByEmail(ctx, "user@globex.test")
		require.NoError(t, err)
		require.Equal(t, domain.RoleMember, member.Role)
		require.Equal(t, "globex", member.Tenant.Slug)

		done, err := svc.IsBootstrapped(ctx)
		require.NoError(t, err)
		require.True(t, done)
	})

	t.Run("refuses to run twice", func(t *testing.T) {
		_, err := svc.Bootstrap(ctx, "bootstrap-secret", nil)
		require.ErrorIs(t, err, ErrBootstrapAlready)
	})
}

func TestBootstrapNoTokenConfigured(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	svc := &BootstrapService{Store: s}

	// An empty configured token disables bootstrap entirely rather than
	// accepting an empty bearer token.
	_, err := svc.Bootstrap(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrBootstrapUnauthorized)
}
