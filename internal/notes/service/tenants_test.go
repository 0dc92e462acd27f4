package service

import (
	"context"
	"testing"

	"github.com/quillhq/quill/internal/notes/domain"
	"github.com/quillhq/quill/internal/notes/store"
	"github.com/stretchr/testify/require"
)

func TestUpgrade(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	tenantsSvc := &TenantsService{Store: s}
	notesSvc := &NotesService{Store: s}

	tenant := createTenant(t, s, "acme", domain.TierFree)
	actor := createUser(t, s, tenant, "user@acme.test", "password", domain.RoleMember)

	for i := 0; i < domain.FreeTierNoteLimit; i++ {
		_, err := notesSvc.CreateNote(ctx, actor, "note", "content")
		require.NoError(t, err)
	}

	t.Run("free to pro lifts the cap", func(t *testing.T) {
		res, err := tenantsSvc.Upgrade(ctx, tenant.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TierPro, res.Tenant.Subscription)
		require.Equal(t, domain.FreeTierNoteLimit, res.NoteCount)

		// The actor's resolved tenant is stale now; re-resolve as the
		// middleware would on the next request.
		refreshed, err := s.Users().GetUserByID(ctx, actor.ID)
		require.NoError(t, err)

		_, err = notesSvc.CreateNote(ctx, refreshed, "fourth", "content")
		require.NoError(t, err)
	})

	t.Run("redundant upgrade rejected", func(t *testing.T) {
		_, err := tenantsSvc.Upgrade(ctx, tenant.ID)
		require.ErrorIs(t, err, domain.ErrAlreadySubscribed)
	})

	t.Run("unknown tenant", func(t *testing.T) {
		_, err := tenantsSvc.Upgrade(ctx, "01ZZZZZZZZZZZZZZZZZZZZZZZZ")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestTenantInfo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s := newTestStore(t)
	tenantsSvc := &TenantsService{Store: s}
	notesSvc := &NotesService{Store: s}

	tenant := createTenant(t, s, "acme", domain.TierFree)
	admin := createUser(t, s, tenant, "admin@acme.test", "password", domain.RoleAdmin)
	createUser(t, s, tenant, "user@acme.test", "password", domain.RoleMember)

	_, err := notesSvc.CreateNote(ctx, admin, "note", "content")
	require.NoError(t, err)

	t.Run("free tenant reports the limit", func(t *testing.T) {
		info, err := tenantsSvc.Info(ctx, tenant.ID)
		require.NoError(t, err)
		require.Equal(t, "acme", info.Tenant.Slug)
		require.Equal(t, 1, info.NoteCount)
		require.Equal(t, 2, info.UserCount)
		require.Equal(t, domain.FreeTierNoteLimit, info.NoteLimit)
		require.Len(t, info.Users, 2)
		require.Equal(t, "admin@acme.test", info.Users[0].Email)
	})

	t.Run("pro tenant reports no limit", func(t *testing.T) {
		_, err := tenantsSvc.Upgrade(ctx, tenant.ID)
		require.NoError(t, err)

		info, err := tenantsSvc.Info(ctx, tenant.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TierPro, info.Tenant.Subscription)
		require.Zero(t, info.NoteLimit)
	})
}
