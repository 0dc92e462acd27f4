package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quillhq/quill/internal/notes/domain"
	"github.com/quillhq/quill/internal/notes/store"
	"github.com/quillhq/quill/internal/notes/store/drivers/sqlite"
	"github.com/quillhq/quill/pkg/idx"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedTenant(t *testing.T, s store.Store, slug string, tier domain.Tier) domain.Tenant {
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

func seedUser(t *testing.T, s store.Store, tenant domain.Tenant, email string, role domain.Role) domain.User {
	t.Helper()

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		Role:         role,
		TenantID:     tenant.ID,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), user))
	return user
}

func seedNote(t *testing.T, s store.Store, user domain.User, title string) domain.Note {
	t.Helper()

	note := domain.Note{
		ID:       idx.New().String(),
		Title:    title,
		Content:  "content of " + title,
		UserID:   user.ID,
		TenantID: user.TenantID,
	}
	require.NoError(t, s.Notes().CreateNote(context.Background(), note))
	return note
}

func TestTenantsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Tenants().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	tenant := seedTenant(t, s, "acme", domain.TierFree)

	byID, err := s.Tenants().GetTenantByID(ctx, tenant.ID)
	require.NoError(t, err)
	require.Equal(t, "acme", byID.Slug)
	require.Equal(t, domain.TierFree, byID.Subscription)
	require.False(t, byID.CreatedAt.IsZero())

	bySlug, err := s.Tenants().GetTenantBySlug(ctx, "acme")
	require.NoError(t, err)
	require.Equal(t, tenant.ID, bySlug.ID)

	_, err = s.Tenants().GetTenantBySlug(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	empty, err = s.Tenants().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestTenantsDuplicateSlug(t *testing.T) {
	s := newTestStore(t)

	seedTenant(t, s, "acme", domain.TierFree)

	err := s.Tenants().CreateTenant(context.Background(), domain.Tenant{
		ID:           idx.New().String(),
		Slug:         "acme",
		Name:         "Other Acme",
		Subscription: domain.TierFree,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestTenantsUpdateSubscription(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tenant := seedTenant(t, s, "acme", domain.TierFree)

	require.NoError(t, s.Tenants().UpdateSubscription(ctx, tenant.ID, domain.TierPro))

	got, err := s.Tenants().GetTenantByID(ctx, tenant.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TierPro, got.Subscription)

	err = s.Tenants().UpdateSubscription(ctx, idx.New().String(), domain.TierPro)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersResolveTenant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tenant := seedTenant(t, s, "acme", domain.TierPro)
	user := seedUser(t, s, tenant, "admin@acme.test", domain.RoleAdmin)

	byID, err := s.Users().GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "admin@acme.test", byID.Email)
	require.Equal(t, domain.RoleAdmin, byID.Role)
	require.Equal(t, "acme", byID.Tenant.Slug)
	require.Equal(t, domain.TierPro, byID.Tenant.Subscription)

	byEmail, err := s.Users().GetUserByEmail(ctx, "admin@acme.test")
	require.NoError(t, err)
	require.Equal(t, user.ID, byEmail.ID)

	_, err = s.Users().GetUserByID(ctx, idx.New().String())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersDuplicateEmail(t *testing.T) {
	s := newTestStore(t)

	tenant := seedTenant(t, s, "acme", domain.TierFree)
	seedUser(t, s, tenant, "admin@acme.test", domain.RoleAdmin)

	err := s.Users().CreateUser(context.Background(), domain.User{
		ID:           idx.New().String(),
		Email:        "admin@acme.test",
		PasswordHash: "x",
		Role:         domain.RoleMember,
		TenantID:     tenant.ID,
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestUsersListAndCountByTenant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acme := seedTenant(t, s, "acme", domain.TierFree)
	globex := seedTenant(t, s, "globex", domain.TierFree)

	admin := seedUser(t, s, acme, "admin@acme.test", domain.RoleAdmin)
	member := seedUser(t, s, acme, "user@acme.test", domain.RoleMember)
	seedUser(t, s, globex, "admin@globex.test", domain.RoleAdmin)

	users, err := s.Users().ListUsersByTenant(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, admin.ID, users[0].ID)
	require.Equal(t, member.ID, users[1].ID)

	count, err := s.Users().CountUsersByTenant(ctx, acme.ID)
	require.NoError(t, err)
	require.Equal(t, 2, count)
}

func TestNotesTenantScoping(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acme := seedTenant(t, s, "acme", domain.TierFree)
	globex := seedTenant(t, s, "globex", domain.TierFree)
	acmeUser := seedUser(t, s, acme, "user@acme.test", domain.RoleMember)
	globexUser := seedUser(t, s, globex, "user@globex.test", domain.RoleMember)

	acmeNote := seedNote(t, s, acmeUser, "roadmap")
	seedNote(t, s, globexUser, "secrets")

	got, err := s.Notes().GetNote(ctx, acmeNote.ID, acme.ID)
	require.NoError(t, err)
	require.Equal(t, "roadmap", got.Title)
	require.Equal(t, "user@acme.test", got.Author.Email)
	require.Equal(t, domain.RoleMember, got.Author.Role)

	// A note in another tenant is indistinguishable from a missing note.
	_, err = s.Notes().GetNote(ctx, acmeNote.ID, globex.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	notes, err := s.Notes().ListNotesByTenant(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	require.Equal(t, acmeNote.ID, notes[0].ID)

	count, err := s.Notes().CountNotesByTenant(ctx, acme.ID)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestNotesListNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acme := seedTenant(t, s, "acme", domain.TierFree)
	user := seedUser(t, s, acme, "user@acme.test", domain.RoleMember)

	first := seedNote(t, s, user, "first")
	second := seedNote(t, s, user, "second")
	third := seedNote(t, s, user, "third")

	notes, err := s.Notes().ListNotesByTenant(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, notes, 3)
	require.Equal(t, third.ID, notes[0].ID)
	require.Equal(t, second.ID, notes[1].ID)
	require.Equal(t, first.ID, notes[2].ID)
}

func TestNotesPartialUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acme := seedTenant(t, s, "acme", domain.TierFree)
	user := seedUser(t, s, acme, "user@acme.test", domain.RoleMember)
	note := seedNote(t, s, user, "draft")

	title := "final"
	err := s.Notes().UpdateNote(ctx, note.ID, acme.ID, domain.NoteUpdate{Title: &title})
	require.NoError(t, err)

	got, err := s.Notes().GetNote(ctx, note.ID, acme.ID)
	require.NoError(t, err)
	require.Equal(t, "final", got.Title)
	require.Equal(t, note.Content, got.Content)

	content := "rewritten"
	err = s.Notes().UpdateNote(ctx, note.ID, acme.ID, domain.NoteUpdate{Content: &content})
	require.NoError(t, err)

	got, err = s.Notes().GetNote(ctx, note.ID, acme.ID)
	require.NoError(t, err)
	require.Equal(t, "final", got.Title)
	require.Equal(t, "rewritten", got.Content)
}

func TestNotesUpdateDeleteWrongTenant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	acme := seedTenant(t, s, "acme", domain.TierFree)
	globex := seedTenant(t, s, "globex", domain.TierFree)
	user := seedUser(t, s, acme, "user@acme.test", domain.RoleMember)
	note := seedNote(t, s, user, "roadmap")

	title := "stolen"
	err := s.Notes().UpdateNote(ctx, note.ID, globex.ID, domain.NoteUpdate{Title: &title})
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Notes().DeleteNote(ctx, note.ID, globex.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// Still intact under its own tenant.
	got, err := s.Notes().GetNote(ctx, note.ID, acme.ID)
	require.NoError(t, err)
	require.Equal(t, "roadmap", got.Title)

	require.NoError(t, s.Notes().DeleteNote(ctx, note.ID, acme.ID))
	_, err = s.Notes().GetNote(ctx, note.ID, acme.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxCommitAndRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTx(ctx, func(tx store.Tx) error {
		return tx.Tenants().CreateTenant(ctx, domain.Tenant{
			ID:           idx.New().String(),
			Slug:         "acme",
			Name:         "Acme Corp",
			Subscription: domain.TierFree,
		})
	})
	require.NoError(t, err)

	_, err = s.Tenants().GetTenantBySlug(ctx, "acme")
	require.NoError(t, err)

	boom := errors.New("boom")
	err = s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Tenants().CreateTenant(ctx, domain.Tenant{
			ID:           idx.New().String(),
			Slug:         "globex",
			Name:         "Globex Corporation",
			Subscription: domain.TierFree,
		}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Tenants().GetTenantBySlug(ctx, "globex")
	require.ErrorIs(t, err, store.ErrNotFound)
}
