package store

import (
	"context"
	"errors"

	"github.com/quillhq/quill/internal/notes/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep the surface tidy and let transactional
// code reuse the same methods through Tx.
type Store interface {
	Tenants() Tenants
	Users() Users
	Notes() Notes

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST Commit() or Rollback() the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Preferred over Tx for multi-step
	// operations that must be atomic (e.g. the subscription upgrade).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying connection pool.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store exposing the same repositories plus
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Tenants interface {
	// GetTenantByID returns a tenant by id.
	GetTenantByID(ctx context.Context, id string) (domain.Tenant, error)

	// GetTenantBySlug returns a tenant by its unique slug.
	GetTenantBySlug(ctx context.Context, slug string) (domain.Tenant, error)

	// CreateTenant inserts a new tenant (id is provided by the app via ULID).
	CreateTenant(ctx context.Context, t domain.Tenant) error

	// UpdateSubscription sets the subscription tier and bumps updated_at.
	UpdateSubscription(ctx context.Context, tenantID string, tier domain.Tier) error

	// IsEmpty reports whether there are no tenants.
	IsEmpty(ctx context.Context) (bool, error)
}

type Users interface {
	// GetUserByID returns a user with their tenant resolved. Used on every
	// authenticated request, so it must stay a single joined query.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsersByTenant returns a tenant's users ordered by creation date.
	ListUsersByTenant(ctx context.Context, tenantID string) ([]domain.User, error)

	// CountUsersByTenant returns the number of users in a tenant.
	CountUsersByTenant(ctx context.Context, tenantID string) (int, error)

	// CreateUser inserts a new user.
	CreateUser(ctx context.Context, u domain.User) error

	// IsEmpty reports whether there are no users.
	IsEmpty(ctx context.Context) (bool, error)
}

type Notes interface {
	// GetNote returns a note by id, filtered by tenant in the same query.
	// A note in another tenant yields ErrNotFound, indistinguishable from a
	// note that does not exist.
	GetNote(ctx context.Context, noteID, tenantID string) (domain.Note, error)

	// ListNotesByTenant returns a tenant's notes, newest first, with the
	// author summary joined in.
	ListNotesByTenant(ctx context.Context, tenantID string) ([]domain.Note, error)

	// CountNotesByTenant returns the number of notes owned by a tenant.
	CountNotesByTenant(ctx context.Context, tenantID string) (int, error)

	// CreateNote inserts a new note.
	CreateNote(ctx context.Context, n domain.Note) error

	// UpdateNote applies a partial update, scoped to the tenant. Returns
	// ErrNotFound when no row matched.
	UpdateNote(ctx context.Context, noteID, tenantID string, upd domain.NoteUpdate) error

	// DeleteNote removes a note, scoped to the tenant. Returns ErrNotFound
	// when no row matched.
	DeleteNote(ctx context.Context, noteID, tenantID string) error
}
