package domain

import "time"

// Bounds for note fields, enforced at the boundary before any store access.
const (
	NoteTitleMaxLen   = 200
	NoteContentMaxLen = 10000
)

// NoteAuthor is the author summary surfaced alongside a note on read paths.
type NoteAuthor struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Note is always tenant-scoped: TenantID is denormalized from the author's
// tenant at creation time and the two never diverge.
type Note struct {
	ID        string
	Title     string
	Content   string
	UserID    string
	TenantID  string
	CreatedAt time.Time
	UpdatedAt time.Time

	Author NoteAuthor
}

// NoteUpdate carries a partial update. Nil fields are left untouched;
// id, author, tenant, and timestamps are not updatable.
type NoteUpdate struct {
	Title   *string
	Content *string
}
