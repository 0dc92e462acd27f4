package service

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/quillhq/quill/internal/notes/domain"
	"github.com/quillhq/quill/internal/notes/store"
	"github.com/quillhq/quill/pkg/idx"
	"github.com/quillhq/quill/pkg/metrics"
	"github.com/quillhq/quill/pkg/slogx"
)

// NotesService implements tenant-scoped note CRUD. Every operation takes the
// acting user so the tenant filter comes from the resolved identity, never
// from request input.
type NotesService struct {
	Store store.Store
}

// NoteList is a tenant's notes together with the subscription context a
// client needs to render quota state.
type NoteList struct {
	Notes        []domain.Note
	Total        int
	Subscription domain.Tier
}

// ListNotes returns every note in the caller's tenant, newest first.
func (s *NotesService) ListNotes(ctx context.Context, actor domain.User) (NoteList, error) {
	notes, err := s.Store.Notes().ListNotesByTenant(ctx, actor.TenantID)
	if err != nil {
		return NoteList{}, err
	}
	return NoteList{
		Notes:        notes,
		Total:        len(notes),
		Subscription: actor.Tenant.Subscription,
	}, nil
}

// GetNote returns a single note in the caller's tenant. A note belonging to
// another tenant is reported exactly like a nonexistent one.
func (s *NotesService) GetNote(ctx context.Context, actor domain.User, noteID string) (domain.Note, error) {
	return s.Store.Notes().GetNote(ctx, noteID, actor.TenantID)
}

// CreateNote validates the input, applies the free-tier quota, and inserts
// the note attributed to the actor.
//
// The quota check and the insert are two statements, not one. Concurrent
// creates on a tenant sitting at the limit can both pass the check; the cap
// is a soft business limit, not a hard integrity constraint.
func (s *NotesService) CreateNote(ctx context.Context, actor domain.User, title, content string) (domain.Note, error) {
	l := slogx.FromContext(ctx)

	if err := validateNoteFields(&title, &content); err != nil {
		return domain.Note{}, err
	}

	if actor.Tenant.Subscription == domain.TierFree {
		count, err := s.Store.Notes().CountNotesByTenant(ctx, actor.TenantID)
		if err != nil {
			return domain.Note{}, err
		}
		if count >= domain.FreeTierNoteLimit {
			metrics.QuotaRejectionsTotal.Inc()
			l.Info("note creation blocked by free-tier limit",
				slog.String("tenant_slug", actor.Tenant.Slug),
				slog.Int("count", count),
			)
			return domain.Note{}, &domain.QuotaError{
				Plan:    domain.TierFree,
				Limit:   domain.FreeTierNoteLimit,
				Current: count,
			}
		}
	}

	note := domain.Note{
		ID:       idx.New().String(),
		Title:    title,
		Content:  content,
		UserID:   actor.ID,
		TenantID: actor.TenantID,
	}
	if err := s.Store.Notes().CreateNote(ctx, note); err != nil {
		return domain.Note{}, err
	}

	metrics.NotesCreatedTotal.Inc()
	l.Info("note created",
		slog.String("note_id", note.ID),
		slog.String("tenant_slug", actor.Tenant.Slug),
	)

	// Re-read so timestamps and the author summary come from the store.
	return s.Store.Notes().GetNote(ctx, note.ID, actor.TenantID)
}

// UpdateNote applies a partial update to a note in the caller's tenant and
// returns the updated row.
func (s *NotesService) UpdateNote(ctx context.Context, actor domain.User, noteID string, upd domain.NoteUpdate) (domain.Note, error) {
	if upd.Title == nil && upd.Content == nil {
		return domain.Note{}, &domain.ValidationError{Field: "body", Reason: "no fields to update"}
	}
	if err := validateNoteFields(upd.Title, upd.Content); err != nil {
		return domain.Note{}, err
	}

	if err := s.Store.Notes().UpdateNote(ctx, noteID, actor.TenantID, upd); err != nil {
		return domain.Note{}, err
	}
	return s.Store.Notes().GetNote(ctx, noteID, actor.TenantID)
}

// DeleteNote removes a note in the caller's tenant. Deleting frees quota
// headroom for free tenants.
func (s *NotesService) DeleteNote(ctx context.Context, actor domain.User, noteID string) error {
	if err := s.Store.Notes().DeleteNote(ctx, noteID, actor.TenantID); err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("note deleted",
		slog.String("note_id", noteID),
		slog.String("tenant_slug", actor.Tenant.Slug),
	)
	return nil
}

// validateNoteFields trims and bounds-checks the updatable note fields in
// place. Nil pointers are skipped so the same check serves create (both set)
// and partial update.
func validateNoteFields(title, content *string) error {
	if title != nil {
		*title = strings.TrimSpace(*title)
		if *title == "" {
			return &domain.ValidationError{Field: "title", Reason: "must not be empty"}
		}
		if utf8.RuneCountInString(*title) > domain.NoteTitleMaxLen {
			return &domain.ValidationError{Field: "title", Reason: "too long"}
		}
	}
	if content != nil {
		*content = strings.TrimSpace(*content)
		if *content == "" {
			return &domain.ValidationError{Field: "content", Reason: "must not be empty"}
		}
		if utf8.RuneCountInString(*content) > domain.NoteContentMaxLen {
			return &domain.ValidationError{Field: "content", Reason: "too long"}
		}
	}
	return nil
}
