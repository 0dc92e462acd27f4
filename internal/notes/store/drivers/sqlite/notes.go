package sqlite

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/quillhq/quill/internal/notes/domain"
)

type notesRepo struct {
	q querier
}

// noteColumns always joins the author so read paths can surface the author
// summary without a second query.
var noteSelect = squirrel.
	Select(
		"n.id", "n.title", "n.content", "n.user_id", "n.tenant_id",
		"n.created_at", "n.updated_at",
		"u.id", "u.email", "u.role",
	).
	From("notes n").
	Join("users u ON u.id = n.user_id")

func (r *notesRepo) GetNote(ctx context.Context, noteID, tenantID string) (domain.Note, error) {
	// The tenant filter lives in the same query as the id lookup; there is
	// no fetch-then-check window where a foreign note is ever materialized.
	query, args, err := noteSelect.
		Where(squirrel.Eq{"n.id": noteID, "n.tenant_id": tenantID}).
		ToSql()
	if err != nil {
		return domain.Note{}, fmt.Errorf("sqlite: build note query: %w", err)
	}

	return scanNote(r.q.QueryRowContext(ctx, query, args...))
}

func (r *notesRepo) ListNotesByTenant(ctx context.Context, tenantID string) ([]domain.Note, error) {
	query, args, err := noteSelect.
		Where(squirrel.Eq{"n.tenant_id": tenantID}).
		OrderBy("n.created_at DESC", "n.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("sqlite: build notes query: %w", err)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *notesRepo) CountNotesByTenant(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notes WHERE tenant_id = ?`, tenantID).Scan(&count)
	return count, err
}

func (r *notesRepo) CreateNote(ctx context.Context, n domain.Note) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, user_id, tenant_id) VALUES (?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Content, n.UserID, n.TenantID,
	)
	return mapConstraint(err)
}

func (r *notesRepo) UpdateNote(ctx context.Context, noteID, tenantID string, upd domain.NoteUpdate) error {
	builder := squirrel.Update("notes").
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": noteID, "tenant_id": tenantID})

	if upd.Title != nil {
		builder = builder.Set("title", *upd.Title)
	}
	if upd.Content != nil {
		builder = builder.Set("content", *upd.Content)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("sqlite: build note update: %w", err)
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *notesRepo) DeleteNote(ctx context.Context, noteID, tenantID string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND tenant_id = ?`, noteID, tenantID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func scanNote(row rowScanner) (domain.Note, error) {
	var n domain.Note
	var authorRole string

	err := row.Scan(
		&n.ID, &n.Title, &n.Content, &n.UserID, &n.TenantID,
		&n.CreatedAt, &n.UpdatedAt,
		&n.Author.ID, &n.Author.Email, &authorRole,
	)
	if err != nil {
		return domain.Note{}, mapNotFound(err)
	}

	if n.Author.Role, err = domain.ParseRole(authorRole); err != nil {
		return domain.Note{}, err
	}

	return n, nil
}
