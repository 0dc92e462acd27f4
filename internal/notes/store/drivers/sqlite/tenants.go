package sqlite

import (
	"context"

	"github.com/quillhq/quill/internal/notes/domain"
)

type tenantsRepo struct {
	q querier
}

const tenantColumns = `id, slug, name, subscription, created_at, updated_at`

func (r *tenantsRepo) GetTenantByID(ctx context.Context, id string) (domain.Tenant, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE id = ?`, id)
	return scanTenant(row)
}

func (r *tenantsRepo) GetTenantBySlug(ctx context.Context, slug string) (domain.Tenant, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+tenantColumns+` FROM tenants WHERE slug = ?`, slug)
	return scanTenant(row)
}

func (r *tenantsRepo) CreateTenant(ctx context.Context, t domain.Tenant) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO tenants (id, slug, name, subscription) VALUES (?, ?, ?, ?)`,
		t.ID, t.Slug, t.Name, t.Subscription.String(),
	)
	return mapConstraint(err)
}

func (r *tenantsRepo) UpdateSubscription(ctx context.Context, tenantID string, tier domain.Tier) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE tenants SET subscription = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		tier.String(), tenantID,
	)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *tenantsRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTenant(row rowScanner) (domain.Tenant, error) {
	var t domain.Tenant
	var subscription string

	err := row.Scan(&t.ID, &t.Slug, &t.Name, &subscription, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.Tenant{}, mapNotFound(err)
	}

	tier, err := domain.ParseTier(subscription)
	if err != nil {
		return domain.Tenant{}, err
	}
	t.Subscription = tier

	return t, nil
}
