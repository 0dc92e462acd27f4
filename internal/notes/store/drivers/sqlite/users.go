package sqlite

import (
	"context"

	"github.com/quillhq/quill/internal/notes/domain"
)

type usersRepo struct {
	q querier
}

// userColumns joins the tenant row in so credential resolution is a single
// round trip per request.
const userColumns = `
	u.id, u.email, u.password_hash, u.role, u.tenant_id, u.created_at, u.updated_at,
	t.id, t.slug, t.name, t.subscription, t.created_at, t.updated_at`

const userFrom = ` FROM users u JOIN tenants t ON t.id = u.tenant_id `

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT`+userColumns+userFrom+`WHERE u.id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx, `SELECT`+userColumns+userFrom+`WHERE u.email = ?`, email)
	return scanUser(row)
}

func (r *usersRepo) ListUsersByTenant(ctx context.Context, tenantID string) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT`+userColumns+userFrom+`WHERE u.tenant_id = ? ORDER BY u.created_at, u.id`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) CountUsersByTenant(ctx context.Context, tenantID string) (int, error) {
	var count int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE tenant_id = ?`, tenantID).Scan(&count)
	return count, err
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, role, tenant_id) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.PasswordHash, u.Role.String(), u.TenantID,
	)
	return mapConstraint(err)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return false, err
	}
	return count == 0, nil
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var role, subscription string

	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &role, &u.TenantID, &u.CreatedAt, &u.UpdatedAt,
		&u.Tenant.ID, &u.Tenant.Slug, &u.Tenant.Name, &subscription,
		&u.Tenant.CreatedAt, &u.Tenant.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	if u.Role, err = domain.ParseRole(role); err != nil {
		return domain.User{}, err
	}
	if u.Tenant.Subscription, err = domain.ParseTier(subscription); err != nil {
		return domain.User{}, err
	}

	return u, nil
}
