package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/quillhq/quill/internal/notes/domain"
	"github.com/quillhq/quill/internal/notes/store"
	"github.com/quillhq/quill/pkg/metrics"
	"github.com/quillhq/quill/pkg/slogx"
)

// TenantsService implements the subscription lifecycle and the tenant info
// view. Tenant identity always comes from the resolved actor; the slug in the
// URL is checked against it before these methods run.
type TenantsService struct {
	Store store.Store
}

// UpgradeResult is the post-upgrade tenant state.
type UpgradeResult struct {
	Tenant    domain.Tenant
	NoteCount int
}

// TenantInfo is the admin-facing snapshot of a tenant: plan, usage, and
// membership.
type TenantInfo struct {
	Tenant    domain.Tenant
	NoteCount int
	UserCount int
	NoteLimit int // 0 means unlimited
	Users     []domain.User
}

// Upgrade moves a tenant from free to pro. The read and the write share a
// transaction so two concurrent upgrades cannot both observe the free plan.
// Upgrading an already-pro tenant fails with domain.ErrAlreadySubscribed.
func (s *TenantsService) Upgrade(ctx context.Context, tenantID string) (UpgradeResult, error) {
	l := slogx.FromContext(ctx)

	var result UpgradeResult
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		tenant, err := tx.Tenants().GetTenantByID(ctx, tenantID)
		if err != nil {
			return err
		}

		if tenant.Subscription == domain.TierPro {
			return domain.ErrAlreadySubscribed
		}

		if err := tx.Tenants().UpdateSubscription(ctx, tenant.ID, domain.TierPro); err != nil {
			return err
		}

		count, err := tx.Notes().CountNotesByTenant(ctx, tenant.ID)
		if err != nil {
			return err
		}

		tenant.Subscription = domain.TierPro
		result = UpgradeResult{Tenant: tenant, NoteCount: count}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadySubscribed) {
			l.Info("redundant upgrade rejected", slog.String("tenant_id", tenantID))
		}
		return UpgradeResult{}, err
	}

	metrics.SubscriptionUpgradesTotal.Inc()
	l.Info("tenant upgraded to pro",
		slog.String("tenant_id", result.Tenant.ID),
		slog.String("tenant_slug", result.Tenant.Slug),
	)
	return result, nil
}

// Info returns the tenant's plan, usage counts, and member list.
func (s *TenantsService) Info(ctx context.Context, tenantID string) (TenantInfo, error) {
	tenant, err := s.Store.Tenants().GetTenantByID(ctx, tenantID)
	if err != nil {
		return TenantInfo{}, err
	}

	noteCount, err := s.Store.Notes().CountNotesByTenant(ctx, tenant.ID)
	if err != nil {
		return TenantInfo{}, err
	}

	users, err := s.Store.Users().ListUsersByTenant(ctx, tenant.ID)
	if err != nil {
		return TenantInfo{}, err
	}

	info := TenantInfo{
		Tenant:    tenant,
		NoteCount: noteCount,
		UserCount: len(users),
		Users:     users,
	}
	if tenant.Subscription == domain.TierFree {
		info.NoteLimit = domain.FreeTierNoteLimit
	}
	return info, nil
}
