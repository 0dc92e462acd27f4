package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials covers a wrong email/password pair. The login
	// handler reports it identically for both so callers cannot probe for
	// registered addresses.
	ErrInvalidCredentials = errors.New("domain: invalid credentials")

	// ErrUnauthenticated covers a request with no usable identity: missing
	// token, or a token whose subject no longer exists in the store.
	ErrUnauthenticated = errors.New("domain: authentication required")

	// ErrTenantAccessDenied is returned by the tenant isolation guard when
	// the request targets a tenant other than the caller's own.
	ErrTenantAccessDenied = errors.New("domain: cross-tenant access denied")

	// ErrAlreadySubscribed is returned when upgrading a tenant that is
	// already on the pro plan, so callers can tell a no-op from a real
	// transition.
	ErrAlreadySubscribed = errors.New("domain: tenant already on pro plan")
)

// RoleError reports a role-gate failure with both sides of the comparison.
type RoleError struct {
	Required Role
	Actual   Role
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("domain: role %q required, have %q", e.Required, e.Actual)
}

// QuotaError reports a free-tier limit rejection with enough detail for a
// client to offer an upgrade flow.
type QuotaError struct {
	Plan    Tier
	Limit   int
	Current int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("domain: %s plan limited to %d notes, have %d", e.Plan, e.Limit, e.Current)
}

// ValidationError reports a malformed input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("domain: invalid %s: %s", e.Field, e.Reason)
}
