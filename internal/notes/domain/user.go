package domain

import (
	"fmt"
	"time"
)

// Role is a user's role within their tenant.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// ParseRole validates a stored role value.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleMember:
		return Role(s), nil
	}
	return "", fmt.Errorf("domain: unknown role %q", s)
}

func (r Role) String() string { return string(r) }

// User belongs to exactly one tenant for its whole lifetime.
type User struct {
	ID           string
	Email        string
	PasswordHash string // argon2id encoded
	Role         Role
	TenantID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Tenant is the user's resolved tenant. Populated by the store on
	// credential resolution so guards never trust token claims for it.
	Tenant Tenant
}
