package domain

import (
	"fmt"
	"time"
)

// Tier is the subscription tier of a tenant. It is a closed enumeration so
// an unknown plan string can never reach a quota decision.
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// FreeTierNoteLimit is the note-count ceiling for free tenants.
const FreeTierNoteLimit = 3

// ParseTier validates a stored subscription value.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierFree, TierPro:
		return Tier(s), nil
	}
	return "", fmt.Errorf("domain: unknown subscription tier %q", s)
}

func (t Tier) String() string { return string(t) }

// Tenant is the isolation boundary. Every user and note row carries a
// tenant reference, and every access check compares against it.
type Tenant struct {
	ID           string
	Slug         string // unique, immutable after creation
	Name         string
	Subscription Tier
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
