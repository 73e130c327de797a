package domain

import (
	"time"

	"github.com/google/uuid"
)

// Subscription plans. Plan names double as route capability markers:
// administrative routes are restricted to Admin and Founder owners.
const (
	PlanStarter = "Starter"
	PlanAdmin   = "Admin"
	PlanFounder = "Founder"
)

// Owner is an operator account. It registers applications and issues
// licenses and sub-users inside its own namespace.
type Owner struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string
	// Token is the owner's sole bearer credential. It is an opaque random
	// string issued at registration and matched exactly at request time.
	Token         string
	Verified      bool
	EmailVerified bool
	Banned        bool
	Plan          string
	// SubTier 0 constrains the owner to a single application.
	SubTier      int
	SubExpiresAt *time.Time
	CreatedAt    time.Time
}

// Elevated reports whether the owner's plan grants administrative
// route access.
func (o Owner) Elevated() bool {
	return o.Plan == PlanAdmin || o.Plan == PlanFounder
}

// Sanitized returns a copy safe to attach to request context or API
// responses: bearer token and password hash are stripped.
func (o Owner) Sanitized() Owner {
	o.Token = ""
	o.PasswordHash = ""
	return o
}
