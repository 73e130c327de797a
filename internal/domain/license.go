package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// License is a single-redemption, time-bounded credential. Once redeemed
// it stays permanently bound to one sub-user.
type License struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	AppID   uuid.UUID
	// Name is unique within the owner's namespace.
	Name      string
	CreatedAt time.Time
	ExpiresAt time.Time
	// Used flips false to true on redemption and never resets.
	Used bool
	// Active is an independent enable/disable switch.
	Active bool
}

// Span is the license's original validity window. CreatedAt is never
// mutated, so the span stays constant across renewals.
func (l License) Span() time.Duration {
	return l.ExpiresAt.Sub(l.CreatedAt)
}

// RenewedExpiry extends the license by its original span. An expired
// license is anchored to now, an unexpired one to its old expiration,
// so remaining time is never lost and early renewal is never rewarded
// beyond the span.
func (l License) RenewedExpiry(now time.Time) time.Time {
	anchor := l.ExpiresAt
	if now.After(anchor) {
		anchor = now
	}
	return anchor.Add(l.Span())
}

// UsableForRegistration gates license redemption: the license must be
// enabled, unexpired, and never redeemed before.
func (l License) UsableForRegistration(now time.Time) error {
	if !l.Active {
		return fmt.Errorf("%w: license is disabled", ErrInactive)
	}
	if !l.ExpiresAt.After(now) {
		return fmt.Errorf("%w: license has expired", ErrUnauthorized)
	}
	if l.Used {
		return ErrLicenseUsed
	}
	return nil
}

// UsableForLogin gates license-based login. Expiration and the used flag
// are deliberately not rechecked here: login authenticates the bound
// sub-user plus hwid pair, not the license's remaining term, so a
// redeemed sub-user keeps logging in after the license itself lapses.
func (l License) UsableForLogin() error {
	if !l.Active {
		return fmt.Errorf("%w: license is disabled", ErrInactive)
	}
	return nil
}
