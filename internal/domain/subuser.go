package domain

import (
	"time"

	"github.com/google/uuid"
)

// SubUser is an end-user account under one application. It is created
// either by public license redemption (license id and hwid set) or
// directly by the owner (both absent).
type SubUser struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	AppID   uuid.UUID
	// LicenseID is set only when the account was created by redeeming a
	// license.
	LicenseID *uuid.UUID
	// HWID is bound at registration and rechecked byte-exact on every
	// license-based login. Nil for owner-created accounts.
	HWID *string
	// Username is unique per owner, not per owner+app.
	Username     string
	PasswordHash string
	// Token is a stateless pre-shared credential issued once at
	// registration; logins never mint a new one.
	Token     string
	Active    bool
	CreatedAt time.Time
}

// HWIDMatches compares the supplied hardware identifier byte-exact
// against the bound value. No normalization of any kind.
func (u SubUser) HWIDMatches(hwid string) bool {
	return u.HWID != nil && *u.HWID == hwid
}
