package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
)

// OwnerRepository defines persistence for operator accounts. Lookups are
// exact-match only; uniqueness is enforced by the store and surfaced as
// domain.ErrConflict.
type OwnerRepository interface {
	Create(ctx context.Context, owner domain.Owner) error
	GetByID(ctx context.Context, ownerID uuid.UUID) (domain.Owner, error)
	GetByEmail(ctx context.Context, email string) (domain.Owner, error)
	GetByToken(ctx context.Context, token string) (domain.Owner, error)
	List(ctx context.Context) ([]domain.Owner, error)
	SetVerified(ctx context.Context, ownerID uuid.UUID, verified bool, at time.Time) error
	SetEmailVerified(ctx context.Context, ownerID uuid.UUID, verified bool, at time.Time) error
	UpdateEmail(ctx context.Context, ownerID uuid.UUID, email string, at time.Time) error
	UpdatePassword(ctx context.Context, ownerID uuid.UUID, passwordHash string, at time.Time) error
	SetBanned(ctx context.Context, ownerID uuid.UUID, banned bool, at time.Time) error
	Delete(ctx context.Context, ownerID uuid.UUID) error
}

// AppRepository manages application namespaces. Delete removes the app
// together with every license and sub-user scoped to it, in one
// transaction, so cascade semantics do not depend on caller discipline.
type AppRepository interface {
	Create(ctx context.Context, app domain.App) error
	GetByID(ctx context.Context, appID uuid.UUID) (domain.App, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.App, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Rename(ctx context.Context, appID uuid.UUID, name string) error
	Update(ctx context.Context, appID uuid.UUID, version *string, active *bool) error
	Delete(ctx context.Context, appID uuid.UUID) error
}

// LicenseRepository persists licenses. Redeem performs the single-use
// consumption atomically: a conditional used=false -> true update whose
// affected-row count gates the sub-user insert inside one transaction.
// Two concurrent redemptions of the same license therefore cannot both
// succeed.
type LicenseRepository interface {
	Create(ctx context.Context, license domain.License) error
	GetByID(ctx context.Context, licenseID uuid.UUID) (domain.License, error)
	GetByOwnerAndName(ctx context.Context, ownerID uuid.UUID, name string) (domain.License, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.License, error)
	UpdateExpiry(ctx context.Context, licenseID uuid.UUID, expiresAt time.Time) error
	Redeem(ctx context.Context, licenseID uuid.UUID, user domain.SubUser) error
	Delete(ctx context.Context, licenseID uuid.UUID) error
}

// SubUserRepository persists end-user accounts.
type SubUserRepository interface {
	Create(ctx context.Context, user domain.SubUser) error
	GetByID(ctx context.Context, userID uuid.UUID) (domain.SubUser, error)
	GetByLicense(ctx context.Context, licenseID, ownerID uuid.UUID) (domain.SubUser, error)
	GetByUsername(ctx context.Context, ownerID uuid.UUID, username string) (domain.SubUser, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.SubUser, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}
