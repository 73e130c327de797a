package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
)

// Bearer credential kinds accepted by the authorization gate.
const (
	KindAdmin = "Admin"
	KindUser  = "User"
)

// Capability is a resolved caller identity. Elevated is true only when
// the credential was presented as Admin AND the owner's plan grants
// administrative access; both halves are required for admin routes and
// for acting across owner namespaces.
type Capability struct {
	Owner    domain.Owner
	Elevated bool
}

// ResolveBearer turns a "<Kind> <token>" credential into a Capability.
// The token is matched exactly against the owner store; the returned
// owner carries no token or password hash.
func (s *Service) ResolveBearer(ctx context.Context, kind, token string) (Capability, error) {
	kind = strings.TrimSpace(kind)
	if kind != KindAdmin && kind != KindUser {
		return Capability{}, fmt.Errorf("%w: unknown credential kind", domain.ErrUnauthorized)
	}
	if token == "" {
		return Capability{}, fmt.Errorf("%w: missing bearer token", domain.ErrUnauthorized)
	}
	owner, err := s.owners.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Capability{}, domain.ErrUnauthorized
		}
		return Capability{}, err
	}
	return Capability{
		Owner:    owner.Sanitized(),
		Elevated: kind == KindAdmin && owner.Elevated(),
	}, nil
}

// requireScope is the single authorization policy applied to every
// mutating app/license/sub-user operation: a banned caller is rejected
// outright, and a non-elevated caller may only touch records in its own
// namespace. Centralizing this closes the per-handler drift where some
// endpoints skipped the ban or ownership check.
func (s *Service) requireScope(cap Capability, resourceOwnerID uuid.UUID) error {
	if cap.Owner.Banned {
		return domain.ErrSuspended
	}
	if cap.Owner.ID != resourceOwnerID && !cap.Elevated {
		return domain.ErrForbidden
	}
	return nil
}

// requireNotBannedOwner gates the public sub-user surface: every
// license-scoped operation rejects once the namespace owner is banned
// and recovers the moment the flag clears.
func (s *Service) requireNotBannedOwner(ctx context.Context, ownerID uuid.UUID) (domain.Owner, error) {
	if ownerID == uuid.Nil {
		return domain.Owner{}, fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}
	owner, err := s.owners.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Owner{}, fmt.Errorf("%w: owner not found", domain.ErrNotFound)
		}
		return domain.Owner{}, err
	}
	if owner.Banned {
		return domain.Owner{}, domain.ErrSuspended
	}
	return owner, nil
}
