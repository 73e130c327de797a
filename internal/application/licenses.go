package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
)

// CreateLicense issues a new single-use license under one of the
// caller's applications. The expiration must lie strictly in the
// future and the name must be unique within the owner's namespace;
// collisions across different owners are fine.
func (s *Service) CreateLicense(ctx context.Context, cap Capability, req CreateLicenseRequest) (LicenseItem, error) {
	if err := s.requireScope(cap, cap.Owner.ID); err != nil {
		return LicenseItem{}, err
	}
	if err := domain.ValidateResourceName(req.Name); err != nil {
		return LicenseItem{}, err
	}
	now := s.nowFn()
	expiresAt := time.UnixMilli(req.ExpiresAtMillis).UTC()
	if req.ExpiresAtMillis <= 0 || !expiresAt.After(now) {
		return LicenseItem{}, fmt.Errorf("%w: provided license expiration is invalid", domain.ErrInvalidInput)
	}

	app, err := s.apps.GetByID(ctx, req.AppID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return LicenseItem{}, fmt.Errorf("%w: app not found", domain.ErrNotFound)
		}
		return LicenseItem{}, err
	}
	// A license may only be attached to an application in the caller's
	// own namespace.
	if err := s.requireScope(cap, app.OwnerID); err != nil {
		return LicenseItem{}, err
	}

	if _, err := s.licenses.GetByOwnerAndName(ctx, cap.Owner.ID, req.Name); err == nil {
		return LicenseItem{}, fmt.Errorf("%w: license name already in use", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return LicenseItem{}, err
	}

	license := domain.License{
		ID:        uuid.New(),
		OwnerID:   cap.Owner.ID,
		AppID:     app.ID,
		Name:      req.Name,
		CreatedAt: now,
		ExpiresAt: expiresAt,
		Used:      false,
		Active:    true,
	}
	if err := s.licenses.Create(ctx, license); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return LicenseItem{}, fmt.Errorf("%w: license name already in use", domain.ErrConflict)
		}
		return LicenseItem{}, err
	}
	return toLicenseItem(license), nil
}

// RenewLicense extends a license by its original validity span. An
// expired license restarts from now, an unexpired one keeps its
// remaining time; repeated renewals always add the same fixed span
// because CreatedAt never changes.
func (s *Service) RenewLicense(ctx context.Context, cap Capability, licenseID uuid.UUID) (LicenseItem, error) {
	license, err := s.licenses.GetByID(ctx, licenseID)
	if err != nil {
		return LicenseItem{}, err
	}
	if err := s.requireScope(cap, license.OwnerID); err != nil {
		return LicenseItem{}, err
	}

	newExpiry := license.RenewedExpiry(s.nowFn())
	if err := s.licenses.UpdateExpiry(ctx, license.ID, newExpiry); err != nil {
		return LicenseItem{}, err
	}
	license.ExpiresAt = newExpiry
	return toLicenseItem(license), nil
}

// DeleteLicense removes a license. The owning application is untouched.
func (s *Service) DeleteLicense(ctx context.Context, cap Capability, licenseID uuid.UUID) error {
	license, err := s.licenses.GetByID(ctx, licenseID)
	if err != nil {
		return err
	}
	if err := s.requireScope(cap, license.OwnerID); err != nil {
		return err
	}
	return s.licenses.Delete(ctx, license.ID)
}

// ListLicenses returns the caller's licenses.
func (s *Service) ListLicenses(ctx context.Context, cap Capability) ([]LicenseItem, error) {
	if cap.Owner.Banned {
		return nil, domain.ErrSuspended
	}
	licenses, err := s.licenses.ListByOwner(ctx, cap.Owner.ID)
	if err != nil {
		return nil, err
	}
	items := make([]LicenseItem, 0, len(licenses))
	for _, l := range licenses {
		items = append(items, toLicenseItem(l))
	}
	return items, nil
}

func toLicenseItem(l domain.License) LicenseItem {
	return LicenseItem{
		ID:              l.ID,
		AppID:           l.AppID,
		Name:            l.Name,
		CreatedAt:       l.CreatedAt,
		ExpiresAtMillis: l.ExpiresAt.UnixMilli(),
		Used:            l.Used,
		Active:          l.Active,
	}
}
