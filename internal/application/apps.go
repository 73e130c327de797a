package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
)

// CreateApp registers a new application namespace for the calling
// owner. Tier-0 owners are limited to a single application.
func (s *Service) CreateApp(ctx context.Context, cap Capability, req CreateAppRequest) (AppItem, error) {
	if err := s.requireScope(cap, cap.Owner.ID); err != nil {
		return AppItem{}, err
	}
	if err := domain.ValidateResourceName(req.Name); err != nil {
		return AppItem{}, err
	}
	if cap.Owner.SubTier == 0 {
		count, err := s.apps.CountByOwner(ctx, cap.Owner.ID)
		if err != nil {
			return AppItem{}, err
		}
		if count >= s.cfg.FreeTierAppLimit {
			return AppItem{}, fmt.Errorf("%w: application limit reached for current plan", domain.ErrForbidden)
		}
	}

	secret, err := s.tokens.NewToken(s.cfg.AppSecretLen)
	if err != nil {
		return AppItem{}, fmt.Errorf("generate app secret: %w", err)
	}
	app := domain.App{
		ID:        uuid.New(),
		OwnerID:   cap.Owner.ID,
		Name:      req.Name,
		Secret:    secret,
		Version:   "1.0",
		Active:    true,
		CreatedAt: s.nowFn(),
	}
	if err := s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return AppItem{}, fmt.Errorf("%w: app name already in use", domain.ErrConflict)
		}
		return AppItem{}, err
	}
	return toAppItem(app), nil
}

// RenameApp changes an application's name. The new name must differ
// from the current one and stay unique within the owner's namespace.
func (s *Service) RenameApp(ctx context.Context, cap Capability, appID uuid.UUID, name string) (AppItem, error) {
	if err := domain.ValidateResourceName(name); err != nil {
		return AppItem{}, err
	}
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return AppItem{}, err
	}
	if err := s.requireScope(cap, app.OwnerID); err != nil {
		return AppItem{}, err
	}
	if app.Name == name {
		return AppItem{}, fmt.Errorf("%w: new name must differ from current", domain.ErrInvalidInput)
	}
	if err := s.apps.Rename(ctx, app.ID, name); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return AppItem{}, fmt.Errorf("%w: app name already in use", domain.ErrConflict)
		}
		return AppItem{}, err
	}
	app.Name = name
	return toAppItem(app), nil
}

// UpdateApp adjusts the version string or the active flag.
func (s *Service) UpdateApp(ctx context.Context, cap Capability, appID uuid.UUID, req UpdateAppRequest) error {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return err
	}
	if err := s.requireScope(cap, app.OwnerID); err != nil {
		return err
	}
	if req.Version == nil && req.Active == nil {
		return fmt.Errorf("%w: nothing to update", domain.ErrInvalidInput)
	}
	return s.apps.Update(ctx, app.ID, req.Version, req.Active)
}

// DeleteApp removes the application and cascades to every license and
// sub-user scoped to it.
func (s *Service) DeleteApp(ctx context.Context, cap Capability, appID uuid.UUID) error {
	app, err := s.apps.GetByID(ctx, appID)
	if err != nil {
		return err
	}
	if err := s.requireScope(cap, app.OwnerID); err != nil {
		return err
	}
	return s.apps.Delete(ctx, app.ID)
}

// ListApps returns the caller's applications.
func (s *Service) ListApps(ctx context.Context, cap Capability) ([]AppItem, error) {
	if cap.Owner.Banned {
		return nil, domain.ErrSuspended
	}
	apps, err := s.apps.ListByOwner(ctx, cap.Owner.ID)
	if err != nil {
		return nil, err
	}
	items := make([]AppItem, 0, len(apps))
	for _, a := range apps {
		items = append(items, toAppItem(a))
	}
	return items, nil
}

func toAppItem(a domain.App) AppItem {
	return AppItem{
		ID:        a.ID,
		Name:      a.Name,
		Secret:    a.Secret,
		Version:   a.Version,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}
