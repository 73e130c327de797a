package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
)

// RegisterByLicense redeems an unused, active, unexpired license and
// creates the sub-user bound to the supplied hwid. The checks run in a
// fixed order so every failure is independently reportable; the final
// consumption happens inside one conditional transaction, so two
// concurrent redemptions of the same license cannot both succeed.
func (s *Service) RegisterByLicense(ctx context.Context, req RegisterByLicenseRequest) error {
	if err := domain.ValidateUsername(req.Username); err != nil {
		return err
	}
	if err := domain.ValidateSubUserPassword(req.Password, s.cfg.EnforceSubUserPasswordPolicy); err != nil {
		return err
	}
	if req.License == "" {
		return fmt.Errorf("%w: license is required", domain.ErrInvalidInput)
	}
	if req.HWID == "" {
		return fmt.Errorf("%w: hwid is required", domain.ErrInvalidInput)
	}

	if _, err := s.requireNotBannedOwner(ctx, req.OwnerID); err != nil {
		return err
	}

	license, err := s.licenses.GetByOwnerAndName(ctx, req.OwnerID, req.License)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: license not found", domain.ErrNotFound)
		}
		return err
	}
	if err := license.UsableForRegistration(s.nowFn()); err != nil {
		return err
	}

	if _, err := s.subusers.GetByUsername(ctx, license.OwnerID, req.Username); err == nil {
		return fmt.Errorf("%w: username already in use", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	token, err := s.tokens.NewToken(s.cfg.BearerTokenLen)
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}

	licenseID := license.ID
	hwid := req.HWID
	user := domain.SubUser{
		ID:           uuid.New(),
		OwnerID:      license.OwnerID,
		AppID:        license.AppID,
		LicenseID:    &licenseID,
		HWID:         &hwid,
		Username:     req.Username,
		PasswordHash: passwordHash,
		Token:        token,
		Active:       true,
		CreatedAt:    s.nowFn(),
	}
	return s.licenses.Redeem(ctx, license.ID, user)
}

// LoginByLicense authenticates a redeemed license-name + hwid pair.
// License expiration and the used flag are deliberately not rechecked:
// the call authenticates the bound sub-user, not the license's term.
// Success grants access for the current request only; no token is
// minted.
func (s *Service) LoginByLicense(ctx context.Context, req LoginByLicenseRequest) error {
	if _, err := s.requireNotBannedOwner(ctx, req.OwnerID); err != nil {
		return err
	}
	if req.HWID == "" {
		return fmt.Errorf("%w: hwid is required", domain.ErrInvalidInput)
	}

	license, err := s.licenses.GetByOwnerAndName(ctx, req.OwnerID, req.License)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: license not found", domain.ErrNotFound)
		}
		return err
	}
	if err := license.UsableForLogin(); err != nil {
		return err
	}

	user, err := s.subusers.GetByLicense(ctx, license.ID, req.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: user not found", domain.ErrNotFound)
		}
		return err
	}
	if !user.Active {
		return fmt.Errorf("%w: user is disabled", domain.ErrInactive)
	}
	if !user.HWIDMatches(req.HWID) {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// LoginByPassword authenticates a sub-user by username and password
// within the owner's namespace.
func (s *Service) LoginByPassword(ctx context.Context, req LoginByPasswordRequest) error {
	if req.Username == "" {
		return fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if req.Password == "" {
		return fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if _, err := s.requireNotBannedOwner(ctx, req.OwnerID); err != nil {
		return err
	}

	user, err := s.subusers.GetByUsername(ctx, req.OwnerID, req.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}
	if !user.Active {
		return fmt.Errorf("%w: user is disabled", domain.ErrInactive)
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// CreateSubUser is the administrative creation path: no license, no
// hwid. Username uniqueness is scoped to the owner, matching the
// license-redemption path.
func (s *Service) CreateSubUser(ctx context.Context, cap Capability, req CreateSubUserRequest) (SubUserItem, error) {
	if err := s.requireScope(cap, cap.Owner.ID); err != nil {
		return SubUserItem{}, err
	}
	if err := domain.ValidateUsername(req.Username); err != nil {
		return SubUserItem{}, err
	}
	if req.Password == "" {
		return SubUserItem{}, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	app, err := s.apps.GetByID(ctx, req.AppID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return SubUserItem{}, fmt.Errorf("%w: app not found", domain.ErrNotFound)
		}
		return SubUserItem{}, err
	}
	if err := s.requireScope(cap, app.OwnerID); err != nil {
		return SubUserItem{}, err
	}

	if _, err := s.subusers.GetByUsername(ctx, cap.Owner.ID, req.Username); err == nil {
		return SubUserItem{}, fmt.Errorf("%w: username already in use", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return SubUserItem{}, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return SubUserItem{}, fmt.Errorf("hash password: %w", err)
	}
	token, err := s.tokens.NewToken(s.cfg.BearerTokenLen)
	if err != nil {
		return SubUserItem{}, fmt.Errorf("generate token: %w", err)
	}

	user := domain.SubUser{
		ID:           uuid.New(),
		OwnerID:      cap.Owner.ID,
		AppID:        app.ID,
		Username:     req.Username,
		PasswordHash: passwordHash,
		Token:        token,
		Active:       true,
		CreatedAt:    s.nowFn(),
	}
	if err := s.subusers.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return SubUserItem{}, fmt.Errorf("%w: username already in use", domain.ErrConflict)
		}
		return SubUserItem{}, err
	}
	return toSubUserItem(user), nil
}

// DeleteSubUser removes a single sub-user account. The license it was
// redeemed from stays consumed.
func (s *Service) DeleteSubUser(ctx context.Context, cap Capability, userID uuid.UUID) error {
	user, err := s.subusers.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.requireScope(cap, user.OwnerID); err != nil {
		return err
	}
	return s.subusers.Delete(ctx, user.ID)
}

// ListSubUsers returns the caller's sub-user accounts.
func (s *Service) ListSubUsers(ctx context.Context, cap Capability) ([]SubUserItem, error) {
	if cap.Owner.Banned {
		return nil, domain.ErrSuspended
	}
	users, err := s.subusers.ListByOwner(ctx, cap.Owner.ID)
	if err != nil {
		return nil, err
	}
	items := make([]SubUserItem, 0, len(users))
	for _, u := range users {
		items = append(items, toSubUserItem(u))
	}
	return items, nil
}

func toSubUserItem(u domain.SubUser) SubUserItem {
	return SubUserItem{
		ID:        u.ID,
		AppID:     u.AppID,
		LicenseID: u.LicenseID,
		Username:  u.Username,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}
