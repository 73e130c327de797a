package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
	"github.com/AuthsManager/AuthManager-Src-sub000/internal/ports"
)

// RegisterOwner creates an unverified operator account and dispatches
// the registration OTP. If the OTP email cannot be sent the freshly
// created owner is deleted again, so no unverifiable account is left
// stranded.
func (s *Service) RegisterOwner(ctx context.Context, req RegisterOwnerRequest) (RegisterOwnerResponse, error) {
	if err := domain.ValidateUsername(req.Username); err != nil {
		return RegisterOwnerResponse{}, err
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return RegisterOwnerResponse{}, err
	}
	if err := domain.ValidateOwnerPassword(req.Password); err != nil {
		return RegisterOwnerResponse{}, err
	}
	if err := s.verifyCaptcha(ctx, req.CaptchaToken); err != nil {
		return RegisterOwnerResponse{}, err
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return RegisterOwnerResponse{}, fmt.Errorf("hash password: %w", err)
	}
	token, err := s.tokens.NewToken(s.cfg.BearerTokenLen)
	if err != nil {
		return RegisterOwnerResponse{}, fmt.Errorf("generate token: %w", err)
	}

	plan := s.cfg.DefaultPlan
	if plan == "" {
		plan = domain.PlanStarter
	}
	owner := domain.Owner{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        email,
		PasswordHash: passwordHash,
		Token:        token,
		Plan:         plan,
		SubTier:      0,
		CreatedAt:    s.nowFn(),
	}
	if err := s.owners.Create(ctx, owner); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return RegisterOwnerResponse{}, fmt.Errorf("%w: username or email already in use", domain.ErrConflict)
		}
		return RegisterOwnerResponse{}, err
	}

	if err := s.issueCode(ctx, ports.CodeOTP, email, s.cfg.OTPTTL, ports.MailOTP); err != nil {
		// registration and OTP dispatch succeed or fail together
		_ = s.owners.Delete(ctx, owner.ID)
		return RegisterOwnerResponse{}, fmt.Errorf("send otp email: %w", err)
	}

	return RegisterOwnerResponse{OwnerID: owner.ID}, nil
}

// VerifyOTP confirms the registration code and hands out the owner's
// bearer token.
func (s *Service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (OwnerTokenResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return OwnerTokenResponse{}, err
	}
	owner, err := s.owners.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return OwnerTokenResponse{}, fmt.Errorf("%w: Invalid OTP Code", domain.ErrUnauthorized)
		}
		return OwnerTokenResponse{}, err
	}

	stored, err := s.codes.Get(ctx, ports.CodeOTP, email)
	if err != nil {
		return OwnerTokenResponse{}, err
	}
	if stored == "" || stored != strings.TrimSpace(req.Code) {
		return OwnerTokenResponse{}, fmt.Errorf("%w: Invalid OTP Code", domain.ErrUnauthorized)
	}

	if !owner.Verified {
		if err := s.owners.SetVerified(ctx, owner.ID, true, s.nowFn()); err != nil {
			return OwnerTokenResponse{}, err
		}
		owner.Verified = true
	}
	_ = s.codes.Delete(ctx, ports.CodeOTP, email)

	return ownerTokenResponse(owner), nil
}

// ResendOTP regenerates the registration code for a still-unverified
// owner.
func (s *Service) ResendOTP(ctx context.Context, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	owner, err := s.owners.GetByEmail(ctx, normalized)
	if err != nil {
		// Do not leak whether the account exists.
		return nil
	}
	if owner.Verified {
		return fmt.Errorf("%w: account already verified", domain.ErrInvalidInput)
	}
	return s.issueCode(ctx, ports.CodeOTP, normalized, s.cfg.OTPTTL, ports.MailOTP)
}

// LoginOwner checks credentials and returns the stored bearer token.
// No session state is created; the token was minted at registration.
func (s *Service) LoginOwner(ctx context.Context, req OwnerLoginRequest) (OwnerTokenResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return OwnerTokenResponse{}, err
	}
	if req.Password == "" {
		return OwnerTokenResponse{}, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	if err := s.verifyCaptcha(ctx, req.CaptchaToken); err != nil {
		return OwnerTokenResponse{}, err
	}

	owner, err := s.owners.GetByEmail(ctx, email)
	if err != nil {
		return OwnerTokenResponse{}, domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(owner.PasswordHash, req.Password); err != nil {
		return OwnerTokenResponse{}, domain.ErrInvalidCredentials
	}
	if !owner.Verified {
		return OwnerTokenResponse{}, fmt.Errorf("%w: Please verify your account.", domain.ErrNotVerified)
	}
	if owner.Banned {
		return OwnerTokenResponse{}, domain.ErrSuspended
	}

	return ownerTokenResponse(owner), nil
}

// RequestPasswordReset issues a reset code. It never reveals whether the
// email belongs to an account.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if _, err := s.owners.GetByEmail(ctx, normalized); err != nil {
		return nil
	}
	return s.issueCode(ctx, ports.CodePasswordReset, normalized, s.cfg.ResetCodeTTL, ports.MailPasswordReset)
}

// ResetPassword consumes a live reset code and installs a new password.
func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return err
	}
	if err := domain.ValidateOwnerPassword(req.NewPassword); err != nil {
		return err
	}
	owner, err := s.owners.GetByEmail(ctx, email)
	if err != nil {
		return domain.ErrUnauthorized
	}
	stored, err := s.codes.Get(ctx, ports.CodePasswordReset, email)
	if err != nil {
		return err
	}
	if stored == "" || stored != strings.TrimSpace(req.Code) {
		return fmt.Errorf("%w: invalid reset code", domain.ErrUnauthorized)
	}
	passwordHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.owners.UpdatePassword(ctx, owner.ID, passwordHash, s.nowFn()); err != nil {
		return err
	}
	_ = s.codes.Delete(ctx, ports.CodePasswordReset, email)
	return nil
}

// ChangePassword rotates the password of an authenticated owner.
func (s *Service) ChangePassword(ctx context.Context, cap Capability, req ChangePasswordRequest) error {
	owner, err := s.owners.GetByID(ctx, cap.Owner.ID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(owner.PasswordHash, req.CurrentPassword); err != nil {
		return domain.ErrInvalidCredentials
	}
	if err := domain.ValidateOwnerPassword(req.NewPassword); err != nil {
		return err
	}
	passwordHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	return s.owners.UpdatePassword(ctx, owner.ID, passwordHash, s.nowFn())
}

// UpdateEmail swaps the profile email and restarts secondary email
// verification. If the verification mail cannot be dispatched, the old
// address and its verified flag are restored.
func (s *Service) UpdateEmail(ctx context.Context, cap Capability, newEmail string) error {
	email, err := normalizeEmail(newEmail)
	if err != nil {
		return err
	}
	owner, err := s.owners.GetByID(ctx, cap.Owner.ID)
	if err != nil {
		return err
	}
	if owner.Email == email {
		return fmt.Errorf("%w: email must differ from current", domain.ErrInvalidInput)
	}

	now := s.nowFn()
	if err := s.owners.UpdateEmail(ctx, owner.ID, email, now); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("%w: email already in use", domain.ErrConflict)
		}
		return err
	}
	if err := s.issueCode(ctx, ports.CodeEmailVerify, email, s.cfg.EmailVerifyTTL, ports.MailEmailVerify); err != nil {
		// Compensate: restore the previous address and its verified state.
		_ = s.owners.UpdateEmail(ctx, owner.ID, owner.Email, now)
		_ = s.owners.SetEmailVerified(ctx, owner.ID, owner.EmailVerified, now)
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// VerifyEmail confirms the secondary profile-email verification code.
// The flag is independent of the registration OTP gate.
func (s *Service) VerifyEmail(ctx context.Context, email, code string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	owner, err := s.owners.GetByEmail(ctx, normalized)
	if err != nil {
		return domain.ErrUnauthorized
	}
	stored, err := s.codes.Get(ctx, ports.CodeEmailVerify, normalized)
	if err != nil {
		return err
	}
	if stored == "" || stored != strings.TrimSpace(code) {
		return fmt.Errorf("%w: invalid verification code", domain.ErrUnauthorized)
	}
	if err := s.owners.SetEmailVerified(ctx, owner.ID, true, s.nowFn()); err != nil {
		return err
	}
	_ = s.codes.Delete(ctx, ports.CodeEmailVerify, normalized)
	return nil
}

// Profile returns the caller's own sanitized account view.
func (s *Service) Profile(cap Capability) OwnerItem {
	return toOwnerItem(cap.Owner)
}

// ListOwners is an administrative listing of all operator accounts.
func (s *Service) ListOwners(ctx context.Context, cap Capability) ([]OwnerItem, error) {
	if !cap.Elevated {
		return nil, domain.ErrForbidden
	}
	owners, err := s.owners.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]OwnerItem, 0, len(owners))
	for _, o := range owners {
		items = append(items, toOwnerItem(o))
	}
	return items, nil
}

// SetOwnerBanned toggles the ban flag on an owner. Banning sends a
// best-effort notice mail; access is restored the instant the flag is
// cleared, with no other state change.
func (s *Service) SetOwnerBanned(ctx context.Context, cap Capability, ownerID uuid.UUID, banned bool) error {
	if !cap.Elevated {
		return domain.ErrForbidden
	}
	owner, err := s.owners.GetByID(ctx, ownerID)
	if err != nil {
		return err
	}
	if err := s.owners.SetBanned(ctx, owner.ID, banned, s.nowFn()); err != nil {
		return err
	}
	if banned {
		_ = s.mailer.Send(ctx, ports.MailBanNotice, owner.Email, map[string]string{
			"username": owner.Username,
		})
	}
	return nil
}

// DeleteOwner removes an operator account. Administrative capability
// required.
func (s *Service) DeleteOwner(ctx context.Context, cap Capability, ownerID uuid.UUID) error {
	if !cap.Elevated {
		return domain.ErrForbidden
	}
	if _, err := s.owners.GetByID(ctx, ownerID); err != nil {
		return err
	}
	return s.owners.Delete(ctx, ownerID)
}

func (s *Service) verifyCaptcha(ctx context.Context, token string) error {
	if !s.cfg.RequireCaptcha {
		return nil
	}
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: captcha token is required", domain.ErrInvalidInput)
	}
	ok, err := s.captcha.Verify(ctx, token)
	if err != nil {
		return fmt.Errorf("verify captcha: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: captcha verification failed", domain.ErrInvalidInput)
	}
	return nil
}

// issueCode stores a fresh 6-digit code under the given purpose and
// mails it out. A failed send removes the stored code again so the two
// stay consistent.
func (s *Service) issueCode(ctx context.Context, purpose ports.CodePurpose, email string, ttl time.Duration, kind ports.MailKind) error {
	code := randomDigits(6)
	if err := s.codes.Put(ctx, purpose, email, code, ttl); err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, kind, email, map[string]string{"code": code}); err != nil {
		_ = s.codes.Delete(ctx, purpose, email)
		return err
	}
	return nil
}

func ownerTokenResponse(owner domain.Owner) OwnerTokenResponse {
	return OwnerTokenResponse{
		Token: owner.Token,
		Plan:  owner.Plan,
		Owner: toOwnerItem(owner),
	}
}

func toOwnerItem(o domain.Owner) OwnerItem {
	return OwnerItem{
		ID:            o.ID,
		Username:      o.Username,
		Email:         o.Email,
		Verified:      o.Verified,
		EmailVerified: o.EmailVerified,
		Banned:        o.Banned,
		Plan:          o.Plan,
		SubTier:       o.SubTier,
		CreatedAt:     o.CreatedAt,
	}
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return trimmed, nil
}
