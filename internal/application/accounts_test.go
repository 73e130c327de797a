package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/application"
	"github.com/AuthsManager/AuthManager-Src-sub000/internal/domain"
	"github.com/AuthsManager/AuthManager-Src-sub000/internal/ports"
)

func TestRegisterVerifyLoginFlow(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	res, err := f.service.RegisterOwner(ctx, application.RegisterOwnerRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Abcdef1!",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if res.OwnerID == uuid.Nil {
		t.Fatalf("register returned empty owner id")
	}

	// Login before verification must be rejected with the exact message.
	_, err = f.service.LoginOwner(ctx, application.OwnerLoginRequest{
		Email:    "alice@example.com",
		Password: "Abcdef1!",
	})
	if !errors.Is(err, domain.ErrNotVerified) {
		t.Fatalf("expected not-verified error, got %v", err)
	}

	code := f.mailer.lastCode()
	if code == "" {
		t.Fatalf("expected OTP mail with code")
	}

	tokenRes, err := f.service.VerifyOTP(ctx, application.VerifyOTPRequest{
		Email: "alice@example.com",
		Code:  code,
	})
	if err != nil {
		t.Fatalf("verify otp failed: %v", err)
	}
	if tokenRes.Token == "" {
		t.Fatalf("expected bearer token after verification")
	}

	loginRes, err := f.service.LoginOwner(ctx, application.OwnerLoginRequest{
		Email:    "alice@example.com",
		Password: "Abcdef1!",
	})
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loginRes.Token != tokenRes.Token {
		t.Fatalf("login must return the registration token, got %q vs %q", loginRes.Token, tokenRes.Token)
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	if _, err := f.service.RegisterOwner(ctx, application.RegisterOwnerRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "Abcdef1!",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	_, err := f.service.VerifyOTP(ctx, application.VerifyOTPRequest{
		Email: "bob@example.com",
		Code:  "000000",
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if got := err.Error(); got != "unauthorized: Invalid OTP Code" {
		t.Fatalf("unexpected error text: %q", got)
	}

	// An expired (absent) code behaves the same.
	_ = f.codes.Delete(ctx, ports.CodeOTP, "bob@example.com")
	_, err = f.service.VerifyOTP(ctx, application.VerifyOTPRequest{
		Email: "bob@example.com",
		Code:  f.mailer.lastCode(),
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for lapsed code, got %v", err)
	}
}

func TestRegisterCompensatesFailedMail(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	f.mailer.fail = true

	_, err := f.service.RegisterOwner(ctx, application.RegisterOwnerRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "Abcdef1!",
	})
	if err == nil {
		t.Fatalf("expected registration to fail when OTP mail cannot be sent")
	}
	if _, err := f.owners.GetByEmail(ctx, "carol@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected owner to be removed after failed mail, got %v", err)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	if _, err := f.service.RegisterOwner(ctx, application.RegisterOwnerRequest{
		Username: "dave",
		Email:    "dave@example.com",
		Password: "Abcdef1!",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	_, err := f.service.RegisterOwner(ctx, application.RegisterOwnerRequest{
		Username: "dave",
		Email:    "other@example.com",
		Password: "Abcdef1!",
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginBannedOwner(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	owner := f.seedOwner("eve", "eve@example.com", domain.PlanStarter)
	if err := f.owners.SetBanned(ctx, owner.ID, true, owner.CreatedAt); err != nil {
		t.Fatalf("ban failed: %v", err)
	}

	_, err := f.service.LoginOwner(ctx, application.OwnerLoginRequest{
		Email:    "eve@example.com",
		Password: "Password1",
	})
	if !errors.Is(err, domain.ErrSuspended) {
		t.Fatalf("expected suspended, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	f.seedOwner("frank", "frank@example.com", domain.PlanStarter)

	// Unknown addresses are silently accepted.
	if err := f.service.RequestPasswordReset(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("reset request must not leak account existence: %v", err)
	}

	if err := f.service.RequestPasswordReset(ctx, "frank@example.com"); err != nil {
		t.Fatalf("reset request failed: %v", err)
	}
	code := f.mailer.lastCode()
	if code == "" {
		t.Fatalf("expected reset mail with code")
	}

	if err := f.service.ResetPassword(ctx, application.ResetPasswordRequest{
		Email:       "frank@example.com",
		Code:        "wrong",
		NewPassword: "Newpass1!",
	}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for wrong code, got %v", err)
	}

	if err := f.service.ResetPassword(ctx, application.ResetPasswordRequest{
		Email:       "frank@example.com",
		Code:        code,
		NewPassword: "Newpass1!",
	}); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if _, err := f.service.LoginOwner(ctx, application.OwnerLoginRequest{
		Email:    "frank@example.com",
		Password: "Newpass1!",
	}); err != nil {
		t.Fatalf("login with new password failed: %v", err)
	}
}

func TestUpdateEmailRollsBackOnMailFailure(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	owner := f.seedOwner("grace", "grace@example.com", domain.PlanStarter)
	if err := f.owners.SetEmailVerified(ctx, owner.ID, true, owner.CreatedAt); err != nil {
		t.Fatalf("seed email verified: %v", err)
	}
	cap := f.capability(owner, false)

	f.mailer.fail = true
	if err := f.service.UpdateEmail(ctx, cap, "new@example.com"); err == nil {
		t.Fatalf("expected failure when verification mail cannot be sent")
	}

	got, err := f.owners.GetByID(ctx, owner.ID)
	if err != nil {
		t.Fatalf("load owner: %v", err)
	}
	if got.Email != "grace@example.com" {
		t.Fatalf("expected old email restored, got %s", got.Email)
	}
	if !got.EmailVerified {
		t.Fatalf("expected email_verified flag restored")
	}
}

func TestUpdateAndVerifyEmail(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	owner := f.seedOwner("henry", "henry@example.com", domain.PlanStarter)
	cap := f.capability(owner, false)

	if err := f.service.UpdateEmail(ctx, cap, "henry2@example.com"); err != nil {
		t.Fatalf("update email failed: %v", err)
	}
	got, _ := f.owners.GetByID(ctx, owner.ID)
	if got.Email != "henry2@example.com" || got.EmailVerified {
		t.Fatalf("expected swapped unverified email, got %s verified=%v", got.Email, got.EmailVerified)
	}

	if err := f.service.VerifyEmail(ctx, "henry2@example.com", f.mailer.lastCode()); err != nil {
		t.Fatalf("verify email failed: %v", err)
	}
	got, _ = f.owners.GetByID(ctx, owner.ID)
	if !got.EmailVerified {
		t.Fatalf("expected email verified")
	}
}

func TestAdminListAndBan(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	admin := f.seedOwner("admin", "admin@example.com", domain.PlanAdmin)
	target := f.seedOwner("ivy", "ivy@example.com", domain.PlanStarter)

	// A non-elevated capability may not list or ban.
	if _, err := f.service.ListOwners(ctx, f.capability(target, false)); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	adminCap := f.capability(admin, true)
	owners, err := f.service.ListOwners(ctx, adminCap)
	if err != nil {
		t.Fatalf("list owners failed: %v", err)
	}
	if len(owners) != 2 {
		t.Fatalf("expected 2 owners, got %d", len(owners))
	}

	if err := f.service.SetOwnerBanned(ctx, adminCap, target.ID, true); err != nil {
		t.Fatalf("ban failed: %v", err)
	}
	got, _ := f.owners.GetByID(ctx, target.ID)
	if !got.Banned {
		t.Fatalf("expected banned flag set")
	}
	last := f.mailer.sent[len(f.mailer.sent)-1]
	if last.kind != ports.MailBanNotice || last.to != "ivy@example.com" {
		t.Fatalf("expected ban notice mail to target, got %+v", last)
	}

	if err := f.service.SetOwnerBanned(ctx, adminCap, target.ID, false); err != nil {
		t.Fatalf("unban failed: %v", err)
	}
	got, _ = f.owners.GetByID(ctx, target.ID)
	if got.Banned {
		t.Fatalf("expected banned flag cleared")
	}
}

func TestResolveBearer(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	admin := f.seedOwner("judy", "judy@example.com", domain.PlanFounder)
	regular := f.seedOwner("kate", "kate@example.com", domain.PlanStarter)

	cases := []struct {
		name     string
		kind     string
		token    string
		elevated bool
		wantErr  bool
	}{
		{name: "admin kind with elevated plan", kind: "Admin", token: admin.Token, elevated: true},
		{name: "user kind strips elevation", kind: "User", token: admin.Token, elevated: false},
		{name: "admin kind without plan", kind: "Admin", token: regular.Token, elevated: false},
		{name: "unknown kind", kind: "Bearer", token: admin.Token, wantErr: true},
		{name: "unknown token", kind: "User", token: "nope", wantErr: true},
		{name: "empty token", kind: "User", token: "", wantErr: true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cap, err := f.service.ResolveBearer(ctx, tc.kind, tc.token)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrUnauthorized) {
					t.Fatalf("expected unauthorized, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve failed: %v", err)
			}
			if cap.Elevated != tc.elevated {
				t.Fatalf("elevated = %v, want %v", cap.Elevated, tc.elevated)
			}
			if cap.Owner.Token != "" || cap.Owner.PasswordHash != "" {
				t.Fatalf("capability owner must be sanitized")
			}
		})
	}
}

func TestCaptchaRequired(t *testing.T) {
	t.Parallel()

	f := newFixtureWithConfig(application.Config{RequireCaptcha: true})
	ctx := context.Background()

	_, err := f.service.RegisterOwner(ctx, application.RegisterOwnerRequest{
		Username: "liam",
		Email:    "liam@example.com",
		Password: "Abcdef1!",
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input without captcha token, got %v", err)
	}

	if _, err := f.service.RegisterOwner(ctx, application.RegisterOwnerRequest{
		Username:     "liam",
		Email:        "liam@example.com",
		Password:     "Abcdef1!",
		CaptchaToken: "ok",
	}); err != nil {
		t.Fatalf("register with captcha failed: %v", err)
	}
}
