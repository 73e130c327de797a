package application

import (
	"time"

	"github.com/google/uuid"
)

type RegisterOwnerRequest struct {
	Username     string `json:"username" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	CaptchaToken string `json:"captcha_token"`
}

type RegisterOwnerResponse struct {
	OwnerID uuid.UUID `json:"owner_id"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required"`
}

type OwnerLoginRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	CaptchaToken string `json:"captcha_token"`
}

// OwnerTokenResponse returns the owner's long-lived bearer token. The
// same token is issued at verification and echoed by login; no per-login
// session state exists.
type OwnerTokenResponse struct {
	Token string    `json:"token"`
	Plan  string    `json:"plan"`
	Owner OwnerItem `json:"owner"`
}

type OwnerItem struct {
	ID            uuid.UUID `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	Verified      bool      `json:"verified"`
	EmailVerified bool      `json:"email_verified"`
	Banned        bool      `json:"banned"`
	Plan          string    `json:"plan"`
	SubTier       int       `json:"sub_tier"`
	CreatedAt     time.Time `json:"created_at"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type CreateAppRequest struct {
	Name string `json:"name" validate:"required"`
}

type AppItem struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Secret    string    `json:"secret"`
	Version   string    `json:"version"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateAppRequest struct {
	Version *string `json:"version,omitempty"`
	Active  *bool   `json:"active,omitempty"`
}

type CreateLicenseRequest struct {
	AppID uuid.UUID `json:"app_id" validate:"required"`
	Name  string    `json:"name" validate:"required"`
	// ExpiresAtMillis is the expiration as epoch milliseconds, matching
	// the wire format consuming software already speaks.
	ExpiresAtMillis int64 `json:"expires_at"`
}

type LicenseItem struct {
	ID              uuid.UUID `json:"id"`
	AppID           uuid.UUID `json:"app_id"`
	Name            string    `json:"name"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAtMillis int64     `json:"expires_at"`
	Used            bool      `json:"used"`
	Active          bool      `json:"active"`
}

type RegisterByLicenseRequest struct {
	OwnerID  uuid.UUID `json:"owner_id" validate:"required"`
	License  string    `json:"license"`
	Username string    `json:"username" validate:"required"`
	Password string    `json:"password"`
	HWID     string    `json:"hwid"`
}

type LoginByLicenseRequest struct {
	OwnerID uuid.UUID `json:"owner_id" validate:"required"`
	License string    `json:"license" validate:"required"`
	HWID    string    `json:"hwid"`
}

type LoginByPasswordRequest struct {
	OwnerID  uuid.UUID `json:"owner_id" validate:"required"`
	Username string    `json:"username" validate:"required"`
	Password string    `json:"password" validate:"required"`
}

type CreateSubUserRequest struct {
	AppID    uuid.UUID `json:"app_id" validate:"required"`
	Username string    `json:"username" validate:"required"`
	Password string    `json:"password" validate:"required"`
}

type SubUserItem struct {
	ID        uuid.UUID  `json:"id"`
	AppID     uuid.UUID  `json:"app_id"`
	LicenseID *uuid.UUID `json:"license_id,omitempty"`
	Username  string     `json:"username"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
}
