package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether the identifier or the secret failed.
	// The reason is to prevent account-enumeration side channels.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	// ErrForbidden signals a valid credential acting outside its ownership scope.
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")
	// ErrSuspended propagates an owner-level ban to every license and
	// sub-user operation in that owner's namespace.
	ErrSuspended = errors.New("account suspended")
	// ErrNotVerified blocks owner login until the registration OTP is confirmed.
	ErrNotVerified = errors.New("account not verified")
	// ErrLicenseUsed marks a second redemption attempt of a single-use license.
	ErrLicenseUsed = errors.New("license already used")
	// ErrInactive covers records disabled by their active flag.
	ErrInactive = errors.New("record inactive")
)
