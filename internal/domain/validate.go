package domain

import (
	"fmt"
	"regexp"
	"unicode"
)

var (
	usernameRE     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{2,15}$`)
	resourceNameRE = regexp.MustCompile(`^[A-Za-z0-9-]*$`)
)

const (
	minOwnerPasswordLength = 8
	maxPasswordLength      = 128
)

// ValidateUsername applies the shared username pattern used by owners
// and sub-users: a letter followed by 2-15 word characters.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if !usernameRE.MatchString(username) {
		return fmt.Errorf("%w: username must match %s", ErrInvalidInput, usernameRE.String())
	}
	return nil
}

// ValidateResourceName gates app and license names: alphanumerics and
// dashes only, and the name must be present.
func ValidateResourceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !resourceNameRE.MatchString(name) {
		return fmt.Errorf("%w: name must match %s", ErrInvalidInput, resourceNameRE.String())
	}
	return nil
}

// ValidateOwnerPassword enforces the owner account password policy.
func ValidateOwnerPassword(password string) error {
	if len(password) < minOwnerPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minOwnerPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return fmt.Errorf("%w: password must be <= %d characters", ErrInvalidInput, maxPasswordLength)
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("%w: password must include upper, lower, and digit", ErrInvalidInput)
	}
	return nil
}

// ValidateSubUserPassword checks a sub-user password. Strength rules are
// configurable policy, default off: only presence is mandatory, matching
// the public registration surface.
func ValidateSubUserPassword(password string, enforcePolicy bool) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if !enforcePolicy {
		return nil
	}
	return ValidateOwnerPassword(password)
}
