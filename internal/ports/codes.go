package ports

import (
	"context"
	"time"
)

// CodePurpose namespaces transient verification codes.
type CodePurpose string

const (
	CodeOTP           CodePurpose = "otp"
	CodePasswordReset CodePurpose = "password-reset"
	CodeEmailVerify   CodePurpose = "email-verify"
)

// CodeStore keeps short-lived verification codes keyed by purpose and
// account identifier. Expiry is enforced by the store's TTL, which keeps
// the code plus expiry pair out of the owner record itself.
type CodeStore interface {
	Put(ctx context.Context, purpose CodePurpose, key, code string, ttl time.Duration) error
	// Get returns the empty string when no live code exists.
	Get(ctx context.Context, purpose CodePurpose, key string) (string, error)
	Delete(ctx context.Context, purpose CodePurpose, key string) error
}
