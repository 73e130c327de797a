package ports

import "context"

// CaptchaVerifier validates a challenge token against a third-party
// service. It gates owner registration and login.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}
