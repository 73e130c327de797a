package ports

import "context"

// MailKind selects the transactional template to send.
type MailKind string

const (
	MailOTP           MailKind = "otp"
	MailEmailVerify   MailKind = "email-verify"
	MailPasswordReset MailKind = "password-reset"
	MailBanNotice     MailKind = "ban-notice"
)

// Mailer delivers transactional email. Callers treat delivery failure as
// a hard failure of the triggering operation and compensate accordingly.
type Mailer interface {
	Send(ctx context.Context, kind MailKind, to string, payload map[string]string) error
}
