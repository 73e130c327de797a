package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/ports"
)

// SMTPMailer delivers transactional mail over plain SMTP with optional
// AUTH. Bodies are rendered from a small fixed template set keyed by
// mail kind.
type SMTPMailer struct {
	addr   string
	from   string
	auth   smtp.Auth
	logger *slog.Logger
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func NewSMTPMailer(cfg SMTPConfig, logger *slog.Logger) *SMTPMailer {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPMailer{
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from:   cfg.From,
		auth:   auth,
		logger: logger,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, kind ports.MailKind, to string, payload map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, body := renderMail(kind, payload)
	msg := buildMessage(m.from, to, subject, body)
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send %s mail: %w", kind, err)
	}
	m.logger.Info("mail sent", "kind", string(kind), "to", to)
	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

func renderMail(kind ports.MailKind, payload map[string]string) (subject, body string) {
	switch kind {
	case ports.MailOTP:
		return "Your verification code",
			fmt.Sprintf("Your verification code is %s. It expires in 10 minutes.", payload["code"])
	case ports.MailEmailVerify:
		return "Verify your email address",
			fmt.Sprintf("Use code %s to confirm your new email address.", payload["code"])
	case ports.MailPasswordReset:
		return "Password reset request",
			fmt.Sprintf("Use code %s to reset your password. If you did not request this, ignore this message.", payload["code"])
	case ports.MailBanNotice:
		return "Account suspended",
			"Your account has been suspended. Contact support if you believe this is a mistake."
	default:
		return "Notification", "You have a new notification."
	}
}

// LoggingMailer logs deliveries instead of sending them. Used in
// development and in environments without an SMTP relay.
type LoggingMailer struct {
	logger *slog.Logger
}

func NewLoggingMailer(logger *slog.Logger) *LoggingMailer {
	return &LoggingMailer{logger: logger}
}

func (m *LoggingMailer) Send(_ context.Context, kind ports.MailKind, to string, payload map[string]string) error {
	attrs := []any{"kind", string(kind), "to", to}
	for k, v := range payload {
		attrs = append(attrs, k, v)
	}
	m.logger.Info("mail delivery (logging mailer)", attrs...)
	return nil
}
