package application

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/AuthsManager/AuthManager-Src-sub000/internal/ports"
)

// Config carries the tunable policy knobs of the core engines.
type Config struct {
	OTPTTL          time.Duration
	ResetCodeTTL    time.Duration
	EmailVerifyTTL  time.Duration
	BearerTokenLen  int
	AppSecretLen    int
	RequireCaptcha  bool
	// EnforceSubUserPasswordPolicy applies the strength policy to public
	// sub-user registration. Default off.
	EnforceSubUserPasswordPolicy bool
	// FreeTierAppLimit caps tier-0 owners' application count.
	FreeTierAppLimit int64
	DefaultPlan      string
}

type Service struct {
	cfg      Config
	owners   ports.OwnerRepository
	apps     ports.AppRepository
	licenses ports.LicenseRepository
	subusers ports.SubUserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenGenerator
	mailer   ports.Mailer
	captcha  ports.CaptchaVerifier
	codes    ports.CodeStore
	nowFn    func() time.Time
}

type Dependencies struct {
	Config   Config
	Owners   ports.OwnerRepository
	Apps     ports.AppRepository
	Licenses ports.LicenseRepository
	SubUsers ports.SubUserRepository
	Hasher   ports.PasswordHasher
	Tokens   ports.TokenGenerator
	Mailer   ports.Mailer
	Captcha  ports.CaptchaVerifier
	Codes    ports.CodeStore
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	if cfg.ResetCodeTTL <= 0 {
		cfg.ResetCodeTTL = 10 * time.Minute
	}
	if cfg.EmailVerifyTTL <= 0 {
		cfg.EmailVerifyTTL = 10 * time.Minute
	}
	if cfg.BearerTokenLen <= 0 {
		cfg.BearerTokenLen = 32
	}
	if cfg.AppSecretLen <= 0 {
		cfg.AppSecretLen = 48
	}
	if cfg.FreeTierAppLimit <= 0 {
		cfg.FreeTierAppLimit = 1
	}
	return &Service{
		cfg:      cfg,
		owners:   deps.Owners,
		apps:     deps.Apps,
		licenses: deps.Licenses,
		subusers: deps.SubUsers,
		hasher:   deps.Hasher,
		tokens:   deps.Tokens,
		mailer:   deps.Mailer,
		captcha:  deps.Captcha,
		codes:    deps.Codes,
		nowFn:    func() time.Time { return time.Now().UTC() },
	}
}

func randomDigits(size int) string {
	if size <= 0 {
		size = 6
	}
	max := 1
	for i := 0; i < size; i++ {
		max *= 10
	}
	raw := make([]byte, 4)
	_, _ = rand.Read(raw)
	n := int(raw[0])<<24 | int(raw[1])<<16 | int(raw[2])<<8 | int(raw[3])
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("%0*d", size, n%max)
}
