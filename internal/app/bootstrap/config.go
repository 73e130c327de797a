package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration. It merges file defaults
// and environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int

	DatabaseURL string
	RedisURL    string

	BcryptCost     int
	BearerTokenLen int
	AppSecretLen   int

	OTPTTL         time.Duration
	ResetCodeTTL   time.Duration
	EmailVerifyTTL time.Duration

	RequireCaptcha  bool
	CaptchaEndpoint string
	CaptchaSecret   string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	EnforceSubUserPasswordPolicy bool
	FreeTierAppLimit             int64

	MaxDBConns int32
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Captcha struct {
		Required bool   `yaml:"required"`
		Endpoint string `yaml:"endpoint"`
		Secret   string `yaml:"secret"`
	} `yaml:"captcha"`
	SMTP struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"smtp"`
	Policy struct {
		EnforceSubUserPasswordPolicy bool  `yaml:"enforce_sub_user_password_policy"`
		FreeTierAppLimit             int64 `yaml:"free_tier_app_limit"`
	} `yaml:"policy"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:        "auth-manager",
		HTTPPort:         8080,
		BcryptCost:       12,
		BearerTokenLen:   32,
		AppSecretLen:     48,
		OTPTTL:           10 * time.Minute,
		ResetCodeTTL:     10 * time.Minute,
		EmailVerifyTTL:   10 * time.Minute,
		CaptchaEndpoint:  "https://hcaptcha.com/siteverify",
		SMTPPort:         587,
		FreeTierAppLimit: 1,
		MaxDBConns:       20,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		cfg.RequireCaptcha = f.Captcha.Required
		if f.Captcha.Endpoint != "" {
			cfg.CaptchaEndpoint = f.Captcha.Endpoint
		}
		if f.Captcha.Secret != "" {
			cfg.CaptchaSecret = f.Captcha.Secret
		}
		if f.SMTP.Host != "" {
			cfg.SMTPHost = f.SMTP.Host
		}
		if f.SMTP.Port > 0 {
			cfg.SMTPPort = f.SMTP.Port
		}
		if f.SMTP.Username != "" {
			cfg.SMTPUsername = f.SMTP.Username
		}
		if f.SMTP.Password != "" {
			cfg.SMTPPassword = f.SMTP.Password
		}
		if f.SMTP.From != "" {
			cfg.SMTPFrom = f.SMTP.From
		}
		cfg.EnforceSubUserPasswordPolicy = f.Policy.EnforceSubUserPasswordPolicy
		if f.Policy.FreeTierAppLimit > 0 {
			cfg.FreeTierAppLimit = f.Policy.FreeTierAppLimit
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.RequireCaptcha = envBool("CAPTCHA_REQUIRED", cfg.RequireCaptcha)
	cfg.CaptchaEndpoint = envOrDefault("CAPTCHA_ENDPOINT", cfg.CaptchaEndpoint)
	cfg.CaptchaSecret = envOrDefault("CAPTCHA_SECRET", cfg.CaptchaSecret)
	cfg.SMTPHost = envOrDefault("SMTP_HOST", cfg.SMTPHost)
	cfg.SMTPPort = envInt("SMTP_PORT", cfg.SMTPPort)
	cfg.SMTPUsername = envOrDefault("SMTP_USERNAME", cfg.SMTPUsername)
	cfg.SMTPPassword = envOrDefault("SMTP_PASSWORD", cfg.SMTPPassword)
	cfg.SMTPFrom = envOrDefault("SMTP_FROM", cfg.SMTPFrom)
	cfg.EnforceSubUserPasswordPolicy = envBool("ENFORCE_SUB_USER_PASSWORD_POLICY", cfg.EnforceSubUserPasswordPolicy)
	cfg.FreeTierAppLimit = int64(envInt("FREE_TIER_APP_LIMIT", int(cfg.FreeTierAppLimit)))
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.OTPTTL = time.Duration(envInt("OTP_TTL_MINUTES", int(cfg.OTPTTL.Minutes()))) * time.Minute
	cfg.ResetCodeTTL = time.Duration(envInt("RESET_CODE_TTL_MINUTES", int(cfg.ResetCodeTTL.Minutes()))) * time.Minute
	cfg.EmailVerifyTTL = time.Duration(envInt("EMAIL_VERIFY_TTL_MINUTES", int(cfg.EmailVerifyTTL.Minutes()))) * time.Minute

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}
	if cfg.RequireCaptcha && cfg.CaptchaSecret == "" {
		return Config{}, fmt.Errorf("captcha required but CAPTCHA_SECRET is missing")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envBool parses common boolean env forms while keeping a deterministic fallback.
func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}
