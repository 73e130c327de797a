package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cacheadapter "github.com/AuthsManager/AuthManager-Src-sub000/internal/adapters/cache"
	captchaadapter "github.com/AuthsManager/AuthManager-Src-sub000/internal/adapters/captcha"
	httpadapter "github.com/AuthsManager/AuthManager-Src-sub000/internal/adapters/http"
	mailadapter "github.com/AuthsManager/AuthManager-Src-sub000/internal/adapters/mail"
	"github.com/AuthsManager/AuthManager-Src-sub000/internal/adapters/postgres"
	"github.com/AuthsManager/AuthManager-Src-sub000/internal/adapters/security"
	"github.com/AuthsManager/AuthManager-Src-sub000/internal/application"
	"github.com/AuthsManager/AuthManager-Src-sub000/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	cleanupFn  func(context.Context)
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)
	logger.Info("bootstrapping auth manager", "http_port", cfg.HTTPPort)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	if err := postgres.RunMigrations(ctx, db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redisClient, err := cacheadapter.Connect(ctx, cfg.RedisURL)
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("init redis client: %w", err)
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	repos := postgres.NewRepositories(db)

	var mailer ports.Mailer
	if cfg.SMTPHost != "" {
		mailer = mailadapter.NewSMTPMailer(mailadapter.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, logger)
	} else {
		logger.Warn("no SMTP host configured, using logging mailer")
		mailer = mailadapter.NewLoggingMailer(logger)
	}

	var verifier ports.CaptchaVerifier
	if cfg.RequireCaptcha {
		verifier = captchaadapter.NewHTTPVerifier(cfg.CaptchaEndpoint, cfg.CaptchaSecret)
	} else {
		verifier = captchaadapter.AlwaysPassVerifier{}
	}

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			OTPTTL:                       cfg.OTPTTL,
			ResetCodeTTL:                 cfg.ResetCodeTTL,
			EmailVerifyTTL:               cfg.EmailVerifyTTL,
			BearerTokenLen:               cfg.BearerTokenLen,
			AppSecretLen:                 cfg.AppSecretLen,
			RequireCaptcha:               cfg.RequireCaptcha,
			EnforceSubUserPasswordPolicy: cfg.EnforceSubUserPasswordPolicy,
			FreeTierAppLimit:             cfg.FreeTierAppLimit,
		},
		Owners:   repos.Owners,
		Apps:     repos.Apps,
		Licenses: repos.Licenses,
		SubUsers: repos.SubUsers,
		Hasher:   security.NewBcryptHasher(cfg.BcryptCost),
		Tokens:   security.NewRandomTokenGenerator(),
		Mailer:   mailer,
		Captcha:  verifier,
		Codes:    cacheadapter.NewRedisCodeStore(redisClient),
	})

	handler := httpadapter.NewHandler(svc)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpServer,
		cleanupFn: func(ctx context.Context) {
			_ = redisClient.Close()
			_ = sqlDB.Close()
		},
	}, nil
}

func (r *Runtime) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case err := <-errCh:
		r.logger.Error("server failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.cleanupFn(shutdownCtx)
	return nil
}
