package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/flashforge/internal/api/middleware"
	"github.com/phrazzld/flashforge/internal/config"
	"github.com/phrazzld/flashforge/internal/generation"
	"github.com/phrazzld/flashforge/internal/platform/gemini"
	"github.com/phrazzld/flashforge/internal/platform/openai"
	"github.com/phrazzld/flashforge/internal/platform/postgres"
	"github.com/phrazzld/flashforge/internal/service"
	"github.com/phrazzld/flashforge/internal/service/auth"
	"github.com/phrazzld/flashforge/internal/store"
)

// rateLimiterIdle is how long an unused per-user bucket is kept.
const rateLimiterIdle = 30 * time.Minute

// application holds the server's shared dependencies so they can be wired
// once and cleaned up together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	profileStore store.ProfileStore

	jwtService     auth.JWTService
	accountService service.AccountService
	profileService *service.ProfileService

	generator   generation.Generator
	breaker     *generation.BreakerGenerator
	rateLimiter *middleware.RateLimiter
}

// newApplication wires every dependency from cfg. db must already be open.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes)

	app.userStore = postgres.NewPostgresUserStore(db)
	app.profileStore = postgres.NewCachedProfileStore(
		postgres.NewPostgresProfileStore(db),
		time.Duration(cfg.Profile.CacheTTLSeconds)*time.Second,
	)

	app.accountService = service.NewAccountService(
		app.userStore,
		app.profileStore,
		auth.NewBcryptVerifier(cfg.Auth.BCryptCost),
		db,
		logger,
	)
	app.profileService = service.NewProfileService(app.profileStore)

	app.generator, app.breaker, err = newGenerator(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	app.rateLimiter = middleware.NewRateLimiter(
		cfg.Generation.RateLimitPerMinute,
		cfg.Generation.RateLimitBurst,
		rateLimiterIdle,
	)

	return app, nil
}

// newGenerator builds the configured LLM backend wrapped as
// breaker(retry(backend)). The breaker is returned separately for health
// reporting.
func newGenerator(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
) (generation.Generator, *generation.BreakerGenerator, error) {
	prompt, err := generation.LoadPrompt(cfg.LLM.PromptTemplatePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load prompt template: %w", err)
	}

	log := logger.With("component", "llm_generator")

	var backend generation.Generator
	switch cfg.LLM.Provider {
	case "gemini":
		backend, err = gemini.NewGenerator(ctx, log, cfg.LLM, prompt)
	case "openai":
		backend, err = openai.NewGenerator(log, cfg.LLM, prompt, "")
	default:
		err = fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.LLM.Provider)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize LLM generator: %w", err)
	}

	retrying := generation.WithRetry(backend, generation.RetryConfig{
		MaxRetries: cfg.LLM.MaxRetries,
		BaseDelay:  time.Duration(cfg.LLM.RetryDelaySeconds) * time.Second,
	}, log)

	breaker := generation.NewBreakerGenerator(retrying, generation.BreakerConfig{
		Name:        cfg.LLM.Provider,
		MaxFailures: uint32(cfg.Generation.BreakerMaxFailures),
		OpenTimeout: time.Duration(cfg.Generation.BreakerOpenSeconds) * time.Second,
	}, log)

	logger.Info("LLM generator initialized",
		"provider", cfg.LLM.Provider,
		"max_retries", cfg.LLM.MaxRetries)
	return breaker, breaker, nil
}

// generationBudget bounds one generation request including its retries.
func (app *application) generationBudget() time.Duration {
	perAttempt := time.Duration(app.config.LLM.RequestTimeoutSeconds) * time.Second
	attempts := time.Duration(app.config.LLM.MaxRetries + 1)
	backoff := time.Duration(app.config.LLM.RetryDelaySeconds) * time.Second * (1 << app.config.LLM.MaxRetries)
	return perAttempt*attempts + backoff
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database connection", "error", err)
			return
		}
		app.logger.Info("database connection closed")
	}
}

func (app *application) generatorState() string {
	if app.breaker == nil {
		return ""
	}
	return app.breaker.State()
}
