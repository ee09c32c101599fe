// Package bootstrap builds the application graph from Config: database, object store,
// provider clients, repositories, services, handlers and the router.
package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"resume-tailor/internal/access"
	"resume-tailor/internal/admin"
	googleauth "resume-tailor/internal/auth"
	"resume-tailor/internal/billing"
	"resume-tailor/internal/health"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/llm/gemini"
	"resume-tailor/internal/llm/openai"
	"resume-tailor/internal/profiles"
	"resume-tailor/internal/resumes"
	"resume-tailor/internal/scout"
	"resume-tailor/internal/scraper"
	"resume-tailor/internal/share"
	"resume-tailor/internal/shared/auth"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/server"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/storage/db"
	"resume-tailor/internal/shared/storage/object"
	localstore "resume-tailor/internal/shared/storage/object/local"
	s3store "resume-tailor/internal/shared/storage/object/s3"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/structuring"
	"resume-tailor/internal/users"
)

const llmTimeout = 90 * time.Second

// App holds the built dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Store  object.Store
}

// Close releases the database pool and the Redis client. The Lambda pool is shared for the
// life of the process and is left open.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil && !a.Config.Lambda {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

// Build validates cfg and wires every component. In dev-like environments a missing
// database falls back to in-memory repositories.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Redis:  buildRedis(ctx, cfg),
		Store:  store,
	}
	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db_missing", map[string]any{"fallback": "memory"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if cfg.Lambda {
		sqlDB, err = db.Shared(ctx, cfg.DatabaseURL, db.DefaultOptions(db.ProfileLambda).With(poolOverrides(cfg)))
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.DefaultOptions(db.ProfileServer).With(poolOverrides(cfg)))
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.db_connect_failed", map[string]any{"fallback": "memory", "error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	// Deployed environments migrate through cmd/migrate.
	if cfg.IsDevLike() {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func poolOverrides(cfg config.Config) db.Options {
	return db.Options{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
		PingTimeout:     cfg.DBPingTimeout,
	}
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildRedis returns nil when REDIS_URL is unset or unreachable; OAuth state then stays in memory.
func buildRedis(ctx context.Context, cfg config.Config) *redis.Client {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil
	}
	rdb, err := googleauth.DialRedis(ctx, cfg.RedisURL)
	if err != nil {
		telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err.Error()})
		return nil
	}
	return rdb
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.LLMAPIKey) == "" || cfg.LLMProvider == "none" {
		return llm.Unconfigured{}, nil
	}
	switch cfg.LLMProvider {
	case "gemini":
		return gemini.New(ctx, cfg.LLMAPIKey, cfg.LLMModel)
	default:
		return openai.NewClient(cfg.LLMAPIKey, cfg.LLMModel, llmTimeout)
	}
}

type repos struct {
	users         users.Repo
	profiles      profiles.Repo
	resumes       resumes.Repo
	subscriptions billing.Repo
	directory     admin.Directory
}

func buildRepos(sqlDB *sql.DB) repos {
	if sqlDB != nil {
		return repos{
			users:         &users.PGRepo{DB: sqlDB},
			profiles:      &profiles.PGRepo{DB: sqlDB},
			resumes:       &resumes.PGRepo{DB: sqlDB},
			subscriptions: &billing.PGRepo{DB: sqlDB},
			directory:     &admin.PGDirectory{DB: sqlDB},
		}
	}
	r := repos{
		users:         users.NewMemoryRepo(),
		profiles:      profiles.NewMemoryRepo(),
		resumes:       resumes.NewMemoryRepo(),
		subscriptions: billing.NewMemoryRepo(),
	}
	r.directory = &admin.MemoryDirectory{Users: r.users, Subscriptions: r.subscriptions}
	return r
}

func buildServices(ctx context.Context, app *App) error {
	cfg := app.Config
	r := buildRepos(app.DB)

	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		return fmt.Errorf("llm client: %w", err)
	}
	scraperClient := scraper.New(scraper.Options{
		BaseURL:      cfg.ScraperBaseURL,
		Token:        cfg.ScraperAPIToken,
		Timeout:      cfg.ScraperTimeout,
		ProfileActor: cfg.ScraperProfileActor,
		JobsActor:    cfg.ScraperJobsActor,
		PeopleActor:  cfg.ScraperPeopleActor,
	})
	mailer, err := share.NewResendMailer(cfg.EmailAPIKey, "", nil)
	if err != nil {
		return fmt.Errorf("email client: %w", err)
	}

	userSvc := users.NewService(r.users)
	profileSvc := &profiles.Service{
		Repo:       r.profiles,
		Structurer: structuring.New(llmClient),
		Scraper:    scraperClient,
		Store:      app.Store,
	}
	resumeSvc := &resumes.Service{
		Repo:             r.resumes,
		Profiles:         profileSvc,
		LLM:              llmClient,
		StrictVersioning: cfg.StrictVersioning,
	}
	billingSvc := &billing.Service{
		Repo: r.subscriptions,
		Gateway: billing.NewStripeGateway(billing.StripeOptions{
			SecretKey:     cfg.PaymentAPIKey,
			WebhookSecret: cfg.PaymentWebhookSecret,
			PriceID:       cfg.PaymentPriceID,
			AppURL:        cfg.AppURL,
		}),
	}
	accessSvc := &access.Service{
		Resumes:       resumeSvc,
		Subscriptions: billingSvc,
		Profiles:      profileSvc,
	}
	adminSvc := &admin.Service{
		Directory: r.directory,
		Users:     userSvc,
		Billing:   billingSvc,
	}
	scoutSvc := scout.NewService(scraperClient)
	shareSvc := share.NewService(mailer, cfg.EmailFrom)

	var states googleauth.StateStore = googleauth.NewMemoryStateStore()
	if app.Redis != nil {
		states = googleauth.NewRedisStateStore(app.Redis)
	}
	sessions := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	authHandler := googleauth.NewHandler(googleauth.Options{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.IdentityProviderURL,
		AppURL:       cfg.AppURL,
		AdminEmails:  cfg.AdminEmails,
		SecureCookie: !cfg.IsDevLike(),
	}, states, sessions, userSvc, accessSvc)

	healthSvc := health.NewService(nil)
	if app.DB != nil {
		healthSvc = health.NewService(app.DB)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:   cfg,
		Sessions: sessions,
		Limiter:  middleware.NewRateLimiter(time.Now),
		Health:   health.NewHandler(healthSvc),
		Auth:     authHandler,
		Profiles: profiles.NewHandler(profileSvc),
		Resumes:  resumes.NewHandler(resumeSvc),
		Access:   access.NewHandler(accessSvc, cfg.LandingURL),
		Billing:  billing.NewHandler(billingSvc),
		Admin:    admin.NewHandler(adminSvc),
		Scout:    scout.NewHandler(scoutSvc),
		Share:    share.NewHandler(shareSvc),
	})
	return nil
}
