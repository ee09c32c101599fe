package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"resume-tailor/internal/shared/telemetry"
)

// Config holds application configuration. It is built once at startup and passed to every
// component; nothing below bootstrap reads the process environment directly.
type Config struct {
	Port            string
	Env             string
	AppURL          string
	LandingURL      string
	CORSAllowOrigin []string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	DatabaseURL  string
	DBServiceKey string
	RedisURL     string
	// Pool overrides; zero keeps the per-process default.
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration
	DBPingTimeout     time.Duration
	Lambda            bool

	SessionSecret       string
	SessionTTL          time.Duration
	IdentityProviderURL string
	GoogleClientID      string
	GoogleClientSecret  string
	AdminEmails         []string

	LLMProvider string
	LLMModel    string
	LLMAPIKey   string

	ScraperAPIToken     string
	ScraperBaseURL      string
	ScraperProfileActor string
	ScraperJobsActor    string
	ScraperPeopleActor  string
	ScraperTimeout      time.Duration

	PaymentAPIKey        string
	PaymentWebhookSecret string
	PaymentPriceID       string

	EmailAPIKey string
	EmailFrom   string

	StrictVersioning bool
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	appURL := strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/")

	return Config{
		Port:            getEnv("PORT", "8080"),
		Env:             env,
		AppURL:          appURL,
		LandingURL:      getEnv("LANDING_URL", appURL+"/"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", "uploads/"),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),

		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DBServiceKey: getEnv("DB_SERVICE_KEY", ""),
		RedisURL:     getEnv("REDIS_URL", ""),

		DBMaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 0),
		DBMaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 0),
		DBConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", 0),
		DBConnMaxIdleTime: getDuration("DB_CONN_MAX_IDLE_TIME", 0),
		DBPingTimeout:     getDuration("DB_PING_TIMEOUT", 0),
		Lambda:            strings.TrimSpace(os.Getenv("AWS_LAMBDA_FUNCTION_NAME")) != "",

		SessionSecret:       getEnv("SESSION_SECRET", ""),
		SessionTTL:          getDuration("SESSION_TTL", 7*24*time.Hour),
		IdentityProviderURL: getEnv("IDENTITY_PROVIDER_URL", ""),
		GoogleClientID:      getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret:  getEnv("GOOGLE_CLIENT_SECRET", ""),
		AdminEmails:         splitAndTrim(strings.ToLower(getEnv("ADMIN_EMAILS", ""))),

		LLMProvider: normalizeLLMProvider(getEnv("LLM_PROVIDER", "openai")),
		LLMModel:    getEnv("LLM_MODEL", "gpt-4o"),
		LLMAPIKey:   getEnv("LLM_API_KEY", os.Getenv("OPENAI_API_KEY")),

		ScraperAPIToken:     getEnv("SCRAPER_API_TOKEN", os.Getenv("APIFY_API_TOKEN")),
		ScraperBaseURL:      getEnv("SCRAPER_BASE_URL", "https://api.apify.com"),
		ScraperProfileActor: getEnv("SCRAPER_PROFILE_ACTOR", "dev_fusion~linkedin-profile-scraper"),
		ScraperJobsActor:    getEnv("SCRAPER_JOBS_ACTOR", "dan.scraper~linkedin-jobs-scraper"),
		ScraperPeopleActor:  getEnv("SCRAPER_PEOPLE_ACTOR", "apimaestro~linkedin-search"),
		ScraperTimeout:      getDuration("SCRAPER_TIMEOUT", 120*time.Second),

		PaymentAPIKey:        getEnv("STRIPE_SECRET_KEY", ""),
		PaymentWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
		PaymentPriceID:       getEnv("STRIPE_PRICE_ID", ""),

		EmailAPIKey: getEnv("RESEND_API_KEY", ""),
		EmailFrom:   getEnv("EMAIL_FROM", "Interview Ready CV <onboarding@resend.dev>"),

		StrictVersioning: getBool("STRICT_VERSIONING", false),
	}
}

// IsDevLike reports whether the environment tolerates missing infrastructure.
func (c Config) IsDevLike() bool {
	switch c.Env {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// Validate checks that every required secret is present. Outside dev-like environments a
// missing secret is a startup error; in dev it is only logged and the affected component
// reports a configuration error when called.
func (c Config) Validate() error {
	var missing []string
	required := []struct {
		key string
		val string
	}{
		{"SESSION_SECRET", c.SessionSecret},
		{"DATABASE_URL", c.DatabaseURL},
		{"GOOGLE_CLIENT_ID", c.GoogleClientID},
		{"GOOGLE_CLIENT_SECRET", c.GoogleClientSecret},
		{"IDENTITY_PROVIDER_URL", c.IdentityProviderURL},
		{"LLM_API_KEY", c.LLMAPIKey},
		{"SCRAPER_API_TOKEN", c.ScraperAPIToken},
		{"STRIPE_SECRET_KEY", c.PaymentAPIKey},
		{"STRIPE_WEBHOOK_SECRET", c.PaymentWebhookSecret},
		{"STRIPE_PRICE_ID", c.PaymentPriceID},
		{"RESEND_API_KEY", c.EmailAPIKey},
	}
	for _, r := range required {
		if strings.TrimSpace(r.val) == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if c.IsDevLike() {
		telemetry.Warn("config.missing", map[string]any{"env": c.Env, "keys": missing})
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
}

// ErrMissingConfig is returned by Validate when required keys are absent.
var ErrMissingConfig = errors.New("missing required configuration")

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		telemetry.Warn("config.invalid", map[string]any{"key": key})
		return def
	}
	return v
}

func getBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeLLMProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google", "googleai":
		return "gemini"
	case "none", "placeholder":
		return "none"
	default:
		return "openai"
	}
}
