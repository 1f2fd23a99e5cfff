package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend identifies which persistence implementation the process runs against.
// Selection happens exactly once, in Load, by inspecting which credentials exist.
type Backend string

const (
	BackendRelational Backend = "relational"
	BackendAirtable   Backend = "airtable"
	BackendNone       Backend = "none"
)

// relationalURLKeys are checked in order; the first non-empty one wins.
var relationalURLKeys = []string{
	"POSTGRES_URL",
	"POSTGRES_URL_NON_POOLING",
	"POSTGRES_PRISMA_URL",
	"DATABASE_URL",
	"NEON_DATABASE_URL",
}

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Owner / time
	OwnerKey string
	TZName   string
	Location *time.Location

	// Relational backend (Postgres via pgx, or sqlite for local use)
	DatabaseURL  string
	DBDriver     string
	DBConnection string

	// Airtable backend
	AirtableAPIKey       string
	AirtableBaseID       string
	AirtableTableDays    string
	AirtableTableWeight  string
	AirtableTableSleep   string
	AirtableTableMeal    string
	AirtableTableWorkout string
	AirtableTableJournal string

	// Admin data browser (unprotected when empty)
	AdminToken string

	// AI assist
	GeminiAPIKey string
	GeminiModel  string

	// Cache
	CacheTTL time.Duration

	// Storage (S3-compatible, optional: journal attachment presigning)
	S3Region        string
	S3Bucket        string
	S3AccessKey     string
	S3SecretKey     string
	S3Endpoint      string
	S3PresignExpiry time.Duration

	// Observability
	SentryDSN string
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		AppName: envString("APP_NAME", "carebook"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "8090"),

		OwnerKey: ownerKey(),
		TZName:   envString("APP_TZ", "Asia/Tokyo"),

		DatabaseURL:  firstEnv(relationalURLKeys),
		DBDriver:     envString("DB_DRIVER", ""),
		DBConnection: envString("DB_CONNECTION", ""),

		AirtableAPIKey:       envString("AIRTABLE_API_KEY", ""),
		AirtableBaseID:       envString("AIRTABLE_BASE_ID", ""),
		AirtableTableDays:    envString("AIRTABLE_TABLE_DAYS", "Days"),
		AirtableTableWeight:  envString("AIRTABLE_TABLE_WEIGHT", "WeightLogs"),
		AirtableTableSleep:   envString("AIRTABLE_TABLE_SLEEP", "SleepLogs"),
		AirtableTableMeal:    envString("AIRTABLE_TABLE_MEAL", "MealLogs"),
		AirtableTableWorkout: envString("AIRTABLE_TABLE_WORKOUT", "WorkoutLogs"),
		AirtableTableJournal: envString("AIRTABLE_TABLE_JOURNAL", "JournalEntries"),

		AdminToken: envString("ADMIN_TOKEN", ""),

		GeminiAPIKey: envString("GEMINI_API_KEY", ""),
		GeminiModel:  envString("GEMINI_MODEL", "gemini-1.5-flash"),

		CacheTTL: envDuration("CACHE_TTL", 10*time.Minute),

		S3Region:        envString("S3_REGION", ""),
		S3Bucket:        envString("S3_BUCKET", ""),
		S3AccessKey:     envString("S3_ACCESS_KEY", ""),
		S3SecretKey:     envString("S3_SECRET_KEY", ""),
		S3Endpoint:      envString("S3_ENDPOINT", ""),
		S3PresignExpiry: envDuration("S3_PRESIGN_EXPIRY", 1*time.Hour),

		SentryDSN: envString("SENTRY_DSN", ""),
	}

	cfg.Location, err = time.LoadLocation(cfg.TZName)
	if err != nil {
		slog.Warn("config invalid APP_TZ, falling back to Asia/Tokyo", "value", cfg.TZName, "error", err)
		cfg.TZName = "Asia/Tokyo"
		cfg.Location, err = time.LoadLocation(cfg.TZName)
		if err != nil {
			// No tzdata on this system at all; a fixed offset is all
			// that's left, named for what it actually is.
			cfg.Location = time.FixedZone("UTC+9", 9*60*60)
		}
	}

	return cfg
}

// SelectedBackend inspects configured credentials: relational wins over Airtable,
// and absence of both degrades the app to a read-only empty state.
func (c *Config) SelectedBackend() Backend {
	if c.DatabaseURL != "" || (c.DBDriver != "" && c.DBConnection != "") {
		return BackendRelational
	}
	if c.AirtableAPIKey != "" && c.AirtableBaseID != "" {
		return BackendAirtable
	}
	return BackendNone
}

// BackendHint is the static configuration hint surfaced in the unconfigured state.
func (c *Config) BackendHint() string {
	return "No backend configured. Set one of " + strings.Join(relationalURLKeys, ", ") +
		" for Postgres, DB_DRIVER=sqlite with DB_CONNECTION for a local database, or " +
		"AIRTABLE_API_KEY and AIRTABLE_BASE_ID for Airtable."
}

func (c *Config) S3Configured() bool {
	return c.S3Bucket != "" && c.S3Region != ""
}

func (c *Config) GeminiConfigured() bool {
	return c.GeminiAPIKey != ""
}

func (c *Config) AdminProtected() bool {
	return c.AdminToken != ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func ownerKey() string {
	v := strings.TrimSpace(os.Getenv("OWNER_KEY"))
	if v == "" {
		return "default"
	}
	return v
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func firstEnv(keys []string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
