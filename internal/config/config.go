package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database
	DBDriver   string `yaml:"db_driver"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	DBSSLMode  string `yaml:"db_sslmode"`
	SQLitePath string `yaml:"sqlite_path"`

	// Session
	SessionSecret string        `yaml:"session_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	SessionCookie string        `yaml:"session_cookie"`
	CookieSecure  bool          `yaml:"cookie_secure"`

	// Auth
	FallbackRole string `yaml:"fallback_role"`
	BcryptCost   int    `yaml:"bcrypt_cost"`

	// Server-status enrichment
	EnrichmentAPIURL  string        `yaml:"enrichment_api_url"`
	EnrichmentAPIKey  string        `yaml:"enrichment_api_key"`
	EnrichmentTimeout time.Duration `yaml:"enrichment_timeout"`

	// Announcements
	TimeZone string `yaml:"time_zone"`

	// Logging
	LogRetention time.Duration `yaml:"log_retention"`

	// Server
	Port        string `yaml:"port"`
	CORSOrigins string `yaml:"cors_origins"`
	SiteName    string `yaml:"site_name"`
	PublicURL   string `yaml:"public_url"`

	// Error tracking
	SentryDSN string `yaml:"sentry_dsn"`
	AppEnv    string `yaml:"app_env"`
}

func defaults() *Config {
	return &Config{
		DBDriver:   "postgres",
		DBHost:     "localhost",
		DBPort:     "5432",
		DBUser:     "postgres",
		DBName:     "community_admin",
		DBSSLMode:  "disable",
		SQLitePath: "file:community.db?_foreign_keys=1",

		SessionTTL:    12 * time.Hour,
		SessionCookie: "session",
		CookieSecure:  true,

		FallbackRole: "admin",
		BcryptCost:   10,

		EnrichmentAPIURL:  "https://api.battlemetrics.com",
		EnrichmentTimeout: 5 * time.Second,

		TimeZone: "UTC",

		LogRetention: 30 * 24 * time.Hour,

		Port:        "8080",
		CORSOrigins: "*",
		SiteName:    "Community",
		PublicURL:   "http://localhost:8080",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.DBDriver = getEnv("DB_DRIVER", cfg.DBDriver)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.DBSSLMode = getEnv("DB_SSLMODE", cfg.DBSSLMode)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)

	cfg.SessionSecret = getEnv("SESSION_SECRET", cfg.SessionSecret)
	cfg.SessionTTL = getDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.SessionCookie = getEnv("SESSION_COOKIE", cfg.SessionCookie)
	cfg.CookieSecure = getBool("COOKIE_SECURE", cfg.CookieSecure)

	cfg.FallbackRole = getEnv("FALLBACK_ROLE", cfg.FallbackRole)
	cfg.BcryptCost = getInt("BCRYPT_COST", cfg.BcryptCost)

	cfg.EnrichmentAPIURL = getEnv("ENRICHMENT_API_URL", cfg.EnrichmentAPIURL)
	cfg.EnrichmentAPIKey = getEnv("ENRICHMENT_API_KEY", cfg.EnrichmentAPIKey)
	cfg.EnrichmentTimeout = getDuration("ENRICHMENT_TIMEOUT", cfg.EnrichmentTimeout)

	cfg.TimeZone = getEnv("TIME_ZONE", cfg.TimeZone)
	cfg.LogRetention = getDuration("LOG_RETENTION", cfg.LogRetention)

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.CORSOrigins = getEnv("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.SiteName = getEnv("SITE_NAME", cfg.SiteName)
	cfg.PublicURL = getEnv("PUBLIC_URL", cfg.PublicURL)

	cfg.SentryDSN = getEnv("SENTRY_DSN", cfg.SentryDSN)
	cfg.AppEnv = getEnv("APP_ENV", cfg.AppEnv)

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// Location is the zone announcement date-times are entered and displayed in.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}
