package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT sessions
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration
	CookieSecure     bool

	// Public tag URLs: {protocol}://{AppDomain}/t/{code}
	AppDomain string
	BaseURL   string

	// Avatar storage
	AvatarDir      string
	AvatarMaxBytes int64

	// Resolver cache (Redis when RedisURL is set, in-process otherwise)
	RedisURL         string
	ResolverCacheTTL time.Duration

	AnalyticsTimezone string
	LogRetentionDays  int

	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	SentryDSN   string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to read .env file", "error", err)
	}

	appDomain := getEnv("APP_DOMAIN", "localhost:3000")

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "nexo"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		JWTAccessExpiry:  parseDuration(getEnv("JWT_ACCESS_EXPIRY", "15m"), 15*time.Minute),
		JWTRefreshExpiry: parseDuration(getEnv("JWT_REFRESH_EXPIRY", "168h"), 168*time.Hour),
		CookieSecure:     parseBool(getEnv("COOKIE_SECURE", ""), !strings.Contains(appDomain, "localhost")),

		AppDomain: appDomain,
		BaseURL:   strings.TrimRight(getEnv("BASE_URL", defaultBaseURL(appDomain)), "/"),

		AvatarDir:      getEnv("AVATAR_DIR", "./data/avatars"),
		AvatarMaxBytes: parseInt64(getEnv("AVATAR_MAX_BYTES", ""), 2*1024*1024),

		RedisURL:         getEnv("REDIS_URL", ""),
		ResolverCacheTTL: parseDuration(getEnv("RESOLVER_CACHE_TTL", "30s"), 30*time.Second),

		AnalyticsTimezone: getEnv("ANALYTICS_TIMEZONE", "UTC"),
		LogRetentionDays:  int(parseInt64(getEnv("LOG_RETENTION_DAYS", ""), 30)),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppEnv:      getEnv("APP_ENV", "development"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
	}
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

// Location returns the time zone used for "today" and per-day tap buckets.
// An unknown zone name falls back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AnalyticsTimezone)
	if err != nil {
		slog.Warn("unknown analytics timezone, using UTC", "timezone", c.AnalyticsTimezone, "error", err)
		return time.UTC
	}
	return loc
}

func defaultBaseURL(domain string) string {
	if strings.Contains(domain, "localhost") {
		return "http://" + domain
	}
	return "https://" + domain
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseBool(s string, fallback bool) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return fallback
	}
	return b
}

func parseInt64(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
