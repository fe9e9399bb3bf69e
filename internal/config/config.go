package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	JWTSecret string

	// JWTExpireHours is the token lifetime in hours (default 168, i.e. 7 days).
	// Set via JWT_EXPIRE_HOURS.
	JWTExpireHours int

	// BcryptCost is the bcrypt work factor for password hashing (default 10).
	BcryptCost int

	// Env is "dev" (default) or "prod". When "prod", JWT_SECRET must be set and not the default.
	Env string

	// AuditRetentionDays is how long audit log rows are kept before the nightly
	// prune removes them (default 90).
	AuditRetentionDays int

	// TLSCertFile and TLSKeyFile enable HTTPS when both are set.
	// When empty, the API listens with plain HTTP.
	TLSCertFile string
	TLSKeyFile  string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string

	// CORSAllowedOrigins is a list of origins allowed for CORS.
	// Set via CORS_ALLOWED_ORIGINS (comma-separated). When empty, no CORS headers are sent.
	CORSAllowedOrigins []string
}

// devJWTSecret is the development-only fallback signing secret.
const devJWTSecret = "mytestkey"

// ErrProdSecret is returned by Validate when ENV=prod but JWT_SECRET was left
// at the development default. The server must refuse to start in that state.
var ErrProdSecret = errors.New("config: JWT_SECRET must be set to a non-default value when ENV=prod")

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present (missing files are fine).
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port: getEnv("PORT", "8080"),

		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "giftregistry"),
		DBUser: getEnv("DB_USER", "giftuser"),
		DBPass: getEnv("DB_PASS", "giftpass"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		JWTSecret:      getEnv("JWT_SECRET", devJWTSecret),
		JWTExpireHours: getEnvInt("JWT_EXPIRE_HOURS", 168),
		BcryptCost:     getEnvInt("BCRYPT_COST", 10),

		Env: getEnv("ENV", "dev"),

		AuditRetentionDays: getEnvInt("AUDIT_RETENTION_DAYS", 90),

		TLSCertFile: getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:  getEnv("TLS_KEY_FILE", ""),

		LogFormat: getEnv("LOG_FORMAT", "text"),

		CORSAllowedOrigins: splitOrigins(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

// Validate checks startup invariants. Absence of a real signing secret in prod
// is a fatal condition, not a per-request error.
func (c Config) Validate() error {
	if c.Env == "prod" && (c.JWTSecret == "" || c.JWTSecret == devJWTSecret) {
		return ErrProdSecret
	}
	return nil
}

// splitOrigins splits a comma-separated list of origins and trims spaces. Empty entries are omitted.
func splitOrigins(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if o := strings.TrimSpace(p); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
