package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"

	defaultJWTExpiry = 30 * 24 * time.Hour
)

var (
	ErrJWTSecretRequired = errors.New("JWT_SECRET must be set")
	ErrUnknownDriver     = errors.New("DB_DRIVER must be mysql or sqlite")
)

type Config struct {
	Port        string
	Env         string
	DBDriver    string
	DatabaseDSN string
	JWTSecret   string
	JWTExpiry   time.Duration
	AdminEmail  string
	CORSOrigins []string
	TrustProxy  bool
}

// Load reads the configuration from the environment. A missing signing
// secret is an error: tokens cannot be issued without it.
func Load() (Config, error) {
	cfg := Config{
		Port:        getEnv("PORT", "5000"),
		Env:         getEnv("ENV", "development"),
		DBDriver:    strings.ToLower(getEnv("DB_DRIVER", DriverMySQL)),
		DatabaseDSN: getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/jobtracker?parseTime=true"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTExpiry:   defaultJWTExpiry,
		AdminEmail:  strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL"))),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	if cfg.JWTSecret == "" {
		return Config{}, ErrJWTSecretRequired
	}

	if cfg.DBDriver != DriverMySQL && cfg.DBDriver != DriverSQLite {
		return Config{}, fmt.Errorf("%w, got %q", ErrUnknownDriver, cfg.DBDriver)
	}

	if v := os.Getenv("JWT_EXPIRY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid JWT_EXPIRY %q", v)
		}
		cfg.JWTExpiry = d
	}

	if v := os.Getenv("TRUST_PROXY"); v != "" {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TRUST_PROXY %q", v)
		}
		cfg.TrustProxy = trust
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with ENV=production.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
