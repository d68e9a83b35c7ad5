package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_EXPIRY", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("TRUST_PROXY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "5000" {
		t.Errorf("Port = %q, want %q", cfg.Port, "5000")
	}
	if cfg.DBDriver != DriverMySQL {
		t.Errorf("DBDriver = %q, want %q", cfg.DBDriver, DriverMySQL)
	}
	if cfg.JWTExpiry != 30*24*time.Hour {
		t.Errorf("JWTExpiry = %v, want 720h", cfg.JWTExpiry)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("CORSOrigins = %v, want [*]", cfg.CORSOrigins)
	}
	if cfg.TrustProxy {
		t.Error("TrustProxy must default to false")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if !errors.Is(err, ErrJWTSecretRequired) {
		t.Errorf("Load() error = %v, want %v", err, ErrJWTSecretRequired)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("ADMIN_EMAIL", " Boss@Example.com ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://jobs.example.com")
	t.Setenv("TRUST_PROXY", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.DBDriver != DriverSQLite {
		t.Errorf("DBDriver = %q, want %q", cfg.DBDriver, DriverSQLite)
	}
	if cfg.JWTExpiry != 2*time.Hour {
		t.Errorf("JWTExpiry = %v, want 2h", cfg.JWTExpiry)
	}
	if cfg.AdminEmail != "boss@example.com" {
		t.Errorf("AdminEmail = %q, want normalized address", cfg.AdminEmail)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://jobs.example.com" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.TrustProxy {
		t.Error("TrustProxy = false, want true")
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		driver string
		expiry string
		trust  string
	}{
		{name: "unknown driver", driver: "postgres"},
		{name: "bad expiry", expiry: "thirty days"},
		{name: "negative expiry", expiry: "-1h"},
		{name: "bad trust proxy", trust: "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "s3cret")
			t.Setenv("DB_DRIVER", tt.driver)
			t.Setenv("JWT_EXPIRY", tt.expiry)
			t.Setenv("TRUST_PROXY", tt.trust)

			if _, err := Load(); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}
