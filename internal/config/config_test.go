package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want 8080", cfg.Port)
	}
	if cfg.JWTExpireHours != 168 {
		t.Errorf("JWTExpireHours: got %d, want 168", cfg.JWTExpireHours)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost: got %d, want 10", cfg.BcryptCost)
	}
	if cfg.AuditRetentionDays != 90 {
		t.Errorf("AuditRetentionDays: got %d, want 90", cfg.AuditRetentionDays)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("JWT_EXPIRE_HOURS", "24")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, http://localhost:3000,")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Errorf("Port: got %q, want 9999", cfg.Port)
	}
	if cfg.JWTExpireHours != 24 {
		t.Errorf("JWTExpireHours: got %d, want 24", cfg.JWTExpireHours)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[0] != "https://app.example.com" {
		t.Errorf("CORSAllowedOrigins: got %v", cfg.CORSAllowedOrigins)
	}
}

func TestValidate_ProdRequiresRealSecret(t *testing.T) {
	cfg := Config{Env: "prod", JWTSecret: "mytestkey"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for default secret in prod")
	}

	cfg.JWTSecret = "an-actual-production-secret"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_DevAllowsDefaultSecret(t *testing.T) {
	cfg := Config{Env: "dev", JWTSecret: "mytestkey"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
