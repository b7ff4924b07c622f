package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("REQUIRE_ALL_READY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTExpiryHours != 168 {
		t.Fatalf("expected 7 day token lifetime, got %d hours", cfg.JWTExpiryHours)
	}
	if cfg.RequireAllReady {
		t.Fatalf("readiness gate must be disabled by default")
	}
	if cfg.DBMaxOpenConns != 20 {
		t.Fatalf("expected pool size 20, got %d", cfg.DBMaxOpenConns)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("REQUIRE_ALL_READY", "true")
	t.Setenv("RATE_LIMIT_PER_SECOND", "2.5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %#v", cfg.AllowedOrigins)
	}
	if !cfg.RequireAllReady {
		t.Fatalf("expected readiness gate enabled")
	}
	if cfg.RateLimitPerSecond != 2.5 {
		t.Fatalf("expected 2.5 req/s, got %v", cfg.RateLimitPerSecond)
	}
}

func TestLoadRejectsBadInteger(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for non-numeric REDIS_DB")
	}
}
