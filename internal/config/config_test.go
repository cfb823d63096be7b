package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("ENVIRONMENT")
	os.Unsetenv("PORT")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Database.Name != "task_tracker" {
		t.Errorf("Expected default database name task_tracker, got %s", cfg.Database.Name)
	}
	if cfg.Auth.AccessTokenTTL != time.Hour {
		t.Errorf("Expected default access token TTL of 1h, got %v", cfg.Auth.AccessTokenTTL)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("Expected rate limiting to be enabled by default")
	}
	if cfg.IsProduction() {
		t.Error("Expected development environment by default")
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("DB_MAX_OPEN_CONNS", "50")
	os.Setenv("ACCESS_TOKEN_TTL", "15m")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("DB_MAX_OPEN_CONNS")
		os.Unsetenv("ACCESS_TOKEN_TTL")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Database.MaxOpenConns != 50 {
		t.Errorf("Expected 50 max open conns, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Auth.AccessTokenTTL != 15*time.Minute {
		t.Errorf("Expected 15m access token TTL, got %v", cfg.Auth.AccessTokenTTL)
	}
}

func TestLoadConfigProductionGuards(t *testing.T) {
	os.Setenv("ENVIRONMENT", "production")
	os.Unsetenv("DB_PASSWORD")
	os.Unsetenv("JWT_SECRET")
	defer os.Unsetenv("ENVIRONMENT")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for missing database password in production")
	}

	os.Setenv("DB_PASSWORD", "secret")
	defer os.Unsetenv("DB_PASSWORD")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for default JWT secret in production")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	os.Unsetenv("ENVIRONMENT")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	dsn := cfg.GetDatabaseDSN()
	expected := "host=localhost port=5432 user=postgres password= dbname=task_tracker sslmode=disable"
	if dsn != expected {
		t.Errorf("Expected DSN %q, got %q", expected, dsn)
	}
}
