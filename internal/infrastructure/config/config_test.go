package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV", "development")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port, got %q", cfg.Port)
	}
	if cfg.Dispatch.Workers != 8 {
		t.Errorf("expected 8 workers, got %d", cfg.Dispatch.Workers)
	}
	if cfg.Dispatch.DedupTTL != 168*time.Hour {
		t.Errorf("unexpected dedup ttl %s", cfg.Dispatch.DedupTTL)
	}
	if cfg.Email.Timeout != 10*time.Second {
		t.Errorf("unexpected email timeout %s", cfg.Email.Timeout)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_DB", "hires_test")
	t.Setenv("EMAIL_TIMEOUT", "3s")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.Mongo.Database != "hires_test" || cfg.Email.Timeout != 3*time.Second {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected an error without JWT_SECRET in production")
	}
}
