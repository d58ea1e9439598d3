package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"PORT", "NODE_ENV", "API_VERSION", "SOLICITUD_SCHEMA", "FIREBASE_PROJECT_ID",
		"FIREBASE_STORAGE_BUCKET", "STORE_DRIVER", "BLOB_DRIVER", "AUTH_PROVIDER",
		"JWT_SECRET", "RATE_LIMIT_SOLICITUD_MAX", "RATE_LIMIT_SOLICITUD_WINDOW", "PDF_RENDERER",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Expected port 3000, got %s", cfg.Port)
	}
	if cfg.BasePath() != "/api/v2" {
		t.Errorf("Expected base path /api/v2, got %s", cfg.BasePath())
	}
	if cfg.SolicitudSchema != "negocio" {
		t.Errorf("Expected schema negocio, got %s", cfg.SolicitudSchema)
	}
	if cfg.StoreDriver != "memory" || cfg.BlobDriver != "local" || cfg.AuthProvider != "local" {
		t.Errorf("Expected local drivers without Firebase, got %s/%s/%s", cfg.StoreDriver, cfg.BlobDriver, cfg.AuthProvider)
	}
	if cfg.SolicitudRate.Max != 5 || cfg.SolicitudRate.Window != time.Minute {
		t.Errorf("Unexpected solicitud rate rule: %+v", cfg.SolicitudRate)
	}
	if cfg.RegisterRate.Window != time.Hour {
		t.Errorf("Expected register window 1h, got %s", cfg.RegisterRate.Window)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_VERSION", "v1")
	t.Setenv("RATE_LIMIT_SOLICITUD_MAX", "3")
	t.Setenv("RATE_LIMIT_SOLICITUD_WINDOW", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SolicitudSchema != "credito" {
		t.Errorf("Expected schema credito for v1, got %s", cfg.SolicitudSchema)
	}
	if cfg.SolicitudRate.Max != 3 || cfg.SolicitudRate.Window != 30*time.Second {
		t.Errorf("Unexpected solicitud rate rule: %+v", cfg.SolicitudRate)
	}
}

func TestLoadProductionRequiresSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "production")

	if _, err := Load(); err == nil {
		t.Error("Expected error for local auth provider without JWT_SECRET in production")
	}
}

func TestRateRuleEnabled(t *testing.T) {
	if (RateRule{Max: 0, Window: time.Minute}).Enabled() {
		t.Error("Max=0 should disable the rule")
	}
	if !(RateRule{Max: 1, Window: time.Second}).Enabled() {
		t.Error("Expected rule to be enabled")
	}
}
