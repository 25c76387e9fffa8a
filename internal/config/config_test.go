package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %q, want the local default", cfg.API.BaseURL)
	}
	if cfg.API.Version != "v1" {
		t.Errorf("Version = %q, want v1", cfg.API.Version)
	}
	if cfg.API.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", cfg.API.Timeout)
	}
	if cfg.Storage.Path == "" {
		t.Error("Storage.Path is empty")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MOBILEARN_API_BASE_URL", "https://api.mobilearn.app")
	t.Setenv("MOBILEARN_API_VERSION", "v2")
	t.Setenv("MOBILEARN_API_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.API.BaseURL != "https://api.mobilearn.app" {
		t.Errorf("BaseURL = %q, want env override", cfg.API.BaseURL)
	}
	if cfg.API.Version != "v2" {
		t.Errorf("Version = %q, want v2", cfg.API.Version)
	}
	if cfg.API.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.API.Timeout)
	}
}
