package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "DATABASE_URL", "REDIS_ADDR", "PREVIEW_BACKEND",
		"GENERATION_TIMEOUT_SECONDS", "ACCESS_CACHE_TTL_SECONDS",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// TestLoad_Defaults verifies the zero-config path.
func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Port)
	}
	if cfg.PreviewBackend != "memory" {
		t.Errorf("Expected default memory backend, got %s", cfg.PreviewBackend)
	}
	if cfg.GenTimeout != 20*time.Second {
		t.Errorf("Expected default 20s generation timeout, got %s", cfg.GenTimeout)
	}
}

// TestLoad_YAMLFile verifies file values override defaults.
func TestLoad_YAMLFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("port: \"9090\"\ngeneration_timeout_seconds: 5\naccess_cache_ttl_seconds: 0\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Expected port from file, got %s", cfg.Port)
	}
	if cfg.GenTimeout != 5*time.Second {
		t.Errorf("Expected 5s timeout from file, got %s", cfg.GenTimeout)
	}
	if cfg.CacheTTLSecs != 0 {
		t.Errorf("Expected TTL 0 from file, got %d", cfg.CacheTTLSecs)
	}
}

// TestLoad_EnvOverridesFile verifies environment variables win over the
// file.
func TestLoad_EnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: \"9090\"\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("PORT", "7070")
	t.Setenv("GENERATION_TIMEOUT_SECONDS", "3")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != "7070" {
		t.Errorf("Expected env port to win, got %s", cfg.Port)
	}
	if cfg.GenTimeout != 3*time.Second {
		t.Errorf("Expected env timeout to win, got %s", cfg.GenTimeout)
	}
}

// TestLoad_MissingFileIgnored verifies a nonexistent YAML path is not an
// error.
func TestLoad_MissingFileIgnored(t *testing.T) {
	clearConfigEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Errorf("Expected missing file ignored, got: %v", err)
	}
}

// TestLoad_BackendValidation verifies backend requirements.
func TestLoad_BackendValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"postgres without url", map[string]string{"PREVIEW_BACKEND": "postgres"}, true},
		{"postgres with url", map[string]string{"PREVIEW_BACKEND": "postgres", "DATABASE_URL": "postgres://x"}, false},
		{"redis without addr", map[string]string{"PREVIEW_BACKEND": "redis"}, true},
		{"redis with addr", map[string]string{"PREVIEW_BACKEND": "redis", "REDIS_ADDR": "localhost:6379"}, false},
		{"unknown backend", map[string]string{"PREVIEW_BACKEND": "etcd"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load("")
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}
