package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"PORT", "ENV", "AI_MOCK_MODE", "AI_TIMEOUT", "AI_MAX_RETRIES", "AI_RETRY_DELAY", "RESUME_STORE", "OLLAMA_BASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected development env, got %s", cfg.Env)
	}
	if cfg.AIMockMode {
		t.Fatalf("expected mock mode off by default")
	}
	if cfg.AITimeout != 60*time.Second || cfg.AIMaxRetries != 3 || cfg.AIRetryDelay != time.Second {
		t.Fatalf("unexpected generation defaults: %+v", cfg)
	}
	if cfg.ResumeStore != "memory" {
		t.Fatalf("expected memory store, got %s", cfg.ResumeStore)
	}
	if cfg.OllamaBaseURL != "http://localhost:11434" {
		t.Fatalf("unexpected ollama url %s", cfg.OllamaBaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("AI_MOCK_MODE", "true")
	t.Setenv("AI_RETRY_DELAY", "250")
	t.Setenv("AI_TIMEOUT", "90s")
	t.Setenv("RESUME_STORE", "MongoDB")
	t.Setenv("API_PREFIX", "api/v2/")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434/")

	cfg := Load()
	if !cfg.IsProduction() {
		t.Fatalf("expected production, got %s", cfg.Env)
	}
	if !cfg.AIMockMode {
		t.Fatalf("expected mock mode on")
	}
	if cfg.AIRetryDelay != 250*time.Millisecond {
		t.Fatalf("expected 250ms retry delay, got %s", cfg.AIRetryDelay)
	}
	if cfg.AITimeout != 90*time.Second {
		t.Fatalf("expected 90s timeout, got %s", cfg.AITimeout)
	}
	if cfg.ResumeStore != "mongo" {
		t.Fatalf("expected mongo store, got %s", cfg.ResumeStore)
	}
	if cfg.APIPrefix != "/api/v2" {
		t.Fatalf("expected /api/v2, got %s", cfg.APIPrefix)
	}
	if cfg.OllamaBaseURL != "http://ollama:11434" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.OllamaBaseURL)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("OLLAMA_MODEL", "")
	os.Unsetenv("OLLAMA_MODEL")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("OLLAMA_MODEL=mistral\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg := Load()
	if cfg.OllamaModel != "mistral" {
		t.Fatalf("expected model from .env, got %s", cfg.OllamaModel)
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
