package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOTPEPPER_API_KEY", "secret")
	t.Setenv("PORT", "8081")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider.APIKey != "secret" {
		t.Fatalf("expected api key from env, got %q", cfg.Provider.APIKey)
	}
	if cfg.Server.Port != 8081 {
		t.Fatalf("expected port 8081, got %d", cfg.Server.Port)
	}
	if cfg.Search.DefaultArea != "Z098" || cfg.Search.DefaultCount != 10 || cfg.Search.MaxCount != 100 {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Fatalf("expected cache ttl 1m, got %s", cfg.Cache.TTL)
	}
	if cfg.Provider.Timeout != 0 {
		t.Fatalf("expected no provider timeout override, got %s", cfg.Provider.Timeout)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.Mkdir(filepath.Join(dir, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	yml := "search:\n  default_area: Z011\n  strict_params: true\ncache:\n  ttl: 5s\n"
	if err := os.WriteFile(filepath.Join(dir, "configs", "config.yml"), []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Search.DefaultArea != "Z011" || !cfg.Search.StrictParams {
		t.Fatalf("config file not applied: %+v", cfg.Search)
	}
	if cfg.Cache.TTL != 5*time.Second {
		t.Fatalf("expected 5s cache ttl, got %s", cfg.Cache.TTL)
	}
	if cfg.Provider.APIKey != "" {
		t.Fatalf("expected empty api key, got %q", cfg.Provider.APIKey)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}
