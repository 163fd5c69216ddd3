package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "3000")
	}
	if cfg.Gemini.Model != "gemini-1.5-flash" {
		t.Errorf("Gemini.Model = %q, want %q", cfg.Gemini.Model, "gemini-1.5-flash")
	}
	if cfg.Scoring.Strategy != "slash-average" {
		t.Errorf("Scoring.Strategy = %q, want %q", cfg.Scoring.Strategy, "slash-average")
	}
	if cfg.Server.ReadTimeout != 120*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want %v", cfg.Server.ReadTimeout, 120*time.Second)
	}
	if cfg.Storage.MaxFileSize != 10485760 {
		t.Errorf("Storage.MaxFileSize = %d, want %d", cfg.Storage.MaxFileSize, 10485760)
	}
	if cfg.OpenRouter.Timeout != 0 {
		t.Errorf("OpenRouter.Timeout = %v, want no timeout by default", cfg.OpenRouter.Timeout)
	}
	if cfg.Database.MaxOpenConns != 10 || cfg.Database.MaxIdleConns != 5 {
		t.Errorf("Database pool = %d open / %d idle, want 10 / 5", cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	}
	if cfg.Database.ConnLifetime != 30*time.Minute {
		t.Errorf("Database.ConnLifetime = %v, want %v", cfg.Database.ConnLifetime, 30*time.Minute)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/screener.db")
	t.Setenv("SCORING_STRATEGY", "overall-label")
	t.Setenv("INDEXER_CONCURRENCY", "5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.Path != "/tmp/screener.db" {
		t.Errorf("Database = %+v, want sqlite at /tmp/screener.db", cfg.Database)
	}
	if cfg.Scoring.Strategy != "overall-label" {
		t.Errorf("Scoring.Strategy = %q, want %q", cfg.Scoring.Strategy, "overall-label")
	}
	if cfg.Indexer.Concurrency != 5 {
		t.Errorf("Indexer.Concurrency = %d, want 5", cfg.Indexer.Concurrency)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "custom.yaml")
	content := "llm:\n  provider: openrouter\nopenrouter:\n  model: test/model\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LLM.Provider != "openrouter" {
		t.Errorf("LLM.Provider = %q, want %q", cfg.LLM.Provider, "openrouter")
	}
	if cfg.OpenRouter.Model != "test/model" {
		t.Errorf("OpenRouter.Model = %q, want %q", cfg.OpenRouter.Model, "test/model")
	}
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Database: DatabaseConfig{Driver: "postgres"},
			LLM:      LLMConfig{Provider: "gemini"},
			Scoring:  ScoringConfig{Strategy: "slash-average"},
			Storage:  StorageConfig{Backend: "none"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "bad provider", mutate: func(c *Config) { c.LLM.Provider = "other" }, wantErr: true},
		{name: "bad strategy", mutate: func(c *Config) { c.Scoring.Strategy = "median" }, wantErr: true},
		{name: "bad storage", mutate: func(c *Config) { c.Storage.Backend = "ftp" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSessionLocationFallback(t *testing.T) {
	cfg := Config{Scoring: ScoringConfig{SessionTimezone: "Not/AZone"}}
	if loc := cfg.SessionLocation(); loc != time.UTC {
		t.Errorf("SessionLocation() = %v, want UTC", loc)
	}
}
