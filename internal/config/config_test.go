package config

import (
	"testing"
)

func validConfig() *Config {
	return &Config{
		Port:       "8080",
		DBPath:     "test.db",
		DataDir:    "/tmp/musicplayer",
		APIBaseURL: "http://127.0.0.1:8000/api",
		Quality:    27,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port == "" {
		t.Error("Expected default port to be set")
	}
	if cfg.DBPath == "" {
		t.Error("Expected default db path to be set")
	}
	if cfg.APIBaseURL == "" {
		t.Error("Expected default API base URL to be set")
	}
	if cfg.Quality == 0 {
		t.Error("Expected default quality to be set")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("QUALITY", "5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if cfg.Quality != 5 {
		t.Errorf("Expected quality 5, got %d", cfg.Quality)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected debug log level, got %s", cfg.LogLevel)
	}
}

func TestLoadIgnoresBadInt(t *testing.T) {
	t.Setenv("QUALITY", "lossless")

	cfg := Load()
	if cfg.Quality != 27 {
		t.Errorf("Expected fallback quality 27, got %d", cfg.Quality)
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Expected valid config, got error: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"non-numeric port", func(c *Config) { c.Port = "abc" }},
		{"port out of range", func(c *Config) { c.Port = "70000" }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"empty data dir", func(c *Config) { c.DataDir = "" }},
		{"empty api url", func(c *Config) { c.APIBaseURL = "" }},
		{"negative quality", func(c *Config) { c.Quality = -1 }},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}
