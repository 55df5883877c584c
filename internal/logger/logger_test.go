package logger

import (
	"testing"
)

func TestNew(t *testing.T) {
	cfg := Config{
		Level:  "info",
		Format: "text",
	}
	logger := New(cfg)
	if logger == nil {
		t.Error("Expected logger to not be nil")
	}

	cfg.Format = "json"
	logger = New(cfg)
	if logger == nil {
		t.Error("Expected logger to not be nil")
	}

	// Invalid level should default to info
	cfg.Level = "invalid"
	logger = New(cfg)
	if logger == nil {
		t.Error("Expected logger to not be nil")
	}
}

func TestWithComponent(t *testing.T) {
	logger := Default()
	componentLogger := logger.WithComponent("store")

	if componentLogger == nil {
		t.Error("Expected component logger to not be nil")
	}

	nested := componentLogger.WithComponent("store.playlists")
	if nested == nil {
		t.Error("Expected nested component logger to not be nil")
	}
}

func TestWithSong(t *testing.T) {
	logger := Default()
	songLogger := logger.WithSong("track-456", "Test Song")

	if songLogger == nil {
		t.Error("Expected song logger to not be nil")
	}
}

func TestWithPlaylist(t *testing.T) {
	logger := Default()
	plLogger := logger.WithPlaylist(0)

	if plLogger == nil {
		t.Error("Expected playlist logger to not be nil")
	}
}

func TestLogLevels(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error"}

	for _, level := range levels {
		cfg := Config{
			Level:  level,
			Format: "text",
		}
		logger := New(cfg)
		if logger == nil {
			t.Errorf("Expected logger to not be nil for level %s", level)
		}
	}
}
