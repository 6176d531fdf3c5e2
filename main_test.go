package main

import (
	"log/slog"
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/magic-animator/internal/animation"
	"github.com/ytget/magic-animator/internal/config"
	"github.com/ytget/magic-animator/internal/gemini"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" DEBUG ", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q): expected %v, got %v", tt.input, tt.want, got)
		}
	}
}

func TestGeminiConfigFromSettings(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv(config.ProjectEnvVar, "")
	t.Setenv(config.LocationEnvVar, "")

	settings := config.NewSettings(test.NewTempApp(t))
	settings.SetAPIKey("stored-key")
	settings.SetBackend(config.BackendVertex)
	settings.SetVertexProject("animator-project")
	settings.SetImagesPerMinute(12)

	cfg := geminiConfig(settings)
	if cfg.APIKey != "stored-key" {
		t.Errorf("Expected stored API key, got %q", cfg.APIKey)
	}
	if cfg.Backend != gemini.BackendVertex {
		t.Errorf("Expected vertex backend, got %s", cfg.Backend)
	}
	if cfg.Project != "animator-project" {
		t.Errorf("Expected project animator-project, got %s", cfg.Project)
	}
	if cfg.Location != config.DefaultVertexLocation {
		t.Errorf("Expected location %s, got %s", config.DefaultVertexLocation, cfg.Location)
	}
	if cfg.ImagesPerMinute != 12 {
		t.Errorf("Expected 12 images per minute, got %d", cfg.ImagesPerMinute)
	}
}

func TestGeminiBackend(t *testing.T) {
	tests := []struct {
		stored string
		want   string
	}{
		{config.BackendGemini, gemini.BackendGemini},
		{config.BackendVertex, gemini.BackendVertex},
		{"", gemini.BackendGemini},
	}

	for _, tt := range tests {
		if got := geminiBackend(tt.stored); got != tt.want {
			t.Errorf("geminiBackend(%q): expected %q, got %q", tt.stored, tt.want, got)
		}
	}
}

func TestAnimationOptionsFromSettings(t *testing.T) {
	settings := config.NewSettings(test.NewTempApp(t))

	opts := animationOptions(settings)
	if opts.Format != animation.FormatGIF || opts.FPS != config.DefaultFPS || opts.Size != config.DefaultCanvasSize {
		t.Errorf("Expected default gif options, got %+v", opts)
	}

	settings.SetOutputFormat(config.FormatAPNG)
	settings.SetFPS(12)
	settings.SetCanvasSize(512)

	opts = animationOptions(settings)
	if opts.Format != animation.FormatAPNG {
		t.Errorf("Expected apng format, got %s", opts.Format)
	}
	if opts.FPS != 12 || opts.Size != 512 {
		t.Errorf("Expected 12 fps at 512px, got %+v", opts)
	}
}
