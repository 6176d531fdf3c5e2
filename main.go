package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/lmittmann/tint"
	_ "go.uber.org/automaxprocs"

	"github.com/ytget/magic-animator/internal/animation"
	"github.com/ytget/magic-animator/internal/config"
	"github.com/ytget/magic-animator/internal/export"
	"github.com/ytget/magic-animator/internal/gemini"
	"github.com/ytget/magic-animator/internal/generate"
	"github.com/ytget/magic-animator/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.magic-animator"
	AppName = "Magic Animator"

	WindowWidth  = 960
	WindowHeight = 720

	// LogLevelEnvVar accepts debug, info, warn or error
	LogLevelEnvVar = "MAGIC_ANIMATOR_LOG_LEVEL"
	LogTimeFormat  = "15:04:05"
)

func main() {
	logger := newLogger(os.Getenv(LogLevelEnvVar))
	slog.SetDefault(logger)
	logger.Info("starting", "app", AppName, "version", version)

	// Create new Fyne app
	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewAnimatorTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	// Initialize services
	settings := config.NewSettings(myApp)
	client := gemini.NewClient(geminiConfig(settings), logger)
	assembler := animation.NewAssembler(animationOptions(settings), logger)
	generator := generate.NewService(client, client, assembler, logger)
	exporter := export.NewService(logger)

	// Cancelled only when the app stops
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	myApp.Lifecycle().SetOnStopped(cancel)

	// Create and setup UI
	ui.NewRootUI(ctx, myWindow, settings, generator, exporter, func(s *config.Settings) {
		client.Configure(geminiConfig(s))
		assembler.Configure(animationOptions(s))
		logger.Info("services reconfigured", "backend", s.GetBackend(), "format", s.GetOutputFormat())
	})

	// Show and run
	myWindow.ShowAndRun()
}

// newLogger builds the tint handler; it also becomes the sink of the standard log package
func newLogger(level string) *slog.Logger {
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      parseLevel(level),
		TimeFormat: LogTimeFormat,
	}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// geminiConfig builds the model client configuration from the stored settings
func geminiConfig(s *config.Settings) gemini.Config {
	return gemini.Config{
		APIKey:          s.GetAPIKey(),
		Backend:         geminiBackend(s.GetBackend()),
		Project:         s.GetVertexProject(),
		Location:        s.GetVertexLocation(),
		ImagesPerMinute: s.GetImagesPerMinute(),
	}
}

// geminiBackend maps the stored backend choice onto the client's backend names
func geminiBackend(backend string) string {
	if backend == config.BackendVertex {
		return gemini.BackendVertex
	}
	return gemini.BackendGemini
}

// animationOptions builds the assembler options from the stored settings
func animationOptions(s *config.Settings) animation.Options {
	format := animation.FormatGIF
	if s.GetOutputFormat() == config.FormatAPNG {
		format = animation.FormatAPNG
	}
	return animation.Options{
		FPS:    s.GetFPS(),
		Size:   s.GetCanvasSize(),
		Format: format,
	}
}
