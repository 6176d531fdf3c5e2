package config

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestAPIKeyEnvironmentWins(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GOOGLE_API_KEY", "")

	settings.SetAPIKey("  stored-key  ")
	if got := settings.GetAPIKey(); got != "stored-key" {
		t.Errorf("Expected stored key, got %q", got)
	}
	if settings.APIKeyFromEnv() {
		t.Error("Expected no API key from the environment")
	}

	t.Setenv("GOOGLE_API_KEY", "google-key")
	if got := settings.GetAPIKey(); got != "google-key" {
		t.Errorf("Expected GOOGLE_API_KEY, got %q", got)
	}
	if !settings.APIKeyFromEnv() {
		t.Error("Expected API key from the environment")
	}

	t.Setenv("GEMINI_API_KEY", "gemini-key")
	if got := settings.GetAPIKey(); got != "gemini-key" {
		t.Errorf("Expected GEMINI_API_KEY to take precedence, got %q", got)
	}
}

func TestModels(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetTextModel() != DefaultTextModel {
		t.Errorf("Expected default text model %s, got %s", DefaultTextModel, settings.GetTextModel())
	}
	if settings.GetImageModel() != DefaultImageModel {
		t.Errorf("Expected default image model %s, got %s", DefaultImageModel, settings.GetImageModel())
	}

	settings.SetTextModel("gemini-2.5-pro")
	settings.SetImageModel("imagen-4.0-generate-001")
	if settings.GetTextModel() != "gemini-2.5-pro" || settings.GetImageModel() != "imagen-4.0-generate-001" {
		t.Error("Expected custom models to be stored")
	}

	settings.SetTextModel(" ")
	if settings.GetTextModel() != DefaultTextModel {
		t.Error("Empty text model should restore the default")
	}
}

func TestBackend(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)
	t.Setenv(ProjectEnvVar, "")
	t.Setenv(LocationEnvVar, "")

	if settings.GetBackend() != DefaultBackend {
		t.Errorf("Expected default backend %s, got %s", DefaultBackend, settings.GetBackend())
	}

	settings.SetBackend("unknown")
	if settings.GetBackend() != DefaultBackend {
		t.Error("Unknown backend should fall back to the default")
	}

	settings.SetBackend(BackendVertex)
	settings.SetVertexProject("my-project")
	settings.SetVertexLocation("")
	if settings.GetBackend() != BackendVertex {
		t.Errorf("Expected vertex backend, got %s", settings.GetBackend())
	}
	if settings.GetVertexProject() != "my-project" {
		t.Errorf("Expected my-project, got %s", settings.GetVertexProject())
	}
	if settings.GetVertexLocation() != DefaultVertexLocation {
		t.Errorf("Expected default location, got %s", settings.GetVertexLocation())
	}

	t.Setenv(ProjectEnvVar, "env-project")
	if settings.GetVertexProject() != "env-project" {
		t.Error("Environment project should take precedence")
	}
}

func TestTemplates(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	templates := settings.GetTemplates()
	if templates.Orchestrator != DefaultOrchestratorInstruction {
		t.Error("Expected default orchestrator instruction")
	}
	if templates.Frame != DefaultFrameInstruction {
		t.Error("Expected default frame instruction")
	}

	settings.SetOrchestratorInstruction("Direct a tiny film.")
	settings.SetFrameInstruction("{prompt} step {frame}")
	templates = settings.GetTemplates()
	if templates.Orchestrator != "Direct a tiny film." {
		t.Errorf("Expected custom orchestrator, got %q", templates.Orchestrator)
	}
	if got := templates.FramePrompt("cat", 2, 8); got != "cat step 2" {
		t.Errorf("Expected 'cat step 2', got %q", got)
	}

	settings.SetFrameInstruction("   ")
	if settings.GetFrameInstruction() != DefaultFrameInstruction {
		t.Error("Blank frame instruction should restore the default")
	}

	settings.SetOrchestratorInstruction("custom")
	settings.ResetTemplates()
	if settings.GetOrchestratorInstruction() != DefaultOrchestratorInstruction {
		t.Error("ResetTemplates should restore the default orchestrator instruction")
	}
}

func TestDefaultFrameInstructionPlaceholders(t *testing.T) {
	for _, placeholder := range []string{"{prompt}", "{frame}", "{total}"} {
		if !strings.Contains(DefaultFrameInstruction, placeholder) {
			t.Errorf("Default frame instruction is missing %s", placeholder)
		}
	}
}

func TestClampedIntegers(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	tests := []struct {
		name     string
		get      func() int
		set      func(int)
		in, want int
	}{
		{"frame count in range", settings.GetFrameCount, settings.SetFrameCount, 12, 12},
		{"frame count low", settings.GetFrameCount, settings.SetFrameCount, 1, MinFrameCount},
		{"frame count high", settings.GetFrameCount, settings.SetFrameCount, 40, MaxFrameCount},
		{"fps in range", settings.GetFPS, settings.SetFPS, 12, 12},
		{"fps low", settings.GetFPS, settings.SetFPS, 0, MinFPS},
		{"fps high", settings.GetFPS, settings.SetFPS, 120, MaxFPS},
		{"attempts low", settings.GetMaxAttempts, settings.SetMaxAttempts, 0, MinMaxAttempts},
		{"attempts high", settings.GetMaxAttempts, settings.SetMaxAttempts, 9, MaxMaxAttempts},
		{"rate off", settings.GetImagesPerMinute, settings.SetImagesPerMinute, -1, 0},
		{"rate high", settings.GetImagesPerMinute, settings.SetImagesPerMinute, 1000, MaxImagesPerMinute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.set(tt.in)
			if got := tt.get(); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestStoredValuesAreClamped(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)
	prefs := app.Preferences()

	tests := []struct {
		name string
		key  string
		raw  int
		get  func() int
		want int
	}{
		{"frame count low", KeyFrameCount, 1, settings.GetFrameCount, MinFrameCount},
		{"frame count high", KeyFrameCount, 99, settings.GetFrameCount, MaxFrameCount},
		{"fps low", KeyFPS, 0, settings.GetFPS, MinFPS},
		{"fps high", KeyFPS, 500, settings.GetFPS, MaxFPS},
		{"attempts low", KeyMaxAttempts, -3, settings.GetMaxAttempts, MinMaxAttempts},
		{"attempts high", KeyMaxAttempts, 50, settings.GetMaxAttempts, MaxMaxAttempts},
		{"rate negative", KeyImagesPerMinute, -10, settings.GetImagesPerMinute, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prefs.SetInt(tt.key, tt.raw)
			if got := tt.get(); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}

	prefs.SetFloat(KeyTemperature, 7.5)
	if got := settings.GetTemperature(); got != MaxTemperature {
		t.Errorf("Expected temperature %v, got %v", MaxTemperature, got)
	}
}

func TestDefaults(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetFrameCount() != 8 {
		t.Errorf("Expected 8 frames, got %d", settings.GetFrameCount())
	}
	if settings.GetFPS() != 4 {
		t.Errorf("Expected 4 fps, got %d", settings.GetFPS())
	}
	if settings.GetMaxAttempts() != 3 {
		t.Errorf("Expected 3 attempts, got %d", settings.GetMaxAttempts())
	}
	if settings.GetCanvasSize() != 1024 {
		t.Errorf("Expected 1024 canvas, got %d", settings.GetCanvasSize())
	}
	if settings.GetTemperature() != 1.0 {
		t.Errorf("Expected temperature 1.0, got %v", settings.GetTemperature())
	}
	if settings.GetOutputFormat() != FormatGIF {
		t.Errorf("Expected gif, got %s", settings.GetOutputFormat())
	}
}

func TestCanvasSize(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	settings.SetCanvasSize(512)
	if settings.GetCanvasSize() != 512 {
		t.Errorf("Expected 512, got %d", settings.GetCanvasSize())
	}

	settings.SetCanvasSize(333)
	if settings.GetCanvasSize() != DefaultCanvasSize {
		t.Errorf("Unsupported size should fall back to %d, got %d", DefaultCanvasSize, settings.GetCanvasSize())
	}
}

func TestTemperature(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	settings.SetTemperature(0.5)
	if settings.GetTemperature() != 0.5 {
		t.Errorf("Expected 0.5, got %v", settings.GetTemperature())
	}
	settings.SetTemperature(5)
	if settings.GetTemperature() != MaxTemperature {
		t.Errorf("Expected clamp to %v, got %v", MaxTemperature, settings.GetTemperature())
	}
	settings.SetTemperature(-1)
	if settings.GetTemperature() != MinTemperature {
		t.Errorf("Expected clamp to %v, got %v", MinTemperature, settings.GetTemperature())
	}
}

func TestOutputFormat(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	settings.SetOutputFormat(FormatAPNG)
	if settings.GetOutputFormat() != FormatAPNG {
		t.Errorf("Expected apng, got %s", settings.GetOutputFormat())
	}

	settings.SetOutputFormat("webm")
	if settings.GetOutputFormat() != DefaultOutputFormat {
		t.Errorf("Unknown format should fall back to %s", DefaultOutputFormat)
	}

	options := settings.GetOutputFormatOptions()
	if len(options) != 2 || options[0] != FormatGIF || options[1] != FormatAPNG {
		t.Errorf("Unexpected format options %v", options)
	}
}

func TestOutputDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	dir := settings.GetOutputDirectory()
	if dir == "" {
		t.Error("Output directory should not be empty")
	}

	customDir := "/custom/animations"
	settings.SetOutputDirectory(customDir)

	if got := settings.GetOutputDirectory(); got != customDir {
		t.Errorf("Expected output directory %s, got %s", customDir, got)
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	lang := settings.GetLanguage()
	if lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	settings.SetLanguage("en")

	if got := settings.GetLanguage(); got != "en" {
		t.Errorf("Expected language 'en', got %s", got)
	}
}

func TestGetLanguageOptions(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	options := settings.GetLanguageOptions()

	expectedLangs := []string{"system", "en", "ru", "pt"}
	for _, lang := range expectedLangs {
		if _, exists := options[lang]; !exists {
			t.Errorf("Expected language option '%s' to exist", lang)
		}
	}

	if len(options) != len(expectedLangs) {
		t.Errorf("Expected %d language options, got %d", len(expectedLangs), len(options))
	}
}

func TestAutoRevealOnSave(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.GetAutoRevealOnSave() != DefaultAutoRevealSaved {
		t.Error("Expected default auto reveal setting")
	}
	settings.SetAutoRevealOnSave(true)
	if !settings.GetAutoRevealOnSave() {
		t.Error("Expected auto reveal to be enabled")
	}
}
