package config

import (
	"os"
	"strings"

	"fyne.io/fyne/v2"

	"github.com/ytget/magic-animator/internal/model"
	"github.com/ytget/magic-animator/internal/platform"
)

// OutputFormat selects the animation container
type OutputFormat string

const (
	FormatGIF  OutputFormat = "gif"
	FormatAPNG OutputFormat = "apng"
)

// Settings keys for Fyne preferences
const (
	KeyAPIKey                  = "api_key"
	KeyBackend                 = "backend"
	KeyVertexProject           = "vertex_project"
	KeyVertexLocation          = "vertex_location"
	KeyTextModel               = "text_model"
	KeyImageModel              = "image_model"
	KeyOrchestratorInstruction = "orchestrator_instruction"
	KeyFrameInstruction        = "frame_instruction"
	KeyFrameCount              = "frame_count"
	KeyFPS                     = "fps"
	KeyCanvasSize              = "canvas_size"
	KeyMaxAttempts             = "max_attempts"
	KeyTemperature             = "temperature"
	KeyImagesPerMinute         = "images_per_minute"
	KeyOutputFormat            = "output_format"
	KeyOutputDir               = "output_directory"
	KeyLanguage                = "app_language"
	KeyAutoRevealSaved         = "auto_reveal_on_save"
)

// Environment variables consulted before stored values
var (
	APIKeyEnvVars  = []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"}
	ProjectEnvVar  = "GOOGLE_CLOUD_PROJECT"
	LocationEnvVar = "GOOGLE_CLOUD_LOCATION"
)

// Model backends
const (
	BackendGemini = "gemini"
	BackendVertex = "vertex"
)

// Default values
const (
	DefaultBackend         = BackendGemini
	DefaultVertexLocation  = "us-central1"
	DefaultTextModel       = "gemini-2.0-flash"
	DefaultImageModel      = "imagen-3.0-generate-002"
	DefaultFrameCount      = 8
	DefaultFPS             = 4
	DefaultCanvasSize      = 1024
	DefaultMaxAttempts     = 3
	DefaultTemperature     = 1.0
	DefaultImagesPerMinute = 20
	DefaultOutputFormat    = FormatGIF
	DefaultLanguage        = "system"
	DefaultAutoRevealSaved = false

	DefaultOrchestratorInstruction = `You are an animation director. Expand the user's short idea into one detailed ` +
		`visual description for a short looping animation. Describe the subject, the art style, the color ` +
		`palette, the camera framing and the lighting, then describe how the scene changes from the first ` +
		`frame to the last. Keep the subject, style and framing fixed so every frame belongs to the same ` +
		`sequence. Answer with the description only.`

	DefaultFrameInstruction = `Create frame {frame} of {total} of an animated sequence. ` +
		`Animation description: {prompt}. ` +
		`Draw exactly the moment at step {frame} of {total}: keep the same subject, style, composition, ` +
		`background and camera angle as the other frames and show only the change expected at this step. ` +
		`No text, no borders, no frame numbers.`
)

// Limits
const (
	MinFrameCount      = 2
	MaxFrameCount      = 16
	MinFPS             = 1
	MaxFPS             = 30
	MinMaxAttempts     = 1
	MaxMaxAttempts     = 5
	MinTemperature     = 0.0
	MaxTemperature     = 2.0
	MaxImagesPerMinute = 120
)

// Settings manages application configuration
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetAPIKey returns the API key from the environment, falling back to the stored key
func (s *Settings) GetAPIKey() string {
	if key := envAPIKey(); key != "" {
		return key
	}
	return s.app.Preferences().String(KeyAPIKey)
}

// APIKeyFromEnv reports whether an environment variable supplies the API key
func (s *Settings) APIKeyFromEnv() bool {
	return envAPIKey() != ""
}

func envAPIKey() string {
	for _, name := range APIKeyEnvVars {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key
		}
	}
	return ""
}

// SetAPIKey stores the API key
func (s *Settings) SetAPIKey(key string) {
	s.app.Preferences().SetString(KeyAPIKey, strings.TrimSpace(key))
}

// GetBackend returns the model backend, gemini or vertex
func (s *Settings) GetBackend() string {
	switch backend := s.app.Preferences().String(KeyBackend); backend {
	case BackendGemini, BackendVertex:
		return backend
	default:
		return DefaultBackend
	}
}

// SetBackend sets the model backend
func (s *Settings) SetBackend(backend string) {
	s.app.Preferences().SetString(KeyBackend, backend)
}

// GetBackendOptions returns available model backends
func (s *Settings) GetBackendOptions() []string {
	return []string{BackendGemini, BackendVertex}
}

// GetVertexProject returns the Vertex AI project from the environment or preferences
func (s *Settings) GetVertexProject() string {
	if project := strings.TrimSpace(os.Getenv(ProjectEnvVar)); project != "" {
		return project
	}
	return s.app.Preferences().String(KeyVertexProject)
}

// SetVertexProject stores the Vertex AI project
func (s *Settings) SetVertexProject(project string) {
	s.app.Preferences().SetString(KeyVertexProject, strings.TrimSpace(project))
}

// GetVertexLocation returns the Vertex AI location from the environment or preferences
func (s *Settings) GetVertexLocation() string {
	if location := strings.TrimSpace(os.Getenv(LocationEnvVar)); location != "" {
		return location
	}
	return s.app.Preferences().StringWithFallback(KeyVertexLocation, DefaultVertexLocation)
}

// SetVertexLocation stores the Vertex AI location
func (s *Settings) SetVertexLocation(location string) {
	location = strings.TrimSpace(location)
	if location == "" {
		location = DefaultVertexLocation
	}
	s.app.Preferences().SetString(KeyVertexLocation, location)
}

// GetTextModel returns the model used for prompt expansion
func (s *Settings) GetTextModel() string {
	return s.app.Preferences().StringWithFallback(KeyTextModel, DefaultTextModel)
}

// SetTextModel sets the prompt expansion model; empty restores the default
func (s *Settings) SetTextModel(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultTextModel
	}
	s.app.Preferences().SetString(KeyTextModel, name)
}

// GetImageModel returns the model used for frame generation
func (s *Settings) GetImageModel() string {
	return s.app.Preferences().StringWithFallback(KeyImageModel, DefaultImageModel)
}

// SetImageModel sets the frame generation model; empty restores the default
func (s *Settings) SetImageModel(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultImageModel
	}
	s.app.Preferences().SetString(KeyImageModel, name)
}

// GetOrchestratorInstruction returns the prompt expansion instruction
func (s *Settings) GetOrchestratorInstruction() string {
	text := s.app.Preferences().String(KeyOrchestratorInstruction)
	if strings.TrimSpace(text) == "" {
		return DefaultOrchestratorInstruction
	}
	return text
}

// SetOrchestratorInstruction sets the prompt expansion instruction
func (s *Settings) SetOrchestratorInstruction(text string) {
	if strings.TrimSpace(text) == "" {
		text = DefaultOrchestratorInstruction
	}
	s.app.Preferences().SetString(KeyOrchestratorInstruction, text)
}

// GetFrameInstruction returns the per-frame instruction template
func (s *Settings) GetFrameInstruction() string {
	text := s.app.Preferences().String(KeyFrameInstruction)
	if strings.TrimSpace(text) == "" {
		return DefaultFrameInstruction
	}
	return text
}

// SetFrameInstruction sets the per-frame instruction template
func (s *Settings) SetFrameInstruction(text string) {
	if strings.TrimSpace(text) == "" {
		text = DefaultFrameInstruction
	}
	s.app.Preferences().SetString(KeyFrameInstruction, text)
}

// GetTemplates returns both instructions as read at the start of a run
func (s *Settings) GetTemplates() model.Templates {
	return model.Templates{
		Orchestrator: s.GetOrchestratorInstruction(),
		Frame:        s.GetFrameInstruction(),
	}
}

// ResetTemplates restores both instructions to their defaults
func (s *Settings) ResetTemplates() {
	s.app.Preferences().RemoveValue(KeyOrchestratorInstruction)
	s.app.Preferences().RemoveValue(KeyFrameInstruction)
}

// GetFrameCount returns the number of frames per run
func (s *Settings) GetFrameCount() int {
	return clamp(s.app.Preferences().IntWithFallback(KeyFrameCount, DefaultFrameCount), MinFrameCount, MaxFrameCount)
}

// SetFrameCount sets the number of frames per run
func (s *Settings) SetFrameCount(count int) {
	s.app.Preferences().SetInt(KeyFrameCount, clamp(count, MinFrameCount, MaxFrameCount))
}

// GetFPS returns the animation frame rate
func (s *Settings) GetFPS() int {
	return clamp(s.app.Preferences().IntWithFallback(KeyFPS, DefaultFPS), MinFPS, MaxFPS)
}

// SetFPS sets the animation frame rate
func (s *Settings) SetFPS(fps int) {
	s.app.Preferences().SetInt(KeyFPS, clamp(fps, MinFPS, MaxFPS))
}

// GetCanvasSize returns the square canvas edge in pixels
func (s *Settings) GetCanvasSize() int {
	size := s.app.Preferences().IntWithFallback(KeyCanvasSize, DefaultCanvasSize)
	for _, option := range s.GetCanvasSizeOptions() {
		if option == size {
			return size
		}
	}
	return DefaultCanvasSize
}

// SetCanvasSize sets the canvas edge; unsupported sizes fall back to the default
func (s *Settings) SetCanvasSize(size int) {
	for _, option := range s.GetCanvasSizeOptions() {
		if option == size {
			s.app.Preferences().SetInt(KeyCanvasSize, size)
			return
		}
	}
	s.app.Preferences().SetInt(KeyCanvasSize, DefaultCanvasSize)
}

// GetCanvasSizeOptions returns the supported canvas sizes
func (s *Settings) GetCanvasSizeOptions() []int {
	return []int{256, 512, 1024}
}

// GetMaxAttempts returns how many times a run is attempted before giving up
func (s *Settings) GetMaxAttempts() int {
	return clamp(s.app.Preferences().IntWithFallback(KeyMaxAttempts, DefaultMaxAttempts), MinMaxAttempts, MaxMaxAttempts)
}

// SetMaxAttempts sets the attempt limit
func (s *Settings) SetMaxAttempts(attempts int) {
	s.app.Preferences().SetInt(KeyMaxAttempts, clamp(attempts, MinMaxAttempts, MaxMaxAttempts))
}

// GetTemperature returns the sampling temperature of the expansion call
func (s *Settings) GetTemperature() float32 {
	temperature := s.app.Preferences().FloatWithFallback(KeyTemperature, DefaultTemperature)
	return float32(min(max(temperature, MinTemperature), MaxTemperature))
}

// SetTemperature sets the sampling temperature
func (s *Settings) SetTemperature(temperature float64) {
	if temperature < MinTemperature {
		temperature = MinTemperature
	}
	if temperature > MaxTemperature {
		temperature = MaxTemperature
	}
	s.app.Preferences().SetFloat(KeyTemperature, temperature)
}

// GetImagesPerMinute returns the image request rate limit, 0 disables it
func (s *Settings) GetImagesPerMinute() int {
	return clamp(s.app.Preferences().IntWithFallback(KeyImagesPerMinute, DefaultImagesPerMinute), 0, MaxImagesPerMinute)
}

// SetImagesPerMinute sets the image request rate limit
func (s *Settings) SetImagesPerMinute(rpm int) {
	s.app.Preferences().SetInt(KeyImagesPerMinute, clamp(rpm, 0, MaxImagesPerMinute))
}

// GetOutputFormat returns the configured animation format
func (s *Settings) GetOutputFormat() OutputFormat {
	format := OutputFormat(s.app.Preferences().String(KeyOutputFormat))
	switch format {
	case FormatGIF, FormatAPNG:
		return format
	default:
		return DefaultOutputFormat
	}
}

// SetOutputFormat sets the animation format
func (s *Settings) SetOutputFormat(format OutputFormat) {
	s.app.Preferences().SetString(KeyOutputFormat, string(format))
}

// GetOutputFormatOptions returns available output formats
func (s *Settings) GetOutputFormatOptions() []OutputFormat {
	return []OutputFormat{FormatGIF, FormatAPNG}
}

// GetOutputDirectory returns the directory used for quick saves
func (s *Settings) GetOutputDirectory() string {
	dir := s.app.Preferences().String(KeyOutputDir)
	if dir == "" {
		defaultDir, err := platform.GetDefaultOutputDir()
		if err != nil {
			defaultDir = os.TempDir()
		}
		s.SetOutputDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetOutputDirectory sets the directory used for quick saves
func (s *Settings) SetOutputDirectory(dir string) {
	s.app.Preferences().SetString(KeyOutputDir, dir)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

// GetAutoRevealOnSave returns whether to reveal saved animations in the file manager
func (s *Settings) GetAutoRevealOnSave() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealSaved, DefaultAutoRevealSaved)
}

// SetAutoRevealOnSave sets whether to reveal saved animations in the file manager
func (s *Settings) SetAutoRevealOnSave(reveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealSaved, reveal)
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
