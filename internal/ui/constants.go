package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconMagic    = "✨"
	IconFolder   = "📁"
	IconFile     = "📄"
	IconVideo    = "🎬"
	IconStop     = "⏹"
	IconError    = "❌"
	IconLanguage = "🌐"
)

// Text fragments
const (
	MiddleDotSeparator  = " · "
	DashPlaceholder     = "—"
	ProgressLabelFormat = "%d%%"
)

// Layout sizing (frame tiles / output)
const (
	FrameTileSize     float32 = 160
	FrameCaptionH     float32 = 24
	OutputPreviewSize float32 = 420
	PromptMinWidth    float32 = 360

	SettingsDialogWidth  float32 = 620
	SettingsDialogHeight float32 = 560
	InstructionLines             = 6
)

// Toast notification sizing and behavior
const (
	ToastWidth    float32 = 300
	ToastHeight   float32 = 120
	ToastMargin   float32 = 20
	ToastAutoHide         = 5 * time.Second
)

// File names
const (
	PresetFileName = "magic-animator-preset.yaml"
)

// File size formatting
const (
	FileSizeUnit  = 1024
	FileSizeUnits = "KMGTPE"
)
