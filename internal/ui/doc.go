package ui

// Package ui contains the Fyne-based desktop user interface for the application.
// It wires the prompt, the Generate trigger, the status line, the frames/output
// tabs and the settings dialog to the generation and export services.
// All UI strings are localized via Localization.
