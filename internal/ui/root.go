package ui

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"
	_ "golang.org/x/image/webp"

	"github.com/ytget/magic-animator/internal/config"
	"github.com/ytget/magic-animator/internal/export"
	"github.com/ytget/magic-animator/internal/gemini"
	"github.com/ytget/magic-animator/internal/generate"
	"github.com/ytget/magic-animator/internal/model"
	"github.com/ytget/magic-animator/internal/platform"
)

// RootUI represents the main UI structure
type RootUI struct {
	ctx          context.Context
	window       fyne.Window
	promptEntry  *widget.Entry
	generateBtn  *widget.Button
	statusText   binding.String
	statusLabel  *widget.Label
	runProgress  *widget.ProgressBar
	gallery      *FrameGallery
	output       *OutputView
	tabs         *TabController
	generator    generate.Generator
	exporter     export.Exporter
	settings     *config.Settings
	localization *Localization
	configure    func(*config.Settings)

	// run shown in the gallery; touched on the UI goroutine only
	shownRunID string

	// Notification panel
	notificationContainer *fyne.Container
	notificationLabel     *widget.Label
	notificationSpinner   *widget.ProgressBarInfinite
}

// NewRootUI creates and initializes the main UI.
// configure is called after settings are saved so services pick up the new values.
func NewRootUI(ctx context.Context, window fyne.Window, settings *config.Settings, generator generate.Generator, exporter export.Exporter, configure func(*config.Settings)) *RootUI {
	// Initialize localization
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	if err := platform.CreateDirectoryIfNotExists(settings.GetOutputDirectory()); err != nil {
		log.Printf("Failed to create output directory: %v", err)
	}

	ui := &RootUI{
		ctx:          ctx,
		window:       window,
		statusText:   binding.NewString(),
		generator:    generator,
		exporter:     exporter,
		settings:     settings,
		localization: localization,
		configure:    configure,
	}

	// Set window title
	window.SetTitle(localization.GetText(KeyAppTitle))

	// Set up service callbacks
	ui.generator.SetStatusCallback(ui.onStatus)
	ui.generator.SetUpdateCallback(ui.onRunUpdate)
	ui.generator.SetFrameCallback(ui.onFrame)
	if ui.exporter != nil {
		ui.exporter.SetUpdateCallback(ui.onExportUpdate)
	}

	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	// Create menu
	ui.createMenu()

	// Create prompt entry
	ui.promptEntry = widget.NewEntry()
	ui.promptEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterPrompt))
	// Trigger generation when user presses Enter in the prompt field
	ui.promptEntry.OnSubmitted = func(string) {
		ui.onGenerateClick()
	}

	// Create generate button
	ui.generateBtn = widget.NewButton(IconMagic+" "+ui.localization.GetText(KeyGenerate), ui.onGenerateClick)
	ui.generateBtn.Importance = widget.HighImportance

	// Create settings button
	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	// Create logo
	left := container.NewHBox(settingsBtn)
	if logo, err := LoadLogoResource(); err == nil {
		logoImage := canvas.NewImageFromResource(logo)
		logoImage.SetMinSize(fyne.NewSize(32, 32))
		logoImage.FillMode = canvas.ImageFillContain
		left = container.NewHBox(logoImage, settingsBtn)
	}

	topPanel := container.NewBorder(nil, nil, left, ui.generateBtn, ui.promptEntry)

	// Notification panel under the prompt (hidden by default)
	ui.notificationLabel = widget.NewLabel("")
	ui.notificationLabel.Alignment = fyne.TextAlignLeading
	ui.notificationLabel.Wrapping = fyne.TextWrapWord
	ui.notificationSpinner = widget.NewProgressBarInfinite()
	ui.notificationSpinner.Hide()
	ui.notificationContainer = container.NewBorder(nil, nil, ui.notificationSpinner, nil, ui.notificationLabel)
	ui.notificationContainer.Hide()

	topCombined := container.NewVBox(topPanel, ui.notificationContainer)

	// Status line
	ui.statusText.Set(ui.localization.GetText(KeyReady))
	ui.statusLabel = widget.NewLabelWithData(ui.statusText)
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis
	ui.runProgress = widget.NewProgressBar()
	ui.runProgress.Hide()

	// Frames and output
	ui.gallery = NewFrameGallery(ui.localization)
	ui.output = NewOutputView(ui.window, ui.localization, ui.settings, ui.exporter, func(message string) {
		ui.showNotification(message, false)
	})
	ui.tabs = NewTabController(ui.gallery.Container(), ui.output.Container(), ui.localization)
	ui.tabs.SetOnChanged(func(view model.View) {
		log.Printf("View changed: %s", view)
	})

	bottom := container.NewVBox(ui.runProgress, ui.statusLabel)
	content := container.NewBorder(
		topCombined,         // top
		bottom,              // bottom
		nil,                 // left
		nil,                 // right
		ui.tabs.Container(), // center
	)

	ui.window.SetContent(content)
	ui.window.Canvas().Focus(ui.promptEntry)

	log.Printf("UI setup completed successfully")
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	// Settings menu item
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)

	// Language submenu
	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))

	availableLanguages := ui.localization.GetAvailableLanguages()
	for code, name := range availableLanguages {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})

		// Mark current language
		if ui.localization.GetCurrentLanguage() == code {
			langItem.Checked = true
		}

		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	// Create main menu
	mainMenu := fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem),
		languageMenu,
	)

	ui.window.SetMainMenu(mainMenu)
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	// Recreate menu to update checkmarks
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.promptEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterPrompt))
	ui.generateBtn.SetText(IconMagic + " " + ui.localization.GetText(KeyGenerate))
	ui.tabs.RefreshTexts(ui.localization)
	ui.output.RefreshTexts()
}

// buildRequest reads the settings once for a new generation
func (ui *RootUI) buildRequest(prompt string) generate.Request {
	return generate.Request{
		Prompt:      prompt,
		Templates:   ui.settings.GetTemplates(),
		TextModel:   ui.settings.GetTextModel(),
		ImageModel:  ui.settings.GetImageModel(),
		FrameCount:  ui.settings.GetFrameCount(),
		MaxAttempts: ui.settings.GetMaxAttempts(),
		Temperature: ui.settings.GetTemperature(),
	}
}

// onGenerateClick handles the generate button click
func (ui *RootUI) onGenerateClick() {
	req, ok := ui.startGeneration()
	if !ok {
		return
	}
	go ui.runGeneration(req)
}

// startGeneration validates the prompt and resets the views for a new run
func (ui *RootUI) startGeneration() (generate.Request, bool) {
	prompt := strings.TrimSpace(ui.promptEntry.Text)
	if prompt == "" {
		ui.statusText.Set(ui.localization.GetText(KeyPleaseEnterPrompt))
		ui.showNotification(ui.localization.GetText(KeyPleaseEnterPrompt), false)
		return generate.Request{}, false
	}
	if ui.generator.IsRunning() || ui.generateBtn.Disabled() {
		ui.showNotification(ui.localization.GetText(KeyAlreadyRunning), false)
		return generate.Request{}, false
	}

	req := ui.buildRequest(prompt)
	log.Printf("Starting generation: frames=%d attempts=%d prompt=%q", req.FrameCount, req.MaxAttempts, req.Prompt)

	ui.generateBtn.Disable()
	ui.output.Clear()
	ui.gallery.Reset(req.FrameCount)
	ui.shownRunID = ""
	ui.runProgress.SetValue(0)
	ui.runProgress.Show()
	ui.tabs.Select(model.ViewFrames)
	ui.showNotification(generate.StatusGeneratingFrames, true)

	return req, true
}

// runGeneration performs one generation; the trigger is re-enabled whatever happens
func (ui *RootUI) runGeneration(req generate.Request) {
	var (
		artifact *model.Artifact
		err      error
	)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Generation panicked: %v", r)
			artifact = nil
			err = fmt.Errorf("%s: %v", ui.localization.GetText(KeyUnexpectedError), r)
		}
		fyne.Do(func() {
			ui.finishGeneration(artifact, err)
		})
	}()

	artifact, err = ui.generator.Generate(ui.ctx, req)
}

// finishGeneration shows the outcome of a generation and re-enables the trigger
func (ui *RootUI) finishGeneration(artifact *model.Artifact, err error) {
	ui.generateBtn.Enable()
	ui.gallery.StopAll()
	ui.runProgress.Hide()

	if err != nil {
		message := gemini.ErrorMessage(err)
		log.Printf("Generation failed: %v", err)
		ui.statusText.Set(message)
		ui.showNotification(IconError+" "+message, false)
		return
	}
	if artifact == nil {
		ui.hideNotification()
		return
	}

	log.Printf("Generation completed: run=%s frames=%d bytes=%d", artifact.RunID, artifact.FrameCount, len(artifact.Data))
	ui.output.SetArtifact(artifact)
	ui.tabs.Select(model.ViewOutput)
	ui.hideNotification()

	fyne.CurrentApp().SendNotification(&fyne.Notification{
		Title:   ui.localization.GetText(KeyAppTitle),
		Content: generate.StatusDone,
	})
}

// onStatus handles status line updates from the generation service
func (ui *RootUI) onStatus(text string) {
	fyne.Do(func() {
		ui.statusText.Set(text)
		if ui.notificationSpinner.Visible() {
			ui.notificationLabel.SetText(text)
		}
	})
}

// onRunUpdate handles run state changes from the generation service
func (ui *RootUI) onRunUpdate(run *model.Run) {
	id, total, status, ready := run.ID, run.TotalFrames, run.Status, len(run.Frames)
	progress := run.Progress()
	log.Printf("Run update: id=%s attempt=%d status=%s frames=%d/%d", id, run.Attempt, status, ready, total)

	fyne.Do(func() {
		if id != ui.shownRunID {
			// a retry is a fresh run, start the gallery over
			ui.shownRunID = id
			ui.gallery.Reset(total)
		}
		ui.runProgress.SetValue(progress)
		if status == model.RunStatusGenerating && ready == 0 {
			ui.gallery.MarkGenerating(1)
		}
		if status.IsFinished() {
			ui.gallery.StopAll()
		}
	})
}

// onFrame decodes a frame as soon as it arrives and shows it in its tile
func (ui *RootUI) onFrame(run *model.Run, frame *model.Frame) {
	id := run.ID
	img, _, err := image.Decode(bytes.NewReader(frame.Data))
	if err != nil {
		log.Printf("Cannot decode frame %d of run %s: %v", frame.Index, id, err)
		return
	}
	index := frame.Index

	fyne.Do(func() {
		if id != ui.shownRunID {
			return
		}
		ui.gallery.SetFrame(index, img)
	})
}

// onExportUpdate handles video export updates
func (ui *RootUI) onExportUpdate(task *model.ExportTask) {
	log.Printf("Export update: id=%s status=%s percent=%d", task.ID, task.Status, task.Percent)
	fyne.Do(func() {
		ui.output.UpdateExport(task)
	})
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, ui.onSettingsSaved)
}

// onSettingsSaved applies saved settings to the services and the UI
func (ui *RootUI) onSettingsSaved() {
	if ui.configure != nil {
		ui.configure(ui.settings)
	}
	ui.localization.SetLanguage(ui.settings.GetLanguage())
	ui.refreshUITexts()
	ui.createMenu()
	ui.showNotification(ui.localization.GetText(KeySettingsSaved), false)
}

// showNotification displays a message in the notification panel under the prompt.
// When spinning is true, a spinner is shown to indicate background activity.
func (ui *RootUI) showNotification(message string, spinning bool) {
	if ui.notificationLabel == nil || ui.notificationContainer == nil || ui.notificationSpinner == nil {
		return
	}
	ui.notificationLabel.SetText(message)
	if spinning {
		ui.notificationSpinner.Show()
		ui.notificationSpinner.Start()
	} else {
		ui.notificationSpinner.Stop()
		ui.notificationSpinner.Hide()
	}
	ui.notificationContainer.Show()
	ui.notificationContainer.Refresh()
}

// hideNotification hides the notification panel.
func (ui *RootUI) hideNotification() {
	if ui.notificationContainer == nil || ui.notificationSpinner == nil {
		return
	}
	ui.notificationSpinner.Stop()
	ui.notificationSpinner.Hide()
	ui.notificationContainer.Hide()
}
