package ui

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/magic-animator/internal/config"
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	window       fyne.Window
	localization *Localization
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// Instructions
	orchestratorEntry *widget.Entry
	frameEntry        *widget.Entry

	// Model
	backendSelect    *widget.Select
	apiKeyEntry      *widget.Entry
	apiKeyHint       *widget.Label
	projectEntry     *widget.Entry
	locationEntry    *widget.Entry
	textModelEntry   *widget.Entry
	imageModelEntry  *widget.Entry
	temperatureEntry *widget.Entry
	rateEntry        *widget.Entry

	// Generation
	frameCountEntry *widget.Entry
	fpsEntry        *widget.Entry
	canvasSelect    *widget.Select
	attemptsEntry   *widget.Entry
	formatSelect    *widget.Select
	outputDirEntry  *widget.Entry

	// Interface
	languageSelect  *widget.Select
	autoRevealCheck *widget.Check
}

// ShowSettingsDialog creates and shows the settings dialog
func ShowSettingsDialog(window fyne.Window, settings *config.Settings, localization *Localization, onSaved func()) *SettingsDialog {
	sd := NewSettingsDialog(settings, window, localization, onSaved)
	sd.Show()
	return sd
}

// NewSettingsDialog creates a new settings dialog
func NewSettingsDialog(settings *config.Settings, window fyne.Window, localization *Localization, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		window:       window,
		localization: localization,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	t := sd.localization.GetText

	// Instruction templates
	sd.orchestratorEntry = widget.NewMultiLineEntry()
	sd.orchestratorEntry.Wrapping = fyne.TextWrapWord
	sd.orchestratorEntry.SetMinRowsVisible(InstructionLines)

	sd.frameEntry = widget.NewMultiLineEntry()
	sd.frameEntry.Wrapping = fyne.TextWrapWord
	sd.frameEntry.SetMinRowsVisible(InstructionLines)

	placeholderHint := widget.NewLabel(t(KeyPlaceholderHint))
	placeholderHint.Importance = widget.LowImportance

	resetBtn := widget.NewButton(t(KeyResetTemplates), sd.onResetTemplates)
	importBtn := widget.NewButton(t(KeyImportPreset), sd.onImportPreset)
	exportBtn := widget.NewButton(t(KeyExportPreset), sd.onExportPreset)

	// Model backend
	sd.backendSelect = widget.NewSelect(sd.settings.GetBackendOptions(), sd.onBackendChanged)

	sd.apiKeyEntry = widget.NewPasswordEntry()
	sd.apiKeyHint = widget.NewLabel(t(KeyAPIKeyFromEnv))
	sd.apiKeyHint.Importance = widget.LowImportance
	sd.apiKeyHint.Hide()

	sd.projectEntry = widget.NewEntry()
	sd.locationEntry = widget.NewEntry()
	sd.locationEntry.SetPlaceHolder(config.DefaultVertexLocation)

	sd.textModelEntry = widget.NewEntry()
	sd.textModelEntry.SetPlaceHolder(config.DefaultTextModel)
	sd.imageModelEntry = widget.NewEntry()
	sd.imageModelEntry.SetPlaceHolder(config.DefaultImageModel)

	sd.temperatureEntry = widget.NewEntry()
	sd.temperatureEntry.SetPlaceHolder(fmt.Sprintf("%.1f-%.1f", config.MinTemperature, config.MaxTemperature))
	sd.rateEntry = widget.NewEntry()
	sd.rateEntry.SetPlaceHolder(fmt.Sprintf("0-%d", config.MaxImagesPerMinute))

	// Generation
	sd.frameCountEntry = widget.NewEntry()
	sd.frameCountEntry.SetPlaceHolder(fmt.Sprintf("%d-%d", config.MinFrameCount, config.MaxFrameCount))
	sd.fpsEntry = widget.NewEntry()
	sd.fpsEntry.SetPlaceHolder(fmt.Sprintf("%d-%d", config.MinFPS, config.MaxFPS))

	canvasOptions := []string{}
	for _, size := range sd.settings.GetCanvasSizeOptions() {
		canvasOptions = append(canvasOptions, strconv.Itoa(size))
	}
	sd.canvasSelect = widget.NewSelect(canvasOptions, nil)

	sd.attemptsEntry = widget.NewEntry()
	sd.attemptsEntry.SetPlaceHolder(fmt.Sprintf("%d-%d", config.MinMaxAttempts, config.MaxMaxAttempts))

	formatOptions := []string{}
	for _, format := range sd.settings.GetOutputFormatOptions() {
		formatOptions = append(formatOptions, string(format))
	}
	sd.formatSelect = widget.NewSelect(formatOptions, nil)

	sd.outputDirEntry = widget.NewEntry()
	browseDirBtn := widget.NewButton(t(KeyBrowse), sd.onBrowseDirectory)
	outputDirRow := container.NewBorder(nil, nil, nil, browseDirBtn, sd.outputDirEntry)

	// Language selection
	languageOptions := []string{}
	for code := range sd.settings.GetLanguageOptions() {
		languageOptions = append(languageOptions, code)
	}
	sort.Strings(languageOptions)
	sd.languageSelect = widget.NewSelect(languageOptions, nil)

	sd.autoRevealCheck = widget.NewCheck(t(KeyAutoReveal), nil)

	instructions := container.NewVBox(
		widget.NewLabel(t(KeyOrchestratorInstruction)+":"),
		sd.orchestratorEntry,
		widget.NewLabel(t(KeyFrameInstruction)+":"),
		sd.frameEntry,
		placeholderHint,
		container.NewHBox(resetBtn, importBtn, exportBtn),
	)

	modelForm := widget.NewForm(
		widget.NewFormItem(t(KeyBackend), sd.backendSelect),
		widget.NewFormItem(t(KeyAPIKey), container.NewVBox(sd.apiKeyEntry, sd.apiKeyHint)),
		widget.NewFormItem(t(KeyVertexProject), sd.projectEntry),
		widget.NewFormItem(t(KeyVertexLocation), sd.locationEntry),
		widget.NewFormItem(t(KeyTextModel), sd.textModelEntry),
		widget.NewFormItem(t(KeyImageModel), sd.imageModelEntry),
		widget.NewFormItem(t(KeyTemperature), sd.temperatureEntry),
		widget.NewFormItem(t(KeyImagesPerMinute), sd.rateEntry),
	)

	generationForm := widget.NewForm(
		widget.NewFormItem(t(KeyFrameCount), sd.frameCountEntry),
		widget.NewFormItem(t(KeyFPS), sd.fpsEntry),
		widget.NewFormItem(t(KeyCanvasSize), sd.canvasSelect),
		widget.NewFormItem(t(KeyMaxAttempts), sd.attemptsEntry),
		widget.NewFormItem(t(KeyOutputFormat), sd.formatSelect),
		widget.NewFormItem(t(KeyOutputDirectory), outputDirRow),
	)

	interfaceForm := widget.NewForm(
		widget.NewFormItem(t(KeyLanguage), sd.languageSelect),
		widget.NewFormItem("", sd.autoRevealCheck),
	)

	tabs := container.NewAppTabs(
		container.NewTabItem(t(KeyInstructions), container.NewVScroll(instructions)),
		container.NewTabItem(t(KeyModel), container.NewVScroll(modelForm)),
		container.NewTabItem(t(KeyGeneration), container.NewVScroll(generationForm)),
		container.NewTabItem(t(KeyInterface), container.NewVScroll(interfaceForm)),
	)

	// Create dialog with buttons
	sd.dialog = dialog.NewCustomConfirm(
		t(KeySettings),
		t(KeySave),
		t(KeyCancel),
		tabs,
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.orchestratorEntry.SetText(sd.settings.GetOrchestratorInstruction())
	sd.frameEntry.SetText(sd.settings.GetFrameInstruction())

	sd.backendSelect.SetSelected(sd.settings.GetBackend())
	if sd.settings.APIKeyFromEnv() {
		sd.apiKeyEntry.SetText("")
		sd.apiKeyEntry.Disable()
		sd.apiKeyHint.Show()
	} else {
		sd.apiKeyEntry.SetText(sd.settings.GetAPIKey())
		sd.apiKeyEntry.Enable()
		sd.apiKeyHint.Hide()
	}
	sd.projectEntry.SetText(sd.settings.GetVertexProject())
	sd.locationEntry.SetText(sd.settings.GetVertexLocation())
	sd.textModelEntry.SetText(sd.settings.GetTextModel())
	sd.imageModelEntry.SetText(sd.settings.GetImageModel())
	sd.temperatureEntry.SetText(strconv.FormatFloat(float64(sd.settings.GetTemperature()), 'f', 1, 32))
	sd.rateEntry.SetText(strconv.Itoa(sd.settings.GetImagesPerMinute()))

	sd.frameCountEntry.SetText(strconv.Itoa(sd.settings.GetFrameCount()))
	sd.fpsEntry.SetText(strconv.Itoa(sd.settings.GetFPS()))
	sd.canvasSelect.SetSelected(strconv.Itoa(sd.settings.GetCanvasSize()))
	sd.attemptsEntry.SetText(strconv.Itoa(sd.settings.GetMaxAttempts()))
	sd.formatSelect.SetSelected(string(sd.settings.GetOutputFormat()))
	sd.outputDirEntry.SetText(sd.settings.GetOutputDirectory())

	sd.languageSelect.SetSelected(sd.settings.GetLanguage())
	sd.autoRevealCheck.SetChecked(sd.settings.GetAutoRevealOnSave())

	sd.onBackendChanged(sd.backendSelect.Selected)
}

// onBackendChanged enables the fields the selected backend needs
func (sd *SettingsDialog) onBackendChanged(backend string) {
	if sd.projectEntry == nil || sd.locationEntry == nil {
		return
	}
	if backend == config.BackendVertex {
		sd.projectEntry.Enable()
		sd.locationEntry.Enable()
	} else {
		sd.projectEntry.Disable()
		sd.locationEntry.Disable()
	}
}

// onBrowseDirectory handles directory browsing
func (sd *SettingsDialog) onBrowseDirectory() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		sd.outputDirEntry.SetText(uri.Path())
	}, sd.window)
}

// onResetTemplates puts the default instructions into the editors
func (sd *SettingsDialog) onResetTemplates() {
	sd.orchestratorEntry.SetText(config.DefaultOrchestratorInstruction)
	sd.frameEntry.SetText(config.DefaultFrameInstruction)
}

// onImportPreset loads a YAML preset into the editors
func (sd *SettingsDialog) onImportPreset() {
	openDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			log.Printf("Error reading preset %s: %v", reader.URI().Path(), err)
			dialog.ShowError(err, sd.window)
			return
		}

		preset, err := config.ParsePreset(data)
		if err != nil {
			log.Printf("Invalid preset %s: %v", reader.URI().Path(), err)
			dialog.ShowError(fmt.Errorf("%s: %w", sd.localization.GetText(KeyInvalidPreset), err), sd.window)
			return
		}

		sd.applyPreset(preset)
		dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeyPresetImported), sd.window)
	}, sd.window)
	openDialog.SetFilter(storage.NewExtensionFileFilter([]string{".yaml", ".yml"}))
	openDialog.Show()
}

// applyPreset copies preset values into the editors; they persist on save
func (sd *SettingsDialog) applyPreset(preset config.Preset) {
	sd.orchestratorEntry.SetText(preset.OrchestratorInstruction)
	sd.frameEntry.SetText(preset.FrameInstruction)
	if preset.FrameCount != 0 {
		sd.frameCountEntry.SetText(strconv.Itoa(preset.FrameCount))
	}
	if preset.FPS != 0 {
		sd.fpsEntry.SetText(strconv.Itoa(preset.FPS))
	}
}

// currentPreset builds a preset from the editors
func (sd *SettingsDialog) currentPreset() config.Preset {
	preset := config.Preset{
		Schema:                  config.PresetSchemaV1,
		OrchestratorInstruction: sd.orchestratorEntry.Text,
		FrameInstruction:        sd.frameEntry.Text,
	}
	if count, err := strconv.Atoi(strings.TrimSpace(sd.frameCountEntry.Text)); err == nil {
		preset.FrameCount = count
	}
	if fps, err := strconv.Atoi(strings.TrimSpace(sd.fpsEntry.Text)); err == nil {
		preset.FPS = fps
	}
	return preset
}

// onExportPreset writes the edited instructions to a YAML file
func (sd *SettingsDialog) onExportPreset() {
	data, err := sd.currentPreset().Marshal()
	if err != nil {
		dialog.ShowError(fmt.Errorf("%s: %w", sd.localization.GetText(KeyInvalidPreset), err), sd.window)
		return
	}

	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()

		if _, err := writer.Write(data); err != nil {
			log.Printf("Error writing preset %s: %v", writer.URI().Path(), err)
			dialog.ShowError(err, sd.window)
			return
		}
		dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeyPresetExported), sd.window)
	}, sd.window)
	saveDialog.SetFileName(PresetFileName)
	saveDialog.Show()
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}

	// Instructions go through preset validation so a template without {prompt} is rejected
	preset := sd.currentPreset()
	preset.FrameCount, preset.FPS = 0, 0
	if err := sd.settings.ApplyPreset(preset); err != nil {
		log.Printf("Instruction templates rejected: %v", err)
		dialog.ShowError(err, sd.window)
		return
	}

	if sd.backendSelect.Selected != "" {
		sd.settings.SetBackend(sd.backendSelect.Selected)
	}
	if !sd.settings.APIKeyFromEnv() {
		sd.settings.SetAPIKey(sd.apiKeyEntry.Text)
	}
	sd.settings.SetVertexProject(sd.projectEntry.Text)
	sd.settings.SetVertexLocation(sd.locationEntry.Text)
	sd.settings.SetTextModel(sd.textModelEntry.Text)
	sd.settings.SetImageModel(sd.imageModelEntry.Text)

	if temperature, err := strconv.ParseFloat(strings.TrimSpace(sd.temperatureEntry.Text), 64); err == nil {
		sd.settings.SetTemperature(temperature)
	}
	if rpm, err := strconv.Atoi(strings.TrimSpace(sd.rateEntry.Text)); err == nil {
		sd.settings.SetImagesPerMinute(rpm)
	}
	if count, err := strconv.Atoi(strings.TrimSpace(sd.frameCountEntry.Text)); err == nil {
		sd.settings.SetFrameCount(count)
	}
	if fps, err := strconv.Atoi(strings.TrimSpace(sd.fpsEntry.Text)); err == nil {
		sd.settings.SetFPS(fps)
	}
	if size, err := strconv.Atoi(sd.canvasSelect.Selected); err == nil {
		sd.settings.SetCanvasSize(size)
	}
	if attempts, err := strconv.Atoi(strings.TrimSpace(sd.attemptsEntry.Text)); err == nil {
		sd.settings.SetMaxAttempts(attempts)
	}
	if sd.formatSelect.Selected != "" {
		sd.settings.SetOutputFormat(config.OutputFormat(sd.formatSelect.Selected))
	}
	if dir := strings.TrimSpace(sd.outputDirEntry.Text); dir != "" {
		sd.settings.SetOutputDirectory(dir)
	}
	if sd.languageSelect.Selected != "" {
		sd.settings.SetLanguage(sd.languageSelect.Selected)
	}
	sd.settings.SetAutoRevealOnSave(sd.autoRevealCheck.Checked)

	log.Printf("Settings saved")
	if sd.onSaved != nil {
		sd.onSaved()
	}
}
