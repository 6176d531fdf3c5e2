package ui

import (
	"fmt"
	"image"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/magic-animator/internal/config"
	"github.com/ytget/magic-animator/internal/export"
	"github.com/ytget/magic-animator/internal/model"
	"github.com/ytget/magic-animator/internal/platform"
)

// mediaScan announces a new file to the Android gallery
var mediaScan = platform.NotifyMediaScanner

// formatFileSize formats file size in bytes to human readable format
func formatFileSize(bytes int64) string {
	if bytes < FileSizeUnit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(FileSizeUnit), 0
	for n := bytes / FileSizeUnit; n >= FileSizeUnit; n /= FileSizeUnit {
		div *= FileSizeUnit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), FileSizeUnits[exp])
}

// listableURI returns a dialog location for a local directory
func listableURI(dir string) (fyne.ListableURI, error) {
	return storage.ListerForURI(storage.NewFileURI(dir))
}

// FrameAt maps animation progress (0..1) to a frame index of a loop with count frames
func FrameAt(progress float32, count int) int {
	if count <= 0 {
		return 0
	}
	idx := int(progress * float32(count))
	if idx < 0 {
		return 0
	}
	if idx >= count {
		return count - 1
	}
	return idx
}

// OutputView plays the finished animation and offers save, reveal, open and export actions
type OutputView struct {
	window       fyne.Window
	localization *Localization
	settings     *config.Settings
	exporter     export.Exporter
	notify       func(message string)

	artifact     *model.Artifact
	savedPath    string
	exportTaskID string

	// Playback
	preview    *canvas.Image
	playback   *fyne.Animation
	frameIndex int

	// UI components
	placeholder    *widget.Label
	infoLabel      *widget.Label
	pathLabel      *widget.Label
	downloadBtn    *widget.Button
	saveBtn        *widget.Button
	revealBtn      *widget.Button
	openBtn        *widget.Button
	exportBtn      *widget.Button
	exportProgress *widget.ProgressBar

	container *fyne.Container
}

// NewOutputView creates an empty output view
func NewOutputView(window fyne.Window, localization *Localization, settings *config.Settings, exporter export.Exporter, notify func(string)) *OutputView {
	ov := &OutputView{
		window:       window,
		localization: localization,
		settings:     settings,
		exporter:     exporter,
		notify:       notify,
	}
	ov.createUI()
	ov.updateButtons()
	return ov
}

// createUI creates the UI components
func (ov *OutputView) createUI() {
	ov.preview = canvas.NewImageFromImage(nil)
	ov.preview.FillMode = canvas.ImageFillContain
	ov.preview.ScaleMode = canvas.ImageScaleSmooth
	ov.preview.SetMinSize(fyne.NewSize(OutputPreviewSize, OutputPreviewSize))
	ov.preview.Hide()

	ov.placeholder = widget.NewLabel(ov.localization.GetText(KeyNoAnimation))
	ov.placeholder.Alignment = fyne.TextAlignCenter

	ov.infoLabel = widget.NewLabel("")
	ov.infoLabel.Alignment = fyne.TextAlignCenter
	ov.infoLabel.Importance = widget.LowImportance

	ov.pathLabel = widget.NewLabel("")
	ov.pathLabel.Truncation = fyne.TextTruncateEllipsis
	ov.pathLabel.Hide()

	ov.downloadBtn = widget.NewButton(ov.localization.GetText(KeyDownload), ov.onDownload)
	ov.downloadBtn.Importance = widget.HighImportance
	ov.saveBtn = widget.NewButton(IconFolder+" "+ov.localization.GetText(KeySaveToFolder), ov.onSaveToFolder)
	ov.revealBtn = widget.NewButton(ov.localization.GetText(KeyReveal), func() { ov.onRevealFile(ov.savedPath) })
	ov.openBtn = widget.NewButton(IconFile+" "+ov.localization.GetText(KeyOpen), func() { ov.onOpenFile(ov.savedPath) })
	ov.exportBtn = widget.NewButton(IconVideo+" "+ov.localization.GetText(KeyExportMP4), ov.onExportAction)

	ov.exportProgress = widget.NewProgressBar()
	ov.exportProgress.Hide()

	actions := container.NewHBox(ov.downloadBtn, ov.saveBtn, ov.revealBtn, ov.openBtn, ov.exportBtn)

	ov.container = container.NewBorder(
		nil,
		container.NewVBox(ov.infoLabel, container.NewCenter(actions), ov.exportProgress, ov.pathLabel),
		nil,
		nil,
		container.NewStack(container.NewCenter(ov.placeholder), ov.preview),
	)
}

// Container returns the view's canvas object
func (ov *OutputView) Container() fyne.CanvasObject {
	return ov.container
}

// Artifact returns the artifact on display, if any
func (ov *OutputView) Artifact() *model.Artifact {
	return ov.artifact
}

// SavedPath returns where the current artifact was last written
func (ov *OutputView) SavedPath() string {
	return ov.savedPath
}

// SetArtifact replaces the displayed animation and starts playback
func (ov *OutputView) SetArtifact(artifact *model.Artifact) {
	ov.Clear()
	if artifact == nil {
		return
	}
	ov.artifact = artifact

	parts := []string{
		fmt.Sprintf("%d frames", artifact.FrameCount),
		fmt.Sprintf("%d ms", artifact.Delay.Milliseconds()),
		fmt.Sprintf("%dpx", artifact.Size),
		formatFileSize(int64(len(artifact.Data))),
		artifact.FileName,
	}
	ov.infoLabel.SetText(strings.Join(parts, MiddleDotSeparator))

	ov.placeholder.Hide()
	if len(artifact.Frames) > 0 {
		ov.showFrame(0)
		ov.preview.Show()
		ov.startPlayback()
	}
	ov.updateButtons()
}

// Clear stops playback and drops the artifact and its saved path
func (ov *OutputView) Clear() {
	if ov.playback != nil {
		ov.playback.Stop()
		ov.playback = nil
	}
	ov.artifact = nil
	ov.savedPath = ""
	ov.exportTaskID = ""
	ov.frameIndex = 0

	ov.preview.Image = nil
	ov.preview.Hide()
	ov.placeholder.Show()
	ov.infoLabel.SetText("")
	ov.pathLabel.SetText("")
	ov.pathLabel.Hide()
	ov.exportProgress.SetValue(0)
	ov.exportProgress.Hide()
	ov.updateButtons()
}

func (ov *OutputView) startPlayback() {
	frames := ov.artifact.Frames
	if len(frames) < 2 || ov.artifact.Duration() <= 0 {
		return
	}
	ov.playback = fyne.NewAnimation(ov.artifact.Duration(), func(progress float32) {
		idx := FrameAt(progress, len(frames))
		if idx != ov.frameIndex {
			ov.showFrame(idx)
		}
	})
	ov.playback.Curve = fyne.AnimationLinear
	ov.playback.RepeatCount = fyne.AnimationRepeatForever
	ov.playback.Start()
}

func (ov *OutputView) showFrame(idx int) {
	var img image.Image
	if ov.artifact != nil && idx < len(ov.artifact.Frames) {
		img = ov.artifact.Frames[idx]
	}
	ov.frameIndex = idx
	ov.preview.Image = img
	ov.preview.Refresh()
}

// updateButtons enables actions that make sense for the current state
func (ov *OutputView) updateButtons() {
	setEnabled := func(btn *widget.Button, enabled bool) {
		if enabled {
			btn.Enable()
		} else {
			btn.Disable()
		}
	}
	hasArtifact := ov.artifact != nil
	saved := ov.savedPath != ""
	status := ov.exportStatus()
	exporting := status.IsActive()

	setEnabled(ov.downloadBtn, hasArtifact)
	setEnabled(ov.saveBtn, hasArtifact)
	setEnabled(ov.revealBtn, saved)
	setEnabled(ov.openBtn, saved)

	// the export button doubles as stop while an export is active
	ov.exportBtn.SetText(ov.exportButtonText(exporting))
	if exporting {
		setEnabled(ov.exportBtn, status != model.TaskStatusStopping)
	} else {
		setEnabled(ov.exportBtn, saved && ov.exporter != nil && ov.exporter.Available())
	}
}

// exportStatus returns the state of the current export task, pending when there is none
func (ov *OutputView) exportStatus() model.TaskStatus {
	if ov.exportTaskID == "" || ov.exporter == nil {
		return model.TaskStatusPending
	}
	if task, ok := ov.exporter.GetTask(ov.exportTaskID); ok {
		return task.Status
	}
	return model.TaskStatusPending
}

func (ov *OutputView) exporting() bool {
	return ov.exportStatus().IsActive()
}

func (ov *OutputView) exportButtonText(exporting bool) string {
	if exporting {
		return IconStop + " " + ov.localization.GetText(KeyStopExport)
	}
	return IconVideo + " " + ov.localization.GetText(KeyExportMP4)
}

// onDownload asks where to write the artifact, preset with its file name
func (ov *OutputView) onDownload() {
	artifact := ov.artifact
	if artifact == nil {
		return
	}

	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			log.Printf("Save dialog error: %v", err)
			ov.notify(ov.localization.GetText(KeySaveFailed) + ": " + err.Error())
			return
		}
		if writer == nil {
			return
		}
		ov.writeDownload(writer, artifact.Data)
	}, ov.window)
	saveDialog.SetFileName(artifact.FileName)
	if dir := ov.settings.GetOutputDirectory(); dir != "" {
		if err := platform.CreateDirectoryIfNotExists(dir); err == nil {
			if lister, err := listableURI(dir); err == nil {
				saveDialog.SetLocation(lister)
			}
		}
	}
	saveDialog.Show()
}

// writeDownload stores data at a location picked in the save dialog
func (ov *OutputView) writeDownload(writer fyne.URIWriteCloser, data []byte) {
	defer writer.Close()

	path := writer.URI().Path()
	if _, err := writer.Write(data); err != nil {
		log.Printf("Error writing %s: %v", path, err)
		ov.notify(ov.localization.GetText(KeySaveFailed) + ": " + err.Error())
		return
	}
	// SaveFile scans its own output, dialog locations are not seen by it
	mediaScan(path)
	ov.markSaved(path)
}

// onSaveToFolder writes the artifact into the configured output directory
func (ov *OutputView) onSaveToFolder() {
	artifact := ov.artifact
	if artifact == nil {
		return
	}

	path, err := platform.SaveFile(ov.settings.GetOutputDirectory(), artifact.FileName, artifact.Data)
	if err != nil {
		log.Printf("Error saving animation: %v", err)
		ov.notify(ov.localization.GetText(KeySaveFailed) + ": " + err.Error())
		return
	}
	ov.markSaved(path)

	if ov.settings.GetAutoRevealOnSave() {
		ov.onRevealFile(path)
	}
}

func (ov *OutputView) markSaved(path string) {
	log.Printf("Animation saved: %s", path)
	ov.savedPath = path
	ov.pathLabel.SetText(ov.localization.GetText(KeySavedTo) + ": " + path)
	ov.pathLabel.Show()
	ov.notify(ov.localization.GetText(KeySavedTo) + ": " + path)
	ov.updateButtons()
}

// onRevealFile handles revealing a file in the system file manager
func (ov *OutputView) onRevealFile(filePath string) {
	if filePath == "" {
		log.Printf("Error: onRevealFile called with empty filePath")
		return
	}

	if err := platform.OpenFileInManager(filePath); err != nil {
		log.Printf("Error revealing file %s: %v", filePath, err)
		ov.notify(ov.localization.GetText(KeyErrorOpeningFile) + ": " + err.Error())
	}
}

// onOpenFile handles opening a saved file with the default application
func (ov *OutputView) onOpenFile(filePath string) {
	if filePath == "" {
		log.Printf("Error: onOpenFile called with empty filePath")
		return
	}

	if err := platform.OpenFileWithDefaultApp(filePath); err != nil {
		log.Printf("Error opening file %s: %v", filePath, err)
		ov.notify(ov.localization.GetText(KeyErrorOpeningFile) + ": " + err.Error())
	}
}

// onExportAction starts an export, or stops the one in progress
func (ov *OutputView) onExportAction() {
	if ov.exporting() {
		ov.onStopExport()
		return
	}
	ov.onExport()
}

// onStopExport asks the exporter to stop the current task
func (ov *OutputView) onStopExport() {
	if err := ov.exporter.StopExport(ov.exportTaskID); err != nil {
		log.Printf("Error stopping export %s: %v", ov.exportTaskID, err)
		return
	}
	ov.updateButtons()
}

// onExport converts the saved artifact to MP4
func (ov *OutputView) onExport() {
	if ov.exporter == nil || !ov.exporter.Available() {
		ov.notify(ov.localization.GetText(KeyFFmpegMissing))
		return
	}
	if ov.savedPath == "" || ov.artifact == nil {
		return
	}

	task, err := ov.exporter.StartExport(ov.savedPath, ov.artifact.Duration())
	if err != nil {
		log.Printf("Error starting export: %v", err)
		ov.notify(ov.localization.GetText(KeyExportFailed) + ": " + err.Error())
		return
	}
	ov.exportTaskID = task.ID
	ov.exportProgress.SetValue(0)
	ov.exportProgress.Show()
	ov.notify(ov.localization.GetText(KeyExportStarted))
	ov.updateButtons()
}

// UpdateExport reflects an export task update; must run on the UI goroutine
func (ov *OutputView) UpdateExport(task *model.ExportTask) {
	if task == nil || task.ID != ov.exportTaskID {
		return
	}

	ov.exportProgress.SetValue(task.Progress)
	switch task.Status {
	case model.TaskStatusCompleted:
		ov.exportProgress.Hide()
		ov.notify(ov.localization.GetText(KeyExportCompleted) + ": " + task.GetDisplayName())
		fyne.CurrentApp().SendNotification(&fyne.Notification{
			Title:   ov.localization.GetText(KeyExportCompleted),
			Content: task.GetDisplayName(),
		})
	case model.TaskStatusError:
		ov.exportProgress.Hide()
		ov.notify(ov.localization.GetText(KeyExportFailed) + ": " + task.LastError)
	case model.TaskStatusStopped:
		ov.exportProgress.Hide()
		ov.notify(ov.localization.GetText(KeyExportStopped))
	}
	ov.updateButtons()
}

// RefreshTexts relabels the view after a language change
func (ov *OutputView) RefreshTexts() {
	ov.placeholder.SetText(ov.localization.GetText(KeyNoAnimation))
	ov.downloadBtn.SetText(ov.localization.GetText(KeyDownload))
	ov.saveBtn.SetText(IconFolder + " " + ov.localization.GetText(KeySaveToFolder))
	ov.revealBtn.SetText(ov.localization.GetText(KeyReveal))
	ov.openBtn.SetText(IconFile + " " + ov.localization.GetText(KeyOpen))
	ov.exportBtn.SetText(ov.exportButtonText(ov.exporting()))
	if ov.savedPath != "" {
		ov.pathLabel.SetText(ov.localization.GetText(KeySavedTo) + ": " + ov.savedPath)
	}
}
