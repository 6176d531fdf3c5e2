package ui

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// FrameState is the display state of one frame slot
type FrameState int

const (
	FramePending FrameState = iota
	FrameGenerating
	FrameReady
)

// FrameTile shows one generated frame, or a placeholder until it arrives
type FrameTile struct {
	widget.BaseWidget

	index        int
	state        FrameState
	localization *Localization

	// UI components
	background *canvas.Rectangle
	image      *canvas.Image
	caption    *widget.Label
	activity   *widget.Activity
}

// NewFrameTile creates a pending tile for the 1-based frame index
func NewFrameTile(index int, localization *Localization) *FrameTile {
	ft := &FrameTile{
		index:        index,
		localization: localization,
	}
	ft.ExtendBaseWidget(ft)
	ft.createUI()
	return ft
}

// createUI creates the UI components
func (ft *FrameTile) createUI() {
	variant := fyne.CurrentApp().Settings().ThemeVariant()
	ft.background = canvas.NewRectangle(TileColor(variant))
	ft.background.CornerRadius = theme.InputRadiusSize()
	ft.background.SetMinSize(fyne.NewSize(FrameTileSize, FrameTileSize))

	ft.image = canvas.NewImageFromImage(nil)
	ft.image.FillMode = canvas.ImageFillContain
	ft.image.ScaleMode = canvas.ImageScaleSmooth
	ft.image.SetMinSize(fyne.NewSize(FrameTileSize, FrameTileSize))
	ft.image.Hide()

	ft.activity = widget.NewActivity()
	ft.activity.Hide()

	ft.caption = widget.NewLabel(fmt.Sprintf(ft.localization.GetText(KeyFramePending), ft.index))
	ft.caption.Alignment = fyne.TextAlignCenter
	ft.caption.Importance = widget.LowImportance
}

// Index returns the 1-based frame index
func (ft *FrameTile) Index() int {
	return ft.index
}

// State returns the display state
func (ft *FrameTile) State() FrameState {
	return ft.state
}

// SetGenerating shows the activity indicator until the image arrives
func (ft *FrameTile) SetGenerating() {
	if ft.state == FrameReady {
		return
	}
	ft.state = FrameGenerating
	ft.activity.Show()
	ft.activity.Start()
	ft.Refresh()
}

// SetImage shows the frame image
func (ft *FrameTile) SetImage(img image.Image) {
	ft.state = FrameReady
	ft.activity.Stop()
	ft.activity.Hide()
	ft.image.Image = img
	ft.image.Show()
	ft.image.Refresh()
	ft.caption.Importance = widget.MediumImportance
	ft.caption.Refresh()
	ft.Refresh()
}

// Stop halts the activity indicator, keeping whatever is shown
func (ft *FrameTile) Stop() {
	if ft.state == FrameGenerating {
		ft.state = FramePending
	}
	ft.activity.Stop()
	ft.activity.Hide()
}

// CreateRenderer creates the widget renderer
func (ft *FrameTile) CreateRenderer() fyne.WidgetRenderer {
	content := container.NewBorder(
		nil,
		ft.caption,
		nil,
		nil,
		container.NewStack(ft.background, ft.image, container.NewCenter(ft.activity)),
	)
	return widget.NewSimpleRenderer(content)
}
