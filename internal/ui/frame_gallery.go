package ui

import (
	"image"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// FrameGallery lays out one tile per frame of the current run
type FrameGallery struct {
	localization *Localization

	tiles []*FrameTile
	grid  *fyne.Container

	container *container.Scroll
}

// NewFrameGallery creates an empty gallery
func NewFrameGallery(localization *Localization) *FrameGallery {
	fg := &FrameGallery{
		localization: localization,
	}
	fg.grid = container.NewGridWrap(fyne.NewSize(FrameTileSize, FrameTileSize+FrameCaptionH))
	fg.container = container.NewVScroll(fg.grid)
	return fg
}

// Container returns the gallery's canvas object
func (fg *FrameGallery) Container() fyne.CanvasObject {
	return fg.container
}

// Reset drops all tiles and creates total pending ones
func (fg *FrameGallery) Reset(total int) {
	for _, tile := range fg.tiles {
		tile.Stop()
	}
	fg.tiles = make([]*FrameTile, 0, total)
	objects := make([]fyne.CanvasObject, 0, total)
	for i := 1; i <= total; i++ {
		tile := NewFrameTile(i, fg.localization)
		fg.tiles = append(fg.tiles, tile)
		objects = append(objects, tile)
	}
	fg.grid.Objects = objects
	fg.grid.Refresh()
	fg.container.ScrollToTop()
}

// MarkGenerating flags the tile whose frame is being requested
func (fg *FrameGallery) MarkGenerating(index int) {
	if tile := fg.tile(index); tile != nil {
		tile.SetGenerating()
	}
}

// SetFrame shows a decoded frame in its tile and marks the next one as generating
func (fg *FrameGallery) SetFrame(index int, img image.Image) {
	tile := fg.tile(index)
	if tile == nil {
		log.Printf("Frame %d has no tile (gallery holds %d)", index, len(fg.tiles))
		return
	}
	tile.SetImage(img)
	fg.MarkGenerating(index + 1)
}

// StopAll halts every activity indicator, leaving rendered frames visible
func (fg *FrameGallery) StopAll() {
	for _, tile := range fg.tiles {
		tile.Stop()
	}
}

// ReadyCount returns how many frames are shown
func (fg *FrameGallery) ReadyCount() int {
	count := 0
	for _, tile := range fg.tiles {
		if tile.State() == FrameReady {
			count++
		}
	}
	return count
}

// Len returns the number of tiles
func (fg *FrameGallery) Len() int {
	return len(fg.tiles)
}

func (fg *FrameGallery) tile(index int) *FrameTile {
	if index < 1 || index > len(fg.tiles) {
		return nil
	}
	return fg.tiles[index-1]
}
