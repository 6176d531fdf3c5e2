package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme colors
var (
	ColorPrimary      = color.RGBA{R: 124, G: 77, B: 255, A: 255} // Violet for primary actions
	ColorSuccess      = color.RGBA{R: 46, G: 160, B: 67, A: 255}
	ColorError        = color.RGBA{R: 183, G: 28, B: 28, A: 255}
	ColorWarning      = color.RGBA{R: 255, G: 193, B: 7, A: 255}
	ColorTileDark     = color.RGBA{R: 32, G: 30, B: 44, A: 255}
	ColorTileLight    = color.RGBA{R: 236, G: 232, B: 250, A: 255}
	ColorPlaceholder  = color.RGBA{R: 140, G: 130, B: 170, A: 255}
	ColorBackgroundDk = color.RGBA{R: 18, G: 16, B: 26, A: 255}
	ColorBackgroundLt = color.RGBA{R: 250, G: 249, B: 255, A: 255}
)

// AnimatorTheme is a compact theme with a violet accent
type AnimatorTheme struct{}

// NewAnimatorTheme creates the application theme
func NewAnimatorTheme() fyne.Theme {
	return &AnimatorTheme{}
}

// Color returns theme colors
func (t *AnimatorTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameSuccess:
		return ColorSuccess
	case theme.ColorNameError:
		return ColorError
	case theme.ColorNameWarning:
		return ColorWarning
	case theme.ColorNamePrimary, theme.ColorNameFocus:
		return ColorPrimary
	case theme.ColorNameBackground:
		if variant == theme.VariantDark {
			return ColorBackgroundDk
		}
		return ColorBackgroundLt
	}

	return theme.DefaultTheme().Color(name, variant)
}

// TileColor returns the background of an empty frame tile
func TileColor(variant fyne.ThemeVariant) color.Color {
	if variant == theme.VariantDark {
		return ColorTileDark
	}
	return ColorTileLight
}

// Font returns theme fonts
func (t *AnimatorTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

// Icon returns theme icons
func (t *AnimatorTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *AnimatorTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 4
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameLineSpacing:
		return 2
	case theme.SizeNameScrollBar:
		return 12
	case theme.SizeNameText:
		return 13
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameInputRadius:
		return 6
	case theme.SizeNameSelectionRadius:
		return 4
	}

	return theme.DefaultTheme().Size(name)
}
