package ui

import "github.com/gdamore/tcell/v2"

// MenuColors is the palette for everything around the board.
var MenuColors = struct {
	Border      tcell.Color
	Title       tcell.Color
	Label       tcell.Color
	Hint        tcell.Color
	Accent      tcell.Color // results, highlights
	ButtonBG    tcell.Color
	ButtonFocus tcell.Color
	ButtonText  tcell.Color
	Empty       tcell.Color // empty tiles in previews
}{
	Border:      tcell.PaletteColor(65),
	Title:       tcell.PaletteColor(255),
	Label:       tcell.PaletteColor(250),
	Hint:        tcell.PaletteColor(245),
	Accent:      tcell.PaletteColor(149),
	ButtonBG:    tcell.PaletteColor(22),
	ButtonFocus: tcell.PaletteColor(71),
	ButtonText:  tcell.PaletteColor(255),
	Empty:       tcell.PaletteColor(240),
}
