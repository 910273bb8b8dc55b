package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"junglequest/config"
	"junglequest/rules"
	"junglequest/types"
)

// ColorConfigUI lets the player recolour the board with a live preview.
type ColorConfigUI struct {
	flex      *tview.Flex
	colorList *tview.List
	preview   *tview.Box
	cfg       *config.Config
	board     *rules.Board
	onDone    func()

	theme  config.Theme // working copy shown in the preview
	target int          // index into colorTargets
}

type colorTarget struct {
	name  string
	field func(c *config.ConfigColors) *int
}

// colorTargets are the theme colours the screen can edit, in Tab order.
var colorTargets = []colorTarget{
	{"Land", func(c *config.ConfigColors) *int { return &c.LandColor }},
	{"Water", func(c *config.ConfigColors) *int { return &c.WaterColor }},
	{"Trap", func(c *config.ConfigColors) *int { return &c.TrapColor }},
	{"Den", func(c *config.ConfigColors) *int { return &c.DenColor }},
	{"Player 1", func(c *config.ConfigColors) *int { return &c.Player1Color }},
	{"Player 2", func(c *config.ConfigColors) *int { return &c.Player2Color }},
}

var paletteChoices = []struct {
	code int
	name string
}{
	{22, "Forest Green"},
	{28, "Green"},
	{65, "Moss"},
	{107, "Olive"},
	{149, "Lime"},
	{17, "Navy Blue"},
	{24, "Dark Cyan"},
	{31, "Deep Sky"},
	{39, "Sky Blue"},
	{94, "Saddle Brown"},
	{130, "Dark Orange"},
	{137, "Clay"},
	{180, "Tan"},
	{52, "Dark Maroon"},
	{88, "Dark Red"},
	{160, "Red"},
	{196, "Bright Red"},
	{21, "Blue"},
	{57, "Violet"},
	{226, "Yellow"},
	{232, "Black"},
	{244, "Medium Gray"},
	{255, "White"},
}

// NewColorConfig creates a new color configuration screen.
func NewColorConfig(cfg *config.Config, onDone func()) *ColorConfigUI {
	cc := &ColorConfigUI{
		cfg:    cfg,
		board:  rules.NewStandardBoard(),
		onDone: onDone,
		theme:  cfg.Theme,
	}

	cc.colorList = tview.NewList()
	cc.colorList.SetBorder(true)
	cc.colorList.ShowSecondaryText(false)
	cc.populateColorList()

	// Preview on highlight
	cc.colorList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if index >= 0 && index < len(paletteChoices) {
			*colorTargets[cc.target].field(&cc.theme.Colors) = paletteChoices[index].code
		}
	})

	// Apply on enter
	cc.colorList.SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		if index < 0 || index >= len(paletteChoices) {
			return
		}
		*colorTargets[cc.target].field(&cc.theme.Colors) = paletteChoices[index].code
		cc.cfg.Theme.Colors = cc.theme.Colors
		cc.cfg.Save()
		onDone()
	})

	cc.preview = tview.NewBox()
	cc.preview.SetBorder(true)
	cc.preview.SetTitle(" Board Preview ")
	cc.preview.SetDrawFunc(cc.drawPreview)

	cc.flex = tview.NewFlex().
		AddItem(cc.colorList, 34, 0, true).
		AddItem(cc.preview, 0, 1, false)

	return cc
}

// populateColorList fills the list and selects the current colour of the target.
func (cc *ColorConfigUI) populateColorList() {
	cc.colorList.Clear()
	t := colorTargets[cc.target]
	cc.colorList.SetTitle(fmt.Sprintf(" %s Color (Tab: next) ", t.name))

	current := *t.field(&cc.theme.Colors)
	for i, c := range paletteChoices {
		cc.colorList.AddItem(fmt.Sprintf("[#%06x]████[-] %s (%d)",
			tcell.PaletteColor(c.code).Hex(), c.name, c.code),
			"", rune('a'+i), nil)
	}
	for i, c := range paletteChoices {
		if c.code == current {
			cc.colorList.SetCurrentItem(i)
			break
		}
	}
	// Adding the first item fires the changed func; keep a colour that is not in the list.
	*t.field(&cc.theme.Colors) = current
}

func (cc *ColorConfigUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	if width < types.Cols*cellWidth+4 || height < types.Rows+4 {
		return x, y, width, height
	}
	startX := x + 2
	startY := y + 1

	styles := themeStyles(cc.theme)
	for row := 0; row < types.Rows; row++ {
		for col := 0; col < types.Cols; col++ {
			p := types.Pos(col, row)
			drawTile(screen, startX, startY, p, ' ', tileText(cc.theme.Symbols, cc.board, p), terrainStyle(styles, cc.board, p))
		}
	}

	c := cc.theme.Colors
	info := fmt.Sprintf("Land %d  Water %d  Trap %d  Den %d  P1 %d  P2 %d",
		c.LandColor, c.WaterColor, c.TrapColor, c.DenColor, c.Player1Color, c.Player2Color)
	for i, ch := range info {
		if startX+i < x+width-1 {
			screen.SetContent(startX+i, startY+types.Rows+1, ch, nil, tcell.StyleDefault)
		}
	}

	return x, y, width, height
}

// Flex returns the flex container for this UI.
func (cc *ColorConfigUI) Flex() *tview.Flex {
	return cc.flex
}

// SetInputCapture sets the input capture for the color list.
func (cc *ColorConfigUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	cc.colorList.SetInputCapture(capture)
}

// ToggleMode moves on to the next colour to edit.
func (cc *ColorConfigUI) ToggleMode() {
	cc.target = (cc.target + 1) % len(colorTargets)
	cc.populateColorList()
}

// Reset drops unsaved preview changes.
func (cc *ColorConfigUI) Reset() {
	cc.theme = cc.cfg.Theme
	cc.populateColorList()
}
