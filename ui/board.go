// Package ui specifies custom controls for tview to play jungle in the terminal.
package ui

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"junglequest/config"
	"junglequest/rules"
	"junglequest/session"
	"junglequest/types"
)

// Each tile is drawn four cells wide: a marker column and a three letter piece.
const cellWidth = 4

// Style indexes into BoardUI.styles.
const (
	styleLand = iota
	styleWater
	styleTrap
	styleDen
	stylePlayer1
	stylePlayer2
	styleCursorFG
	styleCursorBG
	styleLastMoveBG
)

type BoardUI struct {
	Box       *tview.Box
	hint      *tview.TextView
	cfg       *config.Config
	app       *tview.Application
	sess      *session.Session
	styles    []tcell.Color
	infoPanel *InfoPanel
	focusMode bool

	cursor    types.Position
	hasCursor bool
	source    *types.Position // picked piece waiting for a destination
	onQuit    func()
}

// ToggleFocusMode toggles focus mode and returns the new state.
func (g *BoardUI) ToggleFocusMode() bool {
	g.focusMode = !g.focusMode
	g.refreshHint()
	return g.focusMode
}

// SetFocusMode sets focus mode to the given state.
func (g *BoardUI) SetFocusMode(enabled bool) {
	g.focusMode = enabled
	g.refreshHint()
}

// IsFocusMode returns true if focus mode is enabled.
func (g *BoardUI) IsFocusMode() bool {
	return g.focusMode
}

func (g *BoardUI) SelectedTile() *types.Position {
	if !g.hasCursor {
		return nil
	}
	pos := g.cursor
	return &pos
}

// MoveSelection moves the cursor by h columns and v rows. The first call
// places the cursor on the last move, or on the mover's den.
func (g *BoardUI) MoveSelection(h, v int) {
	if g.sess == nil {
		return
	}
	if _, over := g.sess.Game().Outcome(); over {
		g.ResetSelection()
		return
	}
	if !g.hasCursor {
		g.hasCursor = true
		if log := g.sess.Game().MoveLog(); len(log) > 0 {
			g.cursor = log[len(log)-1].To
		} else {
			g.cursor = g.sess.Game().Board().Den(g.sess.Game().CurrentTurn())
		}
		return
	}
	next := types.Pos(g.cursor.Col+h, g.cursor.Row+v)
	if !next.OnBoard() {
		return
	}
	g.cursor = next
}

func (g *BoardUI) ResetSelection() {
	g.hasCursor = false
	g.source = nil
}

// Pick marks the piece under the cursor as the one to move, or, when a piece
// is already picked, plays the move to the cursor.
func (g *BoardUI) Pick() {
	sel := g.SelectedTile()
	if sel == nil || g.sess == nil {
		return
	}
	if g.source == nil {
		p, ok := g.sess.Game().Board().PieceAt(*sel)
		if !ok || p.Owner != g.sess.Game().CurrentTurn() {
			g.Say(fmt.Sprintf("Pick one of your own pieces, %s.", g.currentName()))
			return
		}
		g.source = sel
		g.refreshHint()
		return
	}
	if *g.source == *sel {
		g.source = nil
		g.refreshHint()
		return
	}
	from := *g.source
	g.source = nil
	g.Run(types.MoveString(from, *sel))
}

// Run passes a command line to the session and shows the reply.
func (g *BoardUI) Run(line string) {
	if g.sess == nil {
		return
	}
	reply := g.sess.Handle(context.Background(), line)
	if reply.Quit {
		if g.onQuit != nil {
			g.onQuit()
		}
		return
	}
	g.Say(reply.Message)
}

// Say shows msg in the info panel and redraws the hint.
func (g *BoardUI) Say(msg string) {
	if g.infoPanel != nil {
		g.infoPanel.SetMessage(msg)
	}
	g.refreshHint()
}

func NewBoard(app *tview.Application, c *config.Config, hint *tview.TextView) *BoardUI {
	board := &BoardUI{
		Box:  tview.NewBox(),
		hint: hint,
		app:  app,
	}
	board.SetConfig(c)
	board.Box.SetDrawFunc(func(screen tcell.Screen, x int, y int, width int, height int) (int, int, int, int) {
		if board.sess == nil {
			return x, y, 1, 1
		}
		b := board.sess.Game().Board()
		var last *[2]types.Position
		if log := board.sess.Game().MoveLog(); len(log) > 0 {
			m := log[len(log)-1]
			last = &[2]types.Position{m.From, m.To}
		}

		for row := 0; row < types.Rows; row++ {
			for col := 0; col < types.Cols; col++ {
				pos := types.Pos(col, row)
				style := board.tileStyle(b, pos)
				marker := ' '

				switch {
				case board.source != nil && *board.source == pos:
					style = style.Reverse(true)
					marker = '*'
				case board.hasCursor && board.cursor == pos:
					if board.cfg.Theme.DrawCursorBackground {
						style = style.Background(board.styles[styleCursorBG]).Foreground(board.styles[styleCursorFG])
					} else {
						marker = '>'
					}
				case last != nil && (last[0] == pos || last[1] == pos):
					if board.cfg.Theme.DrawLastMoveBackground {
						style = style.Background(board.styles[styleLastMoveBG])
					}
				}
				drawTile(screen, x+3, y, pos, marker, board.tileText(b, pos), style)
			}
		}
		drawCoordinates(screen, x, y, board)
		return x, y, types.Cols*cellWidth + 3, types.Rows + 2
	})
	return board
}

// tileStyle returns the terrain background with the occupant's colour in front.
func (g *BoardUI) tileStyle(b *rules.Board, pos types.Position) tcell.Style {
	return terrainStyle(g.styles, b, pos)
}

func (g *BoardUI) tileText(b *rules.Board, pos types.Position) string {
	return tileText(g.cfg.Theme.Symbols, b, pos)
}

func terrainStyle(styles []tcell.Color, b *rules.Board, pos types.Position) tcell.Style {
	bg := styles[styleLand]
	switch b.Terrain(pos).Kind {
	case rules.Water:
		bg = styles[styleWater]
	case rules.Trap:
		bg = styles[styleTrap]
	case rules.Den:
		bg = styles[styleDen]
	}
	style := tcell.StyleDefault.Background(bg)
	if p, ok := b.PieceAt(pos); ok {
		fg := styles[stylePlayer1]
		if p.Owner == types.Player2 {
			fg = styles[stylePlayer2]
		}
		style = style.Foreground(fg).Bold(true)
	}
	return style
}

func tileText(symbols config.ConfigSymbols, b *rules.Board, pos types.Position) string {
	if p, ok := b.PieceAt(pos); ok {
		return p.Species.Abbrev()
	}
	var r rune
	switch b.Terrain(pos).Kind {
	case rules.Water:
		r = symbols.Water
	case rules.Trap:
		r = symbols.Trap
	case rules.Den:
		r = symbols.Den
	default:
		return "   "
	}
	return " " + string(r) + " "
}

// Attach shows sess on the board.
func (g *BoardUI) Attach(sess *session.Session, onQuit func()) {
	g.sess = sess
	g.onQuit = onQuit
	g.ResetSelection()
	sess.OnChange(func() {
		g.ResetSelection()
		if g.infoPanel != nil {
			g.infoPanel.SetSession(sess)
		}
	})
	if g.infoPanel != nil {
		g.infoPanel.SetSession(sess)
	}
	g.refreshHint()
}

// Session returns the attached session.
func (g *BoardUI) Session() *session.Session {
	return g.sess
}

func (g *BoardUI) SetConfig(c *config.Config) {
	g.styles = themeStyles(c.Theme)
	g.cfg = c
}

func themeStyles(t config.Theme) []tcell.Color {
	return []tcell.Color{
		tcell.PaletteColor(t.Colors.LandColor),       // 0
		tcell.PaletteColor(t.Colors.WaterColor),      // 1
		tcell.PaletteColor(t.Colors.TrapColor),       // 2
		tcell.PaletteColor(t.Colors.DenColor),        // 3
		tcell.PaletteColor(t.Colors.Player1Color),    // 4
		tcell.PaletteColor(t.Colors.Player2Color),    // 5
		tcell.PaletteColor(t.Colors.CursorColorFG),   // 6
		tcell.PaletteColor(t.Colors.CursorColorBG),   // 7
		tcell.PaletteColor(t.Colors.LastMoveColorBG), // 8
	}
}

func (g *BoardUI) currentName() string {
	game := g.sess.Game()
	return game.Players()[game.CurrentTurn()].Name
}

func (g *BoardUI) refreshHint() {
	if g.infoPanel != nil {
		g.infoPanel.refresh()
	}

	if g.focusMode {
		g.hint.SetText("  f to toggle")
		return
	}
	if g.sess == nil {
		g.hint.SetText("")
		return
	}

	var turnLine, controlsLine string
	if o, over := g.sess.Game().Outcome(); over {
		turnLine = fmt.Sprintf("  Result: %s\n", o)
		controlsLine = "  n new game   q quit"
	} else {
		turnLine = "  " + g.sess.Status() + "\n"
		if g.source != nil {
			turnLine = fmt.Sprintf("  %s: moving from %s, pick a destination\n", g.currentName(), g.source)
		}
		controlsLine = "  hjkl/↑↓←→ move   ⏎ pick   u undo   : command   f focus   q quit"
	}
	g.hint.SetText(turnLine + controlsLine)
}

// drawTile draws one tile: a marker column followed by three cells of text.
func drawTile(s tcell.Screen, left, top int, pos types.Position, marker rune, text string, style tcell.Style) {
	x := left + pos.Col*cellWidth
	y := top + types.Rows - 1 - pos.Row
	s.SetContent(x, y, marker, nil, style)
	i := 1
	for _, r := range text {
		if i >= cellWidth {
			break
		}
		s.SetContent(x+i, y, r, nil, style)
		i++
	}
}

func drawCoordinates(s tcell.Screen, x, y int, ui *BoardUI) {
	style := tcell.StyleDefault
	highlight := tcell.StyleDefault.Background(ui.styles[styleCursorBG]).Foreground(ui.styles[styleCursorFG])

	for col := 0; col < types.Cols; col++ {
		_style := style
		if ui.hasCursor && col == ui.cursor.Col {
			_style = highlight
		}
		left := x + 3 + col*cellWidth
		for i := 0; i < cellWidth; i++ {
			s.SetContent(left+i, y+types.Rows, ' ', nil, _style)
		}
		s.SetContent(left+2, y+types.Rows, rune('A'+col), nil, _style)
	}

	for row := 0; row < types.Rows; row++ {
		_style := style
		if ui.hasCursor && row == ui.cursor.Row {
			_style = highlight
		}
		s.SetContent(x+1, y+types.Rows-1-row, rune('1'+row), nil, _style)
	}
}
