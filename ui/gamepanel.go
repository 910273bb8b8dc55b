package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"junglequest/session"
	"junglequest/types"
)

// InfoPanel displays the players, the undo budget and the move log alongside the board.
type InfoPanel struct {
	box     *tview.TextView
	sess    *session.Session
	message string
}

// NewInfoPanel creates a new info panel.
func NewInfoPanel() *InfoPanel {
	panel := &InfoPanel{
		box: tview.NewTextView(),
	}

	panel.box.SetDynamicColors(true)
	panel.box.SetWrap(true)
	panel.box.SetBorder(false)
	panel.box.SetTextAlign(tview.AlignLeft)

	return panel
}

// Box returns the underlying tview component.
func (p *InfoPanel) Box() *tview.TextView {
	return p.box
}

// SetSession shows sess in the panel.
func (p *InfoPanel) SetSession(sess *session.Session) {
	p.sess = sess
	p.refresh()
}

// SetMessage shows the reply to the last command.
func (p *InfoPanel) SetMessage(msg string) {
	p.message = msg
	p.refresh()
}

// refresh updates the panel text.
func (p *InfoPanel) refresh() {
	if p.sess == nil {
		p.box.SetText("")
		return
	}
	game := p.sess.Game()

	var b strings.Builder
	b.WriteString("[white::b]Game Info[-:-:-]\n")
	b.WriteString("[dimgray]──────────────────────[-:-:-]\n")

	turn := game.CurrentTurn()
	_, over := game.Outcome()
	for _, pl := range game.Players() {
		marker := " "
		if pl.Index == turn && !over {
			marker = "[yellow]>[-]"
		}
		fmt.Fprintf(&b, "%s%s %s [dimgray](%d pieces)[-]\n",
			marker, pl.Index, tview.Escape(pl.Name), game.PiecesRemaining(pl.Index))
	}
	fmt.Fprintf(&b, "[white]Undos left:[-:-:-] %d\n", game.UndosRemaining())
	fmt.Fprintf(&b, "[white]Move:[-:-:-] %d\n", len(game.MoveLog()))
	if path := p.sess.RecordPath(); path != "" {
		b.WriteString("[red]● REC[-]\n")
	}

	if moves := game.MoveLog(); len(moves) > 0 {
		b.WriteString("\n[white::b]Moves[-:-:-]\n")
		b.WriteString("[dimgray]──────────────────────[-:-:-]\n")

		// Show the last moves that fit
		maxVisible := 12
		start := 0
		if len(moves) > maxVisible {
			start = len(moves) - maxVisible
		}
		for i := start; i < len(moves); i++ {
			m := moves[i]
			marker := " "
			if i == len(moves)-1 {
				marker = "[white]>[-]"
			}
			side := "[white]1[-]"
			if m.MoverIndex == types.Player2 {
				side = "[dimgray]2[-]"
			}
			capture := ""
			if m.IsCapture() {
				capture = "x" + m.Captured.Abbrev()
			}
			fmt.Fprintf(&b, "%s[dimgray]%3d.[-] %s %s %s-%s %s\n",
				marker, m.Sequence, side, m.Species.Abbrev(), m.From, m.To, capture)
		}
		if start > 0 {
			fmt.Fprintf(&b, "[dimgray]  ··· %d earlier[-]\n", start)
		}
	}

	if p.message != "" {
		b.WriteString("\n[dimgray]──────────────────────[-:-:-]\n")
		b.WriteString(tview.Escape(p.message))
		b.WriteString("\n")
	}

	p.box.SetText(b.String())
}

// CreateGameLayout creates the main game layout with board, side panel, status and command line.
func CreateGameLayout(board *BoardUI, hint *tview.TextView, command *tview.InputField) *tview.Flex {
	gameFrame := tview.NewFlex()
	RebuildNormalLayout(gameFrame, board, hint, command)
	return gameFrame
}

// CreateCenteredForm creates a centered form container for the setup screen.
func CreateCenteredForm(form *tview.Flex, maxWidth int) *tview.Flex {
	centered := tview.NewFlex().SetDirection(tview.FlexColumn)
	centered.AddItem(nil, 0, 1, false)        // Left spacer
	centered.AddItem(form, maxWidth, 0, true) // Form with max width
	centered.AddItem(nil, 0, 1, false)        // Right spacer

	return centered
}

// RebuildNormalLayout restores the normal game layout with board, info panel, hint and command line.
func RebuildNormalLayout(gameFrame *tview.Flex, board *BoardUI, hint *tview.TextView, command *tview.InputField) {
	gameFrame.Clear()

	if board.infoPanel == nil {
		board.infoPanel = NewInfoPanel()
	}
	if board.sess != nil {
		board.infoPanel.SetSession(board.sess)
	}

	// Horizontal flex: board | info panel
	boardRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	boardRow.AddItem(board.Box, 0, 1, true)
	boardRow.AddItem(board.infoPanel.Box(), 34, 0, false)

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(boardRow, 0, 1, true)
	gameFrame.AddItem(hint, 4, 0, false)
	gameFrame.AddItem(command, 1, 0, false)
}

// BuildFocusLayout builds the focus mode layout with just the centered board.
func BuildFocusLayout(gameFrame *tview.Flex, board *BoardUI) {
	gameFrame.Clear()

	boardWidth := types.Cols*cellWidth + 3 // row labels
	boardHeight := types.Rows + 1          // column labels

	gameFrame.SetDirection(tview.FlexRow)
	gameFrame.AddItem(nil, 0, 1, false) // top spacer

	centerRow := tview.NewFlex().SetDirection(tview.FlexColumn)
	centerRow.AddItem(nil, 0, 1, false)
	centerRow.AddItem(board.Box, boardWidth, 0, true)
	centerRow.AddItem(nil, 0, 1, false)

	gameFrame.AddItem(centerRow, boardHeight, 0, true)
	gameFrame.AddItem(nil, 0, 1, false) // bottom spacer
}
