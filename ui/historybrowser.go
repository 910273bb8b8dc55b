package ui

import (
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"junglequest/config"
	"junglequest/record"
	"junglequest/types"
)

// RecordBrowserUI provides a screen for browsing recorded games and stepping through them.
type RecordBrowserUI struct {
	flex     *tview.Flex
	gameList *tview.List
	preview  *tview.Box
	hint     *tview.TextView
	dir      string
	theme    config.Theme
	records  []record.Info
	files    map[int]*record.File // cached decoded records
	selected int
	step     int // moves replayed in the preview; -1 means all
	onDone   func()
	onResume func(f *record.File)
}

// NewRecordBrowser creates a record browser over dir. onResume continues the
// selected record as a live game.
func NewRecordBrowser(dir string, theme config.Theme, onDone func(), onResume func(f *record.File)) *RecordBrowserUI {
	hb := &RecordBrowserUI{
		dir:      dir,
		theme:    theme,
		onDone:   onDone,
		onResume: onResume,
		files:    make(map[int]*record.File),
		step:     -1,
	}

	// Record list (left panel)
	hb.gameList = tview.NewList()
	hb.gameList.SetBorder(true)
	hb.gameList.SetTitle(" Records ")
	hb.gameList.ShowSecondaryText(false)
	hb.gameList.SetHighlightFullLine(true)
	hb.gameList.SetMainTextStyle(tcell.StyleDefault.Foreground(MenuColors.Label))
	hb.gameList.SetSelectedStyle(tcell.StyleDefault.
		Foreground(MenuColors.ButtonText).
		Background(MenuColors.ButtonFocus))

	// Preview box (right panel)
	hb.preview = tview.NewBox()
	hb.preview.SetBorder(true)
	hb.preview.SetTitle(" Replay ")
	hb.preview.SetDrawFunc(hb.drawPreview)

	hb.hint = tview.NewTextView()
	hb.hint.SetDynamicColors(true)
	hb.hint.SetBorder(false)
	hb.hint.SetText("  [dimgray]←→[-] step  [dimgray]r[-] resume  [dimgray]d[-] delete  [dimgray]q[-] back")

	hb.gameList.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		hb.selected = index
		hb.step = -1
	})

	hb.gameList.SetInputCapture(hb.handleInput)

	// Layout: list left, preview right, hint bottom
	topRow := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(hb.gameList, 44, 0, true).
		AddItem(hb.preview, 0, 1, false)

	hb.flex = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(topRow, 0, 1, true).
		AddItem(hb.hint, 1, 0, false)

	hb.loadRecords()
	return hb
}

// Flex returns the flex container for this UI.
func (hb *RecordBrowserUI) Flex() *tview.Flex {
	return hb.flex
}

// Refresh reloads the record list from disk.
func (hb *RecordBrowserUI) Refresh() {
	hb.files = make(map[int]*record.File)
	hb.loadRecords()
}

func (hb *RecordBrowserUI) loadRecords() {
	hb.gameList.Clear()
	hb.records = nil
	hb.selected = 0
	hb.step = -1

	records, err := record.ListRecords(hb.dir)
	if err != nil || len(records) == 0 {
		hb.gameList.AddItem("[dimgray]No records found[-]", "", 0, nil)
		return
	}

	hb.records = records
	for _, r := range records {
		label := fmt.Sprintf("%s  %s v %s  %d",
			r.Timestamp.Local().Format("2006-01-02 15:04"), r.Players[0], r.Players[1], r.MoveCount)
		hb.gameList.AddItem(tview.Escape(label), "", 0, nil)
	}
}

func (hb *RecordBrowserUI) handleInput(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyEscape:
		if hb.onDone != nil {
			hb.onDone()
		}
		return nil
	case tcell.KeyLeft:
		hb.stepBy(-1)
		return nil
	case tcell.KeyRight:
		hb.stepBy(1)
		return nil
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q':
			if hb.onDone != nil {
				hb.onDone()
			}
			return nil
		case 'd':
			hb.deleteSelected()
			return nil
		case 'h':
			hb.stepBy(-1)
			return nil
		case 'l':
			hb.stepBy(1)
			return nil
		case 'r':
			if f := hb.file(); f != nil && hb.onResume != nil {
				hb.onResume(f)
			}
			return nil
		}
	}
	return event
}

func (hb *RecordBrowserUI) stepBy(d int) {
	f := hb.file()
	if f == nil {
		return
	}
	n := hb.step
	if n < 0 {
		n = len(f.Moves)
	}
	n += d
	if n < 0 {
		n = 0
	}
	if n >= len(f.Moves) {
		n = -1
	}
	hb.step = n
}

// file returns the decoded selected record, reading it on first use.
func (hb *RecordBrowserUI) file() *record.File {
	if hb.selected < 0 || hb.selected >= len(hb.records) {
		return nil
	}
	if f, ok := hb.files[hb.selected]; ok {
		return f
	}
	f, err := record.ReadFile(hb.records[hb.selected].FilePath)
	if err != nil {
		return nil
	}
	hb.files[hb.selected] = f
	return f
}

// deleteSelected removes the currently selected record file.
func (hb *RecordBrowserUI) deleteSelected() {
	if hb.selected < 0 || hb.selected >= len(hb.records) {
		return
	}
	os.Remove(hb.records[hb.selected].FilePath)
	hb.Refresh()
}

// drawPreview renders the replayed position and the record metadata.
func (hb *RecordBrowserUI) drawPreview(screen tcell.Screen, x, y, width, height int) (int, int, int, int) {
	f := hb.file()
	if f == nil {
		return x, y, width, height
	}
	info := hb.records[hb.selected]

	n := hb.step
	if n < 0 {
		n = len(f.Moves)
	}
	startX := x + 2
	startY := y + 1
	if width < types.Cols*cellWidth+4 || height < types.Rows+7 {
		return x, y, width, height
	}

	infoStyle := tcell.StyleDefault.Foreground(MenuColors.Label)
	dimStyle := tcell.StyleDefault.Foreground(MenuColors.Hint)

	pos, err := record.ReplayTo(f, n, record.ReplayOptions{Trust: true})
	if err != nil {
		drawText(screen, startX, startY, err.Error(), dimStyle)
		return x, y, width, height
	}

	styles := themeStyles(hb.theme)
	for row := 0; row < types.Rows; row++ {
		for col := 0; col < types.Cols; col++ {
			p := types.Pos(col, row)
			drawTile(screen, startX, startY, p, ' ', tileText(hb.theme.Symbols, pos.Board, p), terrainStyle(styles, pos.Board, p))
		}
	}

	infoY := startY + types.Rows + 1
	drawText(screen, startX, infoY, fmt.Sprintf("Move %d of %d", pos.Applied, len(f.Moves)), infoStyle)
	if pos.Applied > 0 {
		m := f.Moves[pos.Applied-1]
		drawText(screen, startX+16, infoY, fmt.Sprintf("| %s %s", m.Species.Abbrev(), m.MoveString), dimStyle)
	}
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("1: %s", info.Players[0]), dimStyle)
	infoY++
	drawText(screen, startX, infoY, fmt.Sprintf("2: %s", info.Players[1]), dimStyle)

	infoY++
	result := info.Result
	if result == "" {
		result = "Unfinished"
	}
	drawText(screen, startX, infoY, fmt.Sprintf("Result: %s", result), tcell.StyleDefault.Foreground(MenuColors.Accent))

	return x, y, width, height
}

// drawText writes a string to the screen at the given position.
func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		screen.SetContent(x+i, y, ch, nil, style)
	}
}
