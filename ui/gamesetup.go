package ui

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// SetupResult is what the setup form hands back when a game starts.
// Blank names are left blank; the session fills them in.
type SetupResult struct {
	Players    [2]string
	MaxUndos   int
	AutoRecord bool
}

// GameSetupUI provides a form for configuring a new game.
type GameSetupUI struct {
	form   *tview.Form
	flex   *tview.Flex
	result SetupResult
}

// NewGameSetup creates a new game setup form. maxUndos and autoRecord are the configured defaults.
func NewGameSetup(maxUndos int, autoRecord bool, onStart func(SetupResult), onCancel func(), onRecords func(), onColors func()) *GameSetupUI {
	setup := &GameSetupUI{
		result: SetupResult{MaxUndos: maxUndos, AutoRecord: autoRecord},
	}

	undoOptions := []string{"0", "1", "2", "3", "4", "5", "10"}
	undoIndex := len(undoOptions) - 1
	for i, o := range undoOptions {
		if o == strconv.Itoa(maxUndos) {
			undoIndex = i
			break
		}
	}

	form := tview.NewForm()

	form.AddInputField("Player 1 (bottom)", "", 20, nil, func(text string) {
		setup.result.Players[0] = text
	})
	form.AddInputField("Player 2 (top)", "", 20, nil, func(text string) {
		setup.result.Players[1] = text
	})

	form.AddDropDown("Undos per game", undoOptions, undoIndex, func(option string, index int) {
		if n, err := strconv.Atoi(option); err == nil {
			setup.result.MaxUndos = n
		}
	})

	form.AddCheckbox("Record game", autoRecord, func(checked bool) {
		setup.result.AutoRecord = checked
	})

	form.AddButton("Start Game", func() {
		onStart(setup.result)
	})

	form.AddButton("Records", func() {
		if onRecords != nil {
			onRecords()
		}
	})

	form.AddButton("Board Color", func() {
		if onColors != nil {
			onColors()
		}
	})

	form.AddButton("Quit", func() {
		onCancel()
	})

	form.SetBorder(true)
	form.SetTitle(" New Game ")
	form.SetTitleAlign(tview.AlignCenter)
	form.SetButtonBackgroundColor(MenuColors.ButtonBG)
	form.SetButtonTextColor(MenuColors.ButtonText)
	form.SetLabelColor(MenuColors.Label)

	helpText := tview.NewTextView().
		SetText("Tab/Shift+Tab: navigate fields  |  Blank name: random call-sign  |  Enter: confirm").
		SetTextAlign(tview.AlignCenter)
	helpText.SetTextColor(MenuColors.Hint)

	flex := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(helpText, 1, 0, false)

	setup.form = form
	setup.flex = flex
	return setup
}

// Form returns the flex container with form and help text.
func (s *GameSetupUI) Form() *tview.Flex {
	return s.flex
}

// SetInputCapture sets the input capture function for the form.
func (s *GameSetupUI) SetInputCapture(capture func(event *tcell.EventKey) *tcell.EventKey) {
	s.form.SetInputCapture(capture)
}
