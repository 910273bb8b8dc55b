// junglequest is a terminal application to play jungle (dou shou qi) with two players at one keyboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"junglequest/archive"
	"junglequest/config"
	"junglequest/logging"
	"junglequest/persist"
	"junglequest/persist/filestore"
	"junglequest/persist/mongostore"
	"junglequest/persist/redisstore"
	"junglequest/record"
	"junglequest/session"
	"junglequest/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagConfig     = flag.String("config", "", "Config file (default: junglequest/config.json in the XDG config dirs)")
	flagPlayer1    = flag.String("p1", "", "Name of player 1")
	flagPlayer2    = flag.String("p2", "", "Name of player 2")
	flagQuickStart = flag.Bool("play", false, "Start game immediately with defaults")
	flagFocus      = flag.Bool("focus", false, "Start in focus mode (fullscreen board)")
	flagRecord     = flag.Bool("record", false, "Record every game to the record directory")
	flagExport     = flag.String("export", "", "Export all records to this parquet file and exit")
	flagVersion    = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var gameBoard *ui.BoardUI
var gameFrame *tview.Flex
var gameHint *tview.TextView
var gameCommand *tview.InputField
var records *ui.RecordBrowserUI
var cfg *config.Config
var log *zap.SugaredLogger
var store persist.Store

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("junglequest %s\n", Version)
		return
	}

	var err error
	if *flagConfig != "" {
		cfg, err = config.Load(*flagConfig)
	} else {
		cfg, err = config.InitConfig()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *flagRecord {
		cfg.Record.Auto = true
	}

	log, err = logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %s\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *flagExport != "" {
		games, rows, err := archive.ExportDir(recordDir(), *flagExport)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %s\n", err)
			os.Exit(1)
		}
		log.Infow("exported records", "file", *flagExport, "games", games, "moves", rows)
		fmt.Printf("Exported %d games (%d moves) to %s\n", games, rows, *flagExport)
		return
	}

	ctx := context.Background()
	store, err = openStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open %s storage: %s\n", cfg.Storage.Backend, err)
		os.Exit(1)
	}
	defer store.Close(ctx)

	quickStart := *flagQuickStart || *flagPlayer1 != "" || *flagPlayer2 != "" || *flagFocus

	app = tview.NewApplication()
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" 🐘 junglequest ")

	// Game view setup
	gameHint = tview.NewTextView()
	gameHint.SetBorder(true)
	gameHint.SetBorderPadding(0, 0, 1, 1)
	gameHint.SetTitle(" Status ")
	gameHint.SetTitleAlign(tview.AlignLeft)
	gameBoard = ui.NewBoard(app, cfg, gameHint)

	gameCommand = tview.NewInputField().SetLabel(": ")
	gameCommand.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			line := gameCommand.GetText()
			gameCommand.SetText("")
			gameBoard.Run(line)
		}
		app.SetFocus(gameBoard.Box)
	})

	gameFrame = ui.CreateGameLayout(gameBoard, gameHint, gameCommand)

	// Game board input handling
	gameBoard.Box.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Rune() == 'q' {
			if gameBoard.SelectedTile() != nil {
				gameBoard.ResetSelection()
			} else {
				endGame()
			}
			return nil
		}
		switch event.Key() {
		case tcell.KeyUp:
			gameBoard.MoveSelection(0, 1)
		case tcell.KeyDown:
			gameBoard.MoveSelection(0, -1)
		case tcell.KeyLeft:
			gameBoard.MoveSelection(-1, 0)
		case tcell.KeyRight:
			gameBoard.MoveSelection(1, 0)
		case tcell.KeyEnter:
			gameBoard.Pick()
		case tcell.KeyRune:
			switch event.Rune() {
			case 'h':
				gameBoard.MoveSelection(-1, 0)
			case 'j':
				gameBoard.MoveSelection(0, -1)
			case 'k':
				gameBoard.MoveSelection(0, 1)
			case 'l':
				gameBoard.MoveSelection(1, 0)
			case 'u':
				gameBoard.Run("undo")
			case 'n':
				gameBoard.Run("new")
			case ':':
				app.SetFocus(gameCommand)
				return nil
			case 'f':
				if gameBoard.ToggleFocusMode() {
					ui.BuildFocusLayout(gameFrame, gameBoard)
				} else {
					ui.RebuildNormalLayout(gameFrame, gameBoard, gameHint, gameCommand)
				}
			}
		}
		return event
	})

	// Game setup screen
	setupUI := ui.NewGameSetup(
		cfg.Rules.MaxUndos,
		cfg.Record.Auto,
		func(res ui.SetupResult) {
			startGame(res)
		},
		func() {
			app.Stop()
		},
		func() {
			records.Refresh()
			rootPage.SwitchToPage("records")
		},
		func() {
			rootPage.SwitchToPage("colors")
		},
	)

	// Record browser
	records = ui.NewRecordBrowser(recordDir(), cfg.Theme,
		func() {
			rootPage.SwitchToPage("setup")
		},
		func(f *record.File) {
			if !startGame(ui.SetupResult{Players: f.Players, MaxUndos: cfg.Rules.MaxUndos, AutoRecord: cfg.Record.Auto}) {
				return
			}
			gameBoard.Say(gameBoard.Session().ResumeRecord(f).Message)
		},
	)

	// Color configuration screen
	colorConfig := ui.NewColorConfig(cfg, func() {
		gameBoard.SetConfig(cfg)
		rootPage.SwitchToPage("setup")
	})
	colorConfig.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEsc || (event.Key() == tcell.KeyRune && event.Rune() == 'q') {
			colorConfig.Reset()
			rootPage.SwitchToPage("setup")
			return nil
		}
		if event.Key() == tcell.KeyTab {
			colorConfig.ToggleMode()
			return nil
		}
		return event
	})

	rootPage.AddPage("setup", ui.CreateCenteredForm(setupUI.Form(), 72), true, !quickStart)
	rootPage.AddPage("gameview", gameFrame, true, quickStart)
	rootPage.AddPage("records", records.Flex(), true, false)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)

	if quickStart {
		startGame(ui.SetupResult{
			Players:    [2]string{*flagPlayer1, *flagPlayer2},
			MaxUndos:   cfg.Rules.MaxUndos,
			AutoRecord: cfg.Record.Auto,
		})
		if *flagFocus {
			gameBoard.SetFocusMode(true)
			ui.BuildFocusLayout(gameFrame, gameBoard)
		}
	}

	if err := app.SetRoot(rootPage, true).Run(); err != nil {
		log.Errorw("ui stopped", "err", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if sess := gameBoard.Session(); sess != nil {
		sess.Close()
	}
}

// startGame starts a session with the chosen players and switches to the board.
func startGame(res ui.SetupResult) bool {
	if old := gameBoard.Session(); old != nil {
		old.Close()
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sess, err := session.New(session.Config{
		Players:    session.PlayerNames(res.Players, rng),
		MaxUndos:   res.MaxUndos,
		AutoRecord: res.AutoRecord,
		RecordDir:  recordDir(),
		Logger:     log,
	}, store)
	if err != nil {
		log.Errorw("start game", "err", err)
		modal := tview.NewModal().
			SetText(fmt.Sprintf("Failed to start game:\n%s", err.Error())).
			AddButtons([]string{"OK"}).
			SetDoneFunc(func(buttonIndex int, buttonLabel string) {
				rootPage.RemovePage("error")
			})
		rootPage.AddPage("error", modal, true, true)
		return false
	}
	gameBoard.Attach(sess, endGame)
	gameBoard.Say(fmt.Sprintf("%s vs %s. Type : then help for commands.", sess.Game().Players()[0].Name, sess.Game().Players()[1].Name))
	rootPage.SwitchToPage("gameview")
	app.SetFocus(gameBoard.Box)
	return true
}

// endGame leaves the board and returns to the setup screen.
func endGame() {
	if sess := gameBoard.Session(); sess != nil {
		sess.Close()
	}
	rootPage.SwitchToPage("setup")
}

// openStore connects the configured storage backend.
func openStore(ctx context.Context) (persist.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		return redisstore.Dial(ctx, cfg.Storage.RedisURL, log)
	case config.BackendMongo:
		return mongostore.Dial(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase, log)
	default:
		return filestore.New(cfg.Storage.Dir, log)
	}
}

// recordDir is where live records are written. By default it is the file
// store's record directory, so live records can be replayed by name.
func recordDir() string {
	if cfg.Record.Dir != "" {
		return cfg.Record.Dir
	}
	dir := cfg.Storage.Dir
	if dir == "" {
		dir = filestore.DefaultDir()
	}
	return filepath.Join(dir, "records")
}
